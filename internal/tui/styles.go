package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorRed     = lipgloss.Color("#F38BA8")
	colorGreen   = lipgloss.Color("#A6E3A1")
	colorYellow  = lipgloss.Color("#F9E2AF")
	colorBlue    = lipgloss.Color("#89B4FA")
	colorGray    = lipgloss.Color("#6C7086")
	colorDimGray = lipgloss.Color("#45475A")
	colorWhite   = lipgloss.Color("#CDD6F4")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	recordingStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	micOffStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	elapsedStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	transcriptStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	answerIndexStyle = lipgloss.NewStyle().
				Foreground(colorGreen).
				Bold(true)

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	footerDescStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	dividerStyle = lipgloss.NewStyle().
			Foreground(colorDimGray)

	levelOnStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	levelHotStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	levelOffStyle = lipgloss.NewStyle().
			Foreground(colorDimGray)
)
