// Package tui renders the interactive interview console.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Pradeep10j21/Mockello-MVP/internal/fsm"
	"github.com/Pradeep10j21/Mockello-MVP/internal/session"
)

const (
	pollInterval   = 100 * time.Millisecond
	errorLifetime  = 4 * time.Second
	visibleAnswers = 5
)

// Session is the controller surface the console drives.
type Session interface {
	Status() session.Status
	Start(context.Context) (session.Info, error)
	Stop(context.Context) error
	Next(context.Context) (bool, error)
	SetCanProceed(context.Context, bool) error
}

// Options tunes the console.
type Options struct {
	// Level reports the live input level in [0,1]; nil hides the meter.
	Level func() float64
	// AutoStart begins a session as soon as the program starts.
	AutoStart bool
}

// Model is the root bubbletea model for the interview console.
type Model struct {
	ctx   context.Context
	sess  Session
	feed  *Feed
	level func() float64

	autoStart bool
	starting  bool
	quitting  bool

	status   session.Status
	micLevel float64
	answers  []session.Answer

	errorMessage string
	errorSeq     int

	width  int
	height int
}

// New builds a console bound to sess. Callbacks delivered to feed are
// rendered as they arrive.
func New(ctx context.Context, sess Session, feed *Feed, opts Options) Model {
	if feed == nil {
		feed = NewFeed()
	}
	return Model{
		ctx:       ctx,
		sess:      sess,
		feed:      feed,
		level:     opts.Level,
		autoStart: opts.AutoStart,
		status:    sess.Status(),
		width:     80,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.pollCmd(), waitForFeed(m.feed)}
	if m.autoStart {
		cmds = append(cmds, m.startCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) pollCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		msg := statusTickMsg{status: m.sess.Status()}
		if m.level != nil {
			msg.level = m.level()
		}
		return msg
	})
}

func waitForFeed(feed *Feed) tea.Cmd {
	return func() tea.Msg {
		return feed.next()
	}
}

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		info, err := m.sess.Start(m.ctx)
		return startResultMsg{info: info, err: err}
	}
}

func (m Model) stopCmd() tea.Cmd {
	return func() tea.Msg {
		return stopResultMsg{err: m.sess.Stop(m.ctx)}
	}
}

func (m Model) nextCmd() tea.Cmd {
	return func() tea.Msg {
		finalized, err := m.sess.Next(m.ctx)
		return nextResultMsg{finalized: finalized, err: err}
	}
}

func (m Model) canProceedCmd(allowed bool) tea.Cmd {
	return func() tea.Msg {
		return canProceedMsg{allowed: allowed, err: m.sess.SetCanProceed(m.ctx, allowed)}
	}
}

func (m Model) quitCmd() tea.Cmd {
	return func() tea.Msg {
		stopCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = m.sess.Stop(stopCtx)
		return quitMsg{}
	}
}

func clearErrorCmd(seq int) tea.Cmd {
	return tea.Tick(errorLifetime, func(time.Time) tea.Msg {
		return clearErrorMsg{seq: seq}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case statusTickMsg:
		m.status = msg.status
		m.micLevel = msg.level
		if m.quitting {
			return m, nil
		}
		return m, m.pollCmd()

	case startResultMsg:
		m.starting = false
		m.status = m.sess.Status()
		if msg.err != nil {
			return m.setError(describeStartError(msg.err))
		}
		m.answers = nil
		return m, nil

	case stopResultMsg:
		m.status = m.sess.Status()
		if msg.err != nil {
			return m.setError("Stop failed: " + msg.err.Error())
		}
		return m, nil

	case nextResultMsg:
		m.status = m.sess.Status()
		switch {
		case errors.Is(msg.err, session.ErrProceedBlocked):
			return m.setError("Next is locked until you allow proceeding (p)")
		case msg.err != nil:
			return m.setError(msg.err.Error())
		case !msg.finalized:
			return m.setError("Nothing to submit yet")
		}
		return m, nil

	case canProceedMsg:
		m.status = m.sess.Status()
		if msg.err != nil {
			return m.setError(msg.err.Error())
		}
		return m, nil

	case AnswerMsg:
		m.answers = append(m.answers, msg.Answer)
		return m, waitForFeed(m.feed)

	case StartedMsg, StoppedMsg:
		m.status = m.sess.Status()
		return m, waitForFeed(m.feed)

	case AdapterErrorMsg:
		next, cmd := m.setError("Speech recognition: " + errorText(msg.Err))
		return next, tea.Batch(cmd, waitForFeed(m.feed))

	case clearErrorMsg:
		if msg.seq == m.errorSeq {
			m.errorMessage = ""
		}
		return m, nil

	case quitMsg:
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	switch msg.String() {
	case keyQuit, keyCtrlC:
		m.quitting = true
		return m, m.quitCmd()

	case keyToggle, keyToggleAlt:
		switch m.status.State {
		case fsm.StateActive, fsm.StateStarting:
			return m, m.stopCmd()
		default:
			if m.starting {
				return m, nil
			}
			m.starting = true
			return m, m.startCmd()
		}

	case keyNext, keyNextEnter:
		if !m.status.Active() {
			return m, nil
		}
		return m, m.nextCmd()

	case keyCanProceed:
		return m, m.canProceedCmd(!m.status.CanProceed)
	}

	return m, nil
}

func (m Model) setError(text string) (Model, tea.Cmd) {
	m.errorSeq++
	m.errorMessage = text
	return m, clearErrorCmd(m.errorSeq)
}

func describeStartError(err error) string {
	switch {
	case session.IsCapabilityUnsupported(err):
		return "Speech recognition is not available; check the provider configuration"
	case errors.Is(err, session.ErrSessionActive):
		return "A session is already running"
	case errors.Is(err, session.ErrStartCancelled):
		return "Start cancelled"
	default:
		return "Could not start: " + err.Error()
	}
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// View renders the console.
func (m Model) View() string {
	if m.quitting {
		return dimStyle.Render("Stopping interview…") + "\n"
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	divider := dividerStyle.Render(strings.Repeat("─", width))

	sections := []string{
		m.renderHeader(),
		m.renderStatusBar(),
	}
	if hint := m.renderHint(); hint != "" {
		sections = append(sections, hint)
	}
	sections = append(sections, divider, m.renderTranscript(width), divider, m.renderAnswers(width))
	if m.errorMessage != "" {
		sections = append(sections, divider, errorStyle.Render(m.errorMessage))
	}
	sections = append(sections, divider, m.renderFooter())
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("MOCKELLO")
	if m.status.Device != "" {
		title += dimStyle.Render(" · " + m.status.Device)
	}
	if m.status.SessionID != "" {
		title += dimStyle.Render(" · " + shortID(m.status.SessionID))
	}
	return title
}

func (m Model) renderStatusBar() string {
	parts := []string{micIndicator(m.status, m.starting)}
	if m.status.Active() {
		parts = append(parts, elapsedStyle.Render(m.status.ElapsedLabel()))
		if m.level != nil {
			parts = append(parts, renderLevelMeter(m.micLevel))
		}
		parts = append(parts, dimStyle.Render(fmt.Sprintf("words %d", m.status.Words)))
	}
	parts = append(parts, dimStyle.Render(fmt.Sprintf("answers %d", m.status.Answers)))
	if !m.status.CanProceed {
		parts = append(parts, dimStyle.Render("next locked"))
	}
	return strings.Join(parts, "  ")
}

// micIndicator renders the capture state: unsupported, error, recording, or off.
func micIndicator(s session.Status, starting bool) string {
	switch {
	case !s.Supported:
		return errorStyle.Render("✕ SPEECH UNSUPPORTED")
	case s.AdapterError != "":
		return errorStyle.Render("! MIC ERROR")
	case s.Listening:
		return recordingStyle.Render("● REC")
	case starting || s.State == fsm.StateStarting:
		return micOffStyle.Render("◌ STARTING")
	default:
		return micOffStyle.Render("○ MIC OFF")
	}
}

func (m Model) renderHint() string {
	if !m.status.Active() || !m.status.Hint {
		return ""
	}
	return hintStyle.Render(fmt.Sprintf("Auto-advancing in %ds…", m.status.Countdown))
}

func (m Model) renderTranscript(width int) string {
	text := strings.TrimSpace(m.status.Transcript)
	if text == "" {
		if m.status.Active() {
			return dimStyle.Render("Listening for your answer…")
		}
		return dimStyle.Render("Press space to start the interview")
	}
	return transcriptStyle.Render(strings.Join(wrapText(text, width), "\n"))
}

func (m Model) renderAnswers(width int) string {
	if len(m.answers) == 0 {
		return dimStyle.Render("No answers yet")
	}
	start := max(0, len(m.answers)-visibleAnswers)
	lines := make([]string, 0, len(m.answers)-start)
	for _, a := range m.answers[start:] {
		prefix := answerIndexStyle.Render(fmt.Sprintf("%2d", a.Index))
		meta := dimStyle.Render(fmt.Sprintf(" %s %s, %dw ", session.FormatElapsed(int(a.Elapsed/time.Second)), a.Trigger, a.Words))
		lines = append(lines, prefix+meta+truncate(a.Text, max(10, width-24)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	keys := []struct{ key, desc string }{
		{"space", "start/stop"},
		{"n", "next"},
		{"p", "allow next"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, footerKeyStyle.Render(k.key)+" "+footerDescStyle.Render(k.desc))
	}
	return strings.Join(parts, "  ")
}

func renderLevelMeter(level float64) string {
	const barLen = 8
	filled := int(level * barLen)
	filled = min(max(filled, 0), barLen)

	var b strings.Builder
	b.WriteString(dimStyle.Render("MIC "))
	for i := 0; i < barLen; i++ {
		switch {
		case i >= filled:
			b.WriteString(levelOffStyle.Render("░"))
		case float64(i)/barLen > 0.6:
			b.WriteString(levelHotStyle.Render("█"))
		default:
			b.WriteString(levelOnStyle.Render("█"))
		}
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(text string, width int) string {
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return string(runes[:width-1]) + "…"
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	var (
		lines   []string
		current strings.Builder
	)
	for _, word := range strings.Fields(text) {
		if current.Len() > 0 && current.Len()+1+len(word) > width {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
