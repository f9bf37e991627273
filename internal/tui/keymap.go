package tui

// Key bindings handled by Model.handleKey.
const (
	keyQuit       = "q"
	keyCtrlC      = "ctrl+c"
	keyToggle     = " "
	keyToggleAlt  = "s"
	keyNext       = "n"
	keyNextEnter  = "enter"
	keyCanProceed = "p"
)
