package tui

import "github.com/Pradeep10j21/Mockello-MVP/internal/session"

// statusTickMsg carries a fresh controller snapshot.
type statusTickMsg struct {
	status session.Status
	level  float64
}

type startResultMsg struct {
	info session.Info
	err  error
}

type stopResultMsg struct{ err error }

type nextResultMsg struct {
	finalized bool
	err       error
}

type canProceedMsg struct {
	allowed bool
	err     error
}

// AnswerMsg is delivered when the controller finalizes an answer.
type AnswerMsg struct{ Answer session.Answer }

// StartedMsg is delivered when a session becomes active.
type StartedMsg struct{ Info session.Info }

// StoppedMsg is delivered when a session ends.
type StoppedMsg struct{ Info session.Info }

// AdapterErrorMsg is delivered for each distinct recognizer error.
type AdapterErrorMsg struct{ Err error }

type clearErrorMsg struct{ seq int }

type quitMsg struct{}
