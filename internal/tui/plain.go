package tui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Pradeep10j21/Mockello-MVP/internal/session"
)

// Plain is a line-oriented session.Host for terminals without a TUI.
type Plain struct {
	mu sync.Mutex
	w  io.Writer
}

var _ session.Host = (*Plain)(nil)

func NewPlain(w io.Writer) *Plain {
	return &Plain{w: w}
}

func (p *Plain) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.w, format, args...)
}

func (p *Plain) OnStart(info session.Info) {
	device := info.Device
	if device == "" {
		device = "default input"
	}
	p.printf("recording on %s (session %s)\n", device, shortID(info.SessionID))
}

func (p *Plain) OnStop(info session.Info) {
	p.printf("stopped after %s with %d answer(s)\n", session.FormatElapsed(int(info.Elapsed/time.Second)), info.Answers)
}

func (p *Plain) OnTranscriptUpdate(string) {}

func (p *Plain) OnAnswerComplete(a session.Answer) {
	p.printf("[%s] answer %d (%s, %d words): %s\n",
		session.FormatElapsed(int(a.Elapsed/time.Second)), a.Index, a.Trigger, a.Words, a.Text)
}

func (p *Plain) OnAdapterError(err error) {
	p.printf("speech recognition error: %s\n", errorText(err))
}
