package session

import (
	"sync"

	"github.com/Pradeep10j21/Mockello-MVP/internal/fsm"
)

// Status is a read-only snapshot of the controller published after every
// loop event.
type Status struct {
	State      fsm.State
	SessionID  string
	Device     string
	Supported  bool
	Listening  bool
	CanProceed bool
	// Elapsed and Silence are counted in ticks.
	Elapsed    int
	Silence    int
	Transcript string
	Words      int
	Chars      int
	Answers    int
	// Countdown is the ticks left before auto-advance while Hint is set.
	Countdown    int
	Hint         bool
	AdapterError string
}

// ElapsedLabel renders Elapsed as MM:SS.
func (s Status) ElapsedLabel() string {
	return FormatElapsed(s.Elapsed)
}

// Active reports whether a session holds the device.
func (s Status) Active() bool {
	return s.State == fsm.StateActive
}

type statusBox struct {
	mu     sync.RWMutex
	status Status
}

func (b *statusBox) load() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

func (b *statusBox) store(s Status) {
	b.mu.Lock()
	b.status = s
	b.mu.Unlock()
}
