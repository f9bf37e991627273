// Package transcription defines the speech-to-text adapter contract consumed by
// the interview session and the streaming machinery shared by providers.
package transcription

import (
	"context"
	"sync"
)

// Snapshot is the adapter's current observable value.
type Snapshot struct {
	// Text is the full transcript recognized since the last Reset.
	Text string
	// Listening reports whether audio is currently being recognized.
	Listening bool
	// Err is the most recent runtime error, cleared by a successful Start.
	Err error
}

// Adapter is a speech-to-text engine exposed as a current value plus a
// change notification. Start and Stop are idempotent; their effects are
// observed through Snapshot.
type Adapter interface {
	Supported() bool
	Start(context.Context) error
	Stop(context.Context) error
	Reset()
	Snapshot() Snapshot
	// Changes delivers a coalesced signal whenever Snapshot may differ.
	Changes() <-chan struct{}
}

// Feed stores a Snapshot and signals changes. The zero value is ready to use.
type Feed struct {
	mu      sync.RWMutex
	snap    Snapshot
	once    sync.Once
	changed chan struct{}
}

func (f *Feed) ch() chan struct{} {
	f.once.Do(func() { f.changed = make(chan struct{}, 1) })
	return f.changed
}

// Snapshot returns the current value.
func (f *Feed) Snapshot() Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snap
}

// Changes returns the notification channel.
func (f *Feed) Changes() <-chan struct{} {
	return f.ch()
}

// Update mutates the snapshot under lock and signals observers.
func (f *Feed) Update(mutate func(*Snapshot)) {
	f.mu.Lock()
	mutate(&f.snap)
	f.mu.Unlock()

	select {
	case f.ch() <- struct{}{}:
	default:
	}
}

// SetText replaces the transcript text.
func (f *Feed) SetText(text string) {
	f.Update(func(s *Snapshot) { s.Text = text })
}

// SetListening replaces the listening flag.
func (f *Feed) SetListening(listening bool) {
	f.Update(func(s *Snapshot) { s.Listening = listening })
}

// SetErr records a runtime error.
func (f *Feed) SetErr(err error) {
	f.Update(func(s *Snapshot) { s.Err = err })
}

// Unsupported is the adapter used when no recognizer is available.
type Unsupported struct {
	Feed
}

func (*Unsupported) Supported() bool             { return false }
func (*Unsupported) Start(context.Context) error { return nil }
func (*Unsupported) Stop(context.Context) error  { return nil }
func (*Unsupported) Reset()                      {}
