package tui

import (
	"sync"

	"github.com/Pradeep10j21/Mockello-MVP/internal/session"
)

const feedBuffer = 64

// Feed is a session.Host that forwards callbacks into the bubbletea program.
// Sends never block the session loop. Answers are always queued because the
// status poll does not carry them; other messages are dropped once
// feedBuffer are waiting, and the next status poll catches the view up.
type Feed struct {
	mu    sync.Mutex
	queue []any
	ready chan struct{}
}

var _ session.Host = (*Feed)(nil)

func NewFeed() *Feed {
	return &Feed{ready: make(chan struct{}, 1)}
}

func (f *Feed) push(msg any, keep bool) {
	f.mu.Lock()
	if keep || len(f.queue) < feedBuffer {
		f.queue = append(f.queue, msg)
	}
	f.mu.Unlock()

	select {
	case f.ready <- struct{}{}:
	default:
	}
}

// next blocks until a message is queued and returns the oldest one.
func (f *Feed) next() any {
	for {
		f.mu.Lock()
		if len(f.queue) > 0 {
			msg := f.queue[0]
			f.queue[0] = nil
			f.queue = f.queue[1:]
			f.mu.Unlock()
			return msg
		}
		f.mu.Unlock()
		<-f.ready
	}
}

func (f *Feed) OnStart(info session.Info)              { f.push(StartedMsg{Info: info}, false) }
func (f *Feed) OnStop(info session.Info)               { f.push(StoppedMsg{Info: info}, false) }
func (f *Feed) OnTranscriptUpdate(string)              {}
func (f *Feed) OnAnswerComplete(answer session.Answer) { f.push(AnswerMsg{Answer: answer}, true) }
func (f *Feed) OnAdapterError(err error)               { f.push(AdapterErrorMsg{Err: err}, false) }
