package session

import "time"

// Info describes a session at start or stop.
type Info struct {
	SessionID string
	StartedAt time.Time
	Elapsed   time.Duration
	Device    string
	Answers   int
}

// Trigger names what finalized an answer.
type Trigger string

const (
	TriggerAuto   Trigger = "auto"
	TriggerManual Trigger = "manual"
)

// Answer is one finalized response.
type Answer struct {
	SessionID string
	Index     int
	Text      string
	Words     int
	Trigger   Trigger
	Elapsed   time.Duration
	At        time.Time
}

// Host receives session callbacks. Callbacks run on the controller loop and
// must not call back into the Controller synchronously.
type Host interface {
	OnStart(Info)
	OnStop(Info)
	OnTranscriptUpdate(text string)
	OnAnswerComplete(Answer)
	OnAdapterError(error)
}

// HostFuncs adapts optional functions to Host. Nil fields are skipped.
type HostFuncs struct {
	Start            func(Info)
	Stop             func(Info)
	TranscriptUpdate func(string)
	AnswerComplete   func(Answer)
	AdapterError     func(error)
}

func (h HostFuncs) OnStart(info Info) {
	if h.Start != nil {
		h.Start(info)
	}
}

func (h HostFuncs) OnStop(info Info) {
	if h.Stop != nil {
		h.Stop(info)
	}
}

func (h HostFuncs) OnTranscriptUpdate(text string) {
	if h.TranscriptUpdate != nil {
		h.TranscriptUpdate(text)
	}
}

func (h HostFuncs) OnAnswerComplete(answer Answer) {
	if h.AnswerComplete != nil {
		h.AnswerComplete(answer)
	}
}

func (h HostFuncs) OnAdapterError(err error) {
	if h.AdapterError != nil {
		h.AdapterError(err)
	}
}

// Hosts fans callbacks out to several hosts in order.
type Hosts []Host

func (hs Hosts) OnStart(info Info) {
	for _, h := range hs {
		h.OnStart(info)
	}
}

func (hs Hosts) OnStop(info Info) {
	for _, h := range hs {
		h.OnStop(info)
	}
}

func (hs Hosts) OnTranscriptUpdate(text string) {
	for _, h := range hs {
		h.OnTranscriptUpdate(text)
	}
}

func (hs Hosts) OnAnswerComplete(answer Answer) {
	for _, h := range hs {
		h.OnAnswerComplete(answer)
	}
}

func (hs Hosts) OnAdapterError(err error) {
	for _, h := range hs {
		h.OnAdapterError(err)
	}
}

// Recorder receives session metrics.
type Recorder interface {
	SessionStarted()
	SessionStopped(elapsed time.Duration)
	AnswerCompleted(Answer)
	AdapterFailed()
}

type noopRecorder struct{}

func (noopRecorder) SessionStarted()              {}
func (noopRecorder) SessionStopped(time.Duration) {}
func (noopRecorder) AnswerCompleted(Answer)       {}
func (noopRecorder) AdapterFailed()               {}
