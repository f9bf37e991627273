package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Pradeep10j21/Mockello-MVP/internal/audio"
	"github.com/Pradeep10j21/Mockello-MVP/internal/capture"
	"github.com/Pradeep10j21/Mockello-MVP/internal/transcription"
)

// fakeClock fires tickers and timers only when advanced. Each fire blocks
// until the controller loop receives it.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	sources []*fakeSource
}

type fakeSource struct {
	ch      chan time.Time
	stop    chan struct{}
	once    sync.Once
	next    time.Time
	period  time.Duration
	stopped atomic.Bool
	seq     int
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) add(d, period time.Duration) *fakeSource {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := &fakeSource{
		ch:     make(chan time.Time),
		stop:   make(chan struct{}),
		next:   c.now.Add(d),
		period: period,
		seq:    len(c.sources),
	}
	c.sources = append(c.sources, s)
	return s
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker { return fakeTicker{c.add(d, d)} }
func (c *fakeClock) NewTimer(d time.Duration) Timer   { return fakeTimer{c.add(d, 0)} }

func (s *fakeSource) halt() bool {
	first := false
	s.once.Do(func() {
		first = true
		s.stopped.Store(true)
		close(s.stop)
	})
	return first
}

type fakeTicker struct{ s *fakeSource }

func (t fakeTicker) C() <-chan time.Time { return t.s.ch }
func (t fakeTicker) Stop()               { t.s.halt() }

type fakeTimer struct{ s *fakeSource }

func (t fakeTimer) C() <-chan time.Time { return t.s.ch }
func (t fakeTimer) Stop() bool          { return t.s.halt() }

// Advance moves time forward, firing due sources in time order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due []*fakeSource
		for _, s := range c.sources {
			if !s.stopped.Load() && !s.next.After(target) {
				due = append(due, s)
			}
		}
		if len(due) == 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		sort.SliceStable(due, func(i, j int) bool {
			if due[i].next.Equal(due[j].next) {
				return due[i].seq < due[j].seq
			}
			return due[i].next.Before(due[j].next)
		})
		s := due[0]
		c.now = s.next
		at := s.next
		if s.period > 0 {
			s.next = s.next.Add(s.period)
		} else {
			s.stopped.Store(true)
		}
		c.mu.Unlock()

		select {
		case s.ch <- at:
		case <-s.stop:
		}
	}
}

type fakeAdapter struct {
	transcription.Feed

	supported bool
	startErr  error
	// startGate holds Start until closed. Start ignores ctx while waiting.
	startGate chan struct{}
	started   atomic.Int32
	stopped   atomic.Int32
	resets    atomic.Int32
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{supported: true}
}

func (a *fakeAdapter) Supported() bool { return a.supported }

func (a *fakeAdapter) Start(context.Context) error {
	a.started.Add(1)
	if a.startGate != nil {
		<-a.startGate
	}
	if a.startErr != nil {
		a.SetErr(a.startErr)
		return a.startErr
	}
	a.Update(func(s *transcription.Snapshot) {
		s.Listening = true
		s.Err = nil
	})
	return nil
}

func (a *fakeAdapter) Stop(context.Context) error {
	a.stopped.Add(1)
	a.SetListening(false)
	return nil
}

func (a *fakeAdapter) Reset() {
	a.resets.Add(1)
	a.SetText("")
}

type fakeHandle struct {
	releases atomic.Int32
}

func (h *fakeHandle) Device() audio.Device {
	return audio.Device{ID: "alsa_input.usb", Description: "USB Mic"}
}

func (h *fakeHandle) Release() error {
	h.releases.Add(1)
	return nil
}

type fakeAcquirer struct {
	mu       sync.Mutex
	err      error
	gate     chan struct{}
	handles  []*fakeHandle
	acquires atomic.Int32
	// acquired runs after a handle is handed out, before Acquire returns.
	acquired func()
}

func (a *fakeAcquirer) Acquire(ctx context.Context) (capture.Handle, error) {
	a.acquires.Add(1)
	if a.gate != nil {
		select {
		case <-a.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if a.err != nil {
		return nil, a.err
	}
	h := &fakeHandle{}
	a.mu.Lock()
	a.handles = append(a.handles, h)
	a.mu.Unlock()
	if a.acquired != nil {
		a.acquired()
	}
	return h, nil
}

func (a *fakeAcquirer) handle(i int) *fakeHandle {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.handles[i]
}

type recordingHost struct {
	mu        sync.Mutex
	starts    []Info
	stops     []Info
	updates   []string
	answers   []Answer
	adapterEr []error
}

func (h *recordingHost) OnStart(info Info) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts = append(h.starts, info)
}

func (h *recordingHost) OnStop(info Info) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stops = append(h.stops, info)
}

func (h *recordingHost) OnTranscriptUpdate(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updates = append(h.updates, text)
}

func (h *recordingHost) OnAnswerComplete(a Answer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.answers = append(h.answers, a)
}

func (h *recordingHost) OnAdapterError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.adapterEr = append(h.adapterEr, err)
}

func (h *recordingHost) answerList() []Answer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Answer(nil), h.answers...)
}

func (h *recordingHost) counts() (starts, stops int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.starts), len(h.stops)
}

type countingRecorder struct {
	started  atomic.Int32
	stopped  atomic.Int32
	answered atomic.Int32
	failed   atomic.Int32
}

func (r *countingRecorder) SessionStarted()              { r.started.Add(1) }
func (r *countingRecorder) SessionStopped(time.Duration) { r.stopped.Add(1) }
func (r *countingRecorder) AnswerCompleted(Answer)       { r.answered.Add(1) }
func (r *countingRecorder) AdapterFailed()               { r.failed.Add(1) }

type harness struct {
	t        *testing.T
	clock    *fakeClock
	adapter  *fakeAdapter
	acquirer *fakeAcquirer
	host     *recordingHost
	recorder *countingRecorder
	ctrl     *Controller
	cancel   context.CancelFunc
	runDone  chan error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, Config{})
}

func newHarnessWith(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		clock:    newFakeClock(),
		adapter:  newFakeAdapter(),
		acquirer: &fakeAcquirer{},
		host:     &recordingHost{},
		recorder: &countingRecorder{},
		runDone:  make(chan error, 1),
	}
	h.ctrl = NewController(h.adapter, h.acquirer, h.host, Options{
		Config:     cfg,
		Clock:      h.clock,
		Recorder:   h.recorder,
		CanProceed: true,
	})
	return h
}

func (h *harness) run() *harness {
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.runDone <- h.ctrl.Run(ctx) }()
	h.t.Cleanup(func() {
		cancel()
		<-h.runDone
	})
	return h
}

// sync waits until the loop has handled every event that preceded the call.
func (h *harness) sync() Status {
	h.t.Helper()
	require.NoError(h.t, h.ctrl.submit(context.Background(), func() {}))
	return h.ctrl.Status()
}

// start runs Start and waits for the delayed recognizer start to land.
func (h *harness) start() Info {
	h.t.Helper()
	info, err := h.ctrl.Start(context.Background())
	require.NoError(h.t, err)
	h.clock.Advance(DefaultStartDelay)
	h.waitListening(true)
	return info
}

func (h *harness) waitListening(want bool) {
	h.t.Helper()
	require.Eventually(h.t, func() bool {
		return h.sync().Listening == want
	}, 2*time.Second, time.Millisecond)
}

// say replaces the recognized text and lets the loop observe it.
func (h *harness) say(text string) Status {
	h.adapter.SetText(text)
	return h.sync()
}

// teardown cancels Run and waits for it to return.
func (h *harness) teardown() {
	h.t.Helper()
	h.cancel()
	require.NoError(h.t, <-h.runDone)
	h.runDone <- nil
}

// tick advances one tick and returns the resulting status.
func (h *harness) tick() Status {
	h.clock.Advance(DefaultTick)
	return h.sync()
}

func (h *harness) ticks(n int) Status {
	var s Status
	for i := 0; i < n; i++ {
		s = h.tick()
	}
	return s
}

var errBoom = errors.New("boom")
