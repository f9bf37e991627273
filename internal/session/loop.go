package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Pradeep10j21/Mockello-MVP/internal/capture"
	"github.com/Pradeep10j21/Mockello-MVP/internal/fsm"
)

type request struct {
	fn   func()
	done chan struct{}
}

type startResult struct {
	info Info
	err  error
}

type event interface{}

// acquiredEvent completes an asynchronous capture acquisition.
type acquiredEvent struct {
	epoch  uint64
	handle capture.Handle
	err    error
}

// adapterStartedEvent completes an asynchronous recognizer start.
type adapterStartedEvent struct {
	epoch uint64
	err   error
}

// Run serves the controller until ctx is cancelled. Cancelling ctx stops an
// active session with full cleanup before Run returns. Run must be called once.
func (c *Controller) Run(ctx context.Context) error {
	c.runCtx = ctx
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			c.stopSession("teardown")
			c.publish()
			return nil
		case req := <-c.requests:
			c.foldAdapter()
			req.fn()
			close(req.done)
		case ev := <-c.events:
			c.handleEvent(ev)
		case <-c.adapter.Changes():
			c.foldAdapter()
		case <-tickC(c.elapsedTicker):
			c.elapsed++
		case <-tickC(c.silenceTicker):
			c.onSilenceTick()
		case <-timerC(c.startTimer):
			c.startTimer = nil
			c.startAdapter()
		case <-timerC(c.settleTimer):
			c.settleTimer = nil
			c.onSettle()
		}
		c.publish()
	}
}

func (c *Controller) submit(ctx context.Context, fn func()) error {
	req := request{fn: fn, done: make(chan struct{})}
	select {
	case c.requests <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	}
	<-req.done
	return nil
}

// post delivers an async completion to the loop, or runs discard when the
// loop has already exited. events is unbuffered, so a completion is either
// received by Run or discarded, never parked.
func (c *Controller) post(ev event, discard func()) {
	select {
	case c.events <- ev:
	case <-c.done:
		discard()
	}
}

func (c *Controller) handleEvent(ev event) {
	switch ev := ev.(type) {
	case acquiredEvent:
		c.onAcquired(ev)
	case adapterStartedEvent:
		c.onAdapterStarted(ev)
	}
}

func (c *Controller) transition(event fsm.Event) {
	next, err := fsm.Transition(c.state, event)
	if err != nil {
		c.log(slog.LevelError, "session transition rejected", "error", err.Error())
		return
	}
	c.state = next
}

func (c *Controller) beginStart(reply chan startResult) {
	switch c.state {
	case fsm.StateStarting, fsm.StateActive:
		reply <- startResult{err: ErrSessionActive}
		return
	case fsm.StateStopped:
		c.transition(fsm.EventReset)
	}

	if !c.adapter.Supported() {
		c.log(slog.LevelWarn, "session start rejected", "error", ErrCapabilityUnsupported.Error())
		reply <- startResult{err: ErrCapabilityUnsupported}
		return
	}
	if c.acquirer == nil {
		reply <- startResult{err: fmt.Errorf("%w: no capture manager", capture.ErrDeviceUnavailable)}
		return
	}

	c.transition(fsm.EventStart)
	c.epoch++
	c.pendingStart = reply

	epoch, ctx, acquirer := c.epoch, c.runCtx, c.acquirer
	go func() {
		handle, err := acquirer.Acquire(ctx)
		c.post(acquiredEvent{epoch: epoch, handle: handle, err: err}, func() {
			_ = capture.Release(handle)
		})
	}()
}

func (c *Controller) resolveStart(res startResult) {
	if c.pendingStart == nil {
		return
	}
	c.pendingStart <- res
	c.pendingStart = nil
}

func (c *Controller) onAcquired(ev acquiredEvent) {
	if ev.epoch != c.epoch || c.state != fsm.StateStarting {
		if ev.err == nil {
			_ = capture.Release(ev.handle)
		}
		return
	}
	if ev.err != nil {
		c.transition(fsm.EventFail)
		c.log(slog.LevelWarn, "capture acquisition failed", "error", ev.err.Error())
		c.resolveStart(startResult{err: ev.err})
		return
	}

	c.transition(fsm.EventAcquired)
	c.handle = ev.handle
	c.device = deviceLabel(ev.handle)
	c.sessionID = uuid.NewString()
	c.startedAt = c.clock.Now()
	c.elapsed, c.silence, c.answers = 0, 0, 0
	c.acc.Reset()
	c.adapterErr = nil

	c.elapsedTicker = c.clock.NewTicker(c.cfg.Tick)
	c.startTimer = c.clock.NewTimer(c.cfg.StartDelay)

	info := c.info()
	c.log(slog.LevelInfo, "session started", "session", c.sessionID, "device", c.device)
	c.recorder.SessionStarted()
	c.host.OnStart(info)
	c.resolveStart(startResult{info: info})
}

func deviceLabel(h capture.Handle) string {
	d := h.Device()
	if strings.TrimSpace(d.Description) != "" {
		return d.Description
	}
	return d.ID
}

func (c *Controller) startAdapter() {
	if c.state != fsm.StateActive {
		return
	}
	epoch, ctx, adapter := c.epoch, c.runCtx, c.adapter
	go func() {
		err := adapter.Start(ctx)
		c.post(adapterStartedEvent{epoch: epoch, err: err}, func() {
			if err == nil {
				c.stopAdapter()
			}
		})
	}()
}

func (c *Controller) onAdapterStarted(ev adapterStartedEvent) {
	if ev.epoch != c.epoch || c.state != fsm.StateActive || c.awaitingRestart {
		// A start that lands after stop or finalize must not keep recognizing.
		if ev.err == nil && (c.state != fsm.StateActive || c.awaitingRestart) {
			c.stopAdapter()
		}
		return
	}
	if ev.err == nil {
		c.foldAdapter()
		return
	}
	if c.adapter.Snapshot().Err != nil {
		c.foldAdapter()
		return
	}
	c.reportAdapterErr(fmt.Errorf("start recognition: %w", ev.err))
}

func (c *Controller) stopAdapter() {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.StopTimeout)
	defer cancel()
	if err := c.adapter.Stop(ctx); err != nil {
		c.log(slog.LevelWarn, "recognition stop failed", "error", err.Error())
	}
}

// foldAdapter applies the adapter's current snapshot to session state. It
// reports whether the transcript grew or shrank, which restarts the silence
// window at once.
func (c *Controller) foldAdapter() bool {
	if c.state != fsm.StateActive {
		return false
	}
	snap := c.adapter.Snapshot()

	listening := snap.Listening && !c.awaitingRestart
	switch {
	case listening && !c.listening:
		c.listening = true
		c.adapterErr = nil
		c.silenceTicker = c.clock.NewTicker(c.cfg.Tick)
	case !listening && c.listening:
		c.listening = false
		stopTicker(&c.silenceTicker)
	}

	if snap.Err != nil && (c.adapterErr == nil || !errors.Is(snap.Err, c.adapterErr)) {
		c.reportAdapterErr(snap.Err)
	}

	if c.awaitingRestart || !c.acc.Set(snap.Text) {
		return false
	}
	c.host.OnTranscriptUpdate(snap.Text)
	if !c.acc.Observe() {
		return false
	}
	c.silence = 0
	return true
}

func (c *Controller) reportAdapterErr(err error) {
	c.adapterErr = err
	c.log(slog.LevelWarn, "recognition error", "session", c.sessionID, "error", err.Error())
	c.recorder.AdapterFailed()
	c.host.OnAdapterError(err)
}

// onSilenceTick folds the latest transcript before evaluating, so speech that
// arrived during this tick always suppresses an advance.
func (c *Controller) onSilenceTick() {
	if c.foldAdapter() {
		return
	}
	if c.state != fsm.StateActive || !c.listening {
		return
	}
	c.silence++
	if c.cfg.Thresholds.ShouldFinalize(c.silence, c.acc.Words(), c.acc.Length()) {
		c.finalize(TriggerAuto)
	}
}

func (c *Controller) manualNext() (bool, error) {
	if c.state != fsm.StateActive {
		return false, ErrNotActive
	}
	if !c.canProceed {
		return false, ErrProceedBlocked
	}
	if c.acc.Empty() {
		return false, nil
	}
	c.finalize(TriggerManual)
	return true, nil
}

// finalize closes out the current answer. The session stays Active and the
// recognizer restarts after the settle delay.
func (c *Controller) finalize(trigger Trigger) {
	text := c.acc.Trimmed()
	words := c.acc.Words()

	c.stopAdapter()
	c.listening = false
	stopTicker(&c.silenceTicker)
	stopTimer(&c.startTimer)
	c.epoch++

	c.answers++
	answer := Answer{
		SessionID: c.sessionID,
		Index:     c.answers,
		Text:      text,
		Words:     words,
		Trigger:   trigger,
		Elapsed:   c.elapsedDuration(),
		At:        c.clock.Now(),
	}
	c.log(slog.LevelInfo, "answer complete",
		"session", c.sessionID,
		"index", answer.Index,
		"trigger", string(trigger),
		"words", words,
		"silence", c.silence,
	)
	c.recorder.AnswerCompleted(answer)
	c.host.OnAnswerComplete(answer)

	c.acc.Reset()
	c.silence = 0
	c.awaitingRestart = true
	stopTimer(&c.settleTimer)
	c.settleTimer = c.clock.NewTimer(c.cfg.SettleDelay)
}

func (c *Controller) onSettle() {
	if c.state != fsm.StateActive || !c.awaitingRestart {
		return
	}
	c.awaitingRestart = false
	c.silence = 0
	c.adapter.Reset()
	c.startAdapter()
}

// stopSession ends a starting or active session. Resources are released
// before timers and counters are cleared so no handle outlives the session.
func (c *Controller) stopSession(reason string) {
	switch c.state {
	case fsm.StateStarting:
		c.transition(fsm.EventCancel)
		c.epoch++
		c.resolveStart(startResult{err: ErrStartCancelled})
		c.log(slog.LevelInfo, "session start cancelled", "reason", reason)
		return
	case fsm.StateActive:
	default:
		return
	}

	info := c.info()

	if err := capture.Release(c.handle); err != nil {
		c.log(slog.LevelWarn, "capture release failed", "error", err.Error())
	}
	c.handle = nil
	c.stopAdapter()

	stopTicker(&c.elapsedTicker)
	stopTicker(&c.silenceTicker)
	stopTimer(&c.startTimer)
	stopTimer(&c.settleTimer)

	c.elapsed, c.silence = 0, 0
	c.acc.Reset()
	c.adapter.Reset()
	c.listening = false
	c.awaitingRestart = false
	c.adapterErr = nil
	c.epoch++
	c.transition(fsm.EventStop)

	c.log(slog.LevelInfo, "session stopped",
		"session", info.SessionID,
		"reason", reason,
		"elapsed", FormatElapsed(int(info.Elapsed/c.cfg.Tick)),
		"answers", info.Answers,
	)
	c.recorder.SessionStopped(info.Elapsed)
	c.host.OnStop(info)
}

// abandonStart cancels a start whose caller gave up, unless it already
// resolved.
func (c *Controller) abandonStart(reply chan startResult) {
	if c.pendingStart != reply || c.state != fsm.StateStarting {
		return
	}
	c.stopSession("start abandoned")
}

func (c *Controller) elapsedDuration() time.Duration {
	return time.Duration(c.elapsed) * c.cfg.Tick
}

func (c *Controller) info() Info {
	return Info{
		SessionID: c.sessionID,
		StartedAt: c.startedAt,
		Elapsed:   c.elapsedDuration(),
		Device:    c.device,
		Answers:   c.answers,
	}
}

func (c *Controller) publish() {
	s := Status{
		State:      c.state,
		Supported:  c.adapter.Supported(),
		CanProceed: c.canProceed,
	}
	if c.state == fsm.StateActive || c.state == fsm.StateStopped {
		s.SessionID = c.sessionID
		s.Answers = c.answers
	}
	if c.state == fsm.StateActive {
		s.Device = c.device
		s.Listening = c.listening
		s.Elapsed = c.elapsed
		s.Silence = c.silence
		s.Transcript = c.acc.Text()
		s.Words = c.acc.Words()
		s.Chars = c.acc.Length()
		if !c.acc.Empty() {
			s.Countdown, s.Hint = c.cfg.Thresholds.Countdown(c.silence)
		}
		if c.adapterErr != nil {
			s.AdapterError = c.adapterErr.Error()
		}
	}
	c.status.store(s)
}
