// Package session runs the interview capture lifecycle: device ownership,
// live transcript tracking, silence-driven answer completion, and timing.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/Pradeep10j21/Mockello-MVP/internal/capture"
	"github.com/Pradeep10j21/Mockello-MVP/internal/fsm"
	"github.com/Pradeep10j21/Mockello-MVP/internal/transcript"
	"github.com/Pradeep10j21/Mockello-MVP/internal/transcription"
)

// Acquirer hands out the exclusive capture handle.
type Acquirer interface {
	Acquire(context.Context) (capture.Handle, error)
}

// Options carries optional controller collaborators.
type Options struct {
	Config     Config
	Logger     *slog.Logger
	Clock      Clock
	Recorder   Recorder
	CanProceed bool
}

// Controller owns one interview session at a time. All session state is
// mutated on the goroutine running Run; public methods submit requests to it
// and block until Run is serving.
type Controller struct {
	cfg      Config
	adapter  transcription.Adapter
	acquirer Acquirer
	host     Host
	clock    Clock
	recorder Recorder
	logger   *slog.Logger

	requests chan request
	events   chan event
	done     chan struct{}
	status   statusBox

	// Loop-owned state.
	runCtx          context.Context
	state           fsm.State
	epoch           uint64
	pendingStart    chan startResult
	sessionID       string
	device          string
	startedAt       time.Time
	handle          capture.Handle
	acc             transcript.Accumulator
	elapsed         int
	silence         int
	answers         int
	canProceed      bool
	listening       bool
	awaitingRestart bool
	adapterErr      error

	elapsedTicker Ticker
	silenceTicker Ticker
	startTimer    Timer
	settleTimer   Timer
}

// NewController wires a controller. Nil collaborators fall back to safe
// defaults: an unsupported adapter and a no-op host.
func NewController(adapter transcription.Adapter, acquirer Acquirer, host Host, opts Options) *Controller {
	if adapter == nil {
		adapter = &transcription.Unsupported{}
	}
	if host == nil {
		host = HostFuncs{}
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Recorder == nil {
		opts.Recorder = noopRecorder{}
	}

	c := &Controller{
		cfg:        opts.Config.withDefaults(),
		adapter:    adapter,
		acquirer:   acquirer,
		host:       host,
		clock:      opts.Clock,
		recorder:   opts.Recorder,
		logger:     opts.Logger,
		requests:   make(chan request),
		events:     make(chan event),
		done:       make(chan struct{}),
		state:      fsm.StateIdle,
		canProceed: opts.CanProceed,
	}
	c.publish()
	return c
}

// Status returns the latest published snapshot.
func (c *Controller) Status() Status {
	return c.status.load()
}

// Start requests a new session and waits until it is Active or the start
// attempt fails. Unsupported recognition and capture errors leave the
// controller Idle. Cancelling ctx abandons a pending start; a start that
// already completed is kept and returned.
func (c *Controller) Start(ctx context.Context) (Info, error) {
	reply := make(chan startResult, 1)
	if err := c.submit(ctx, func() { c.beginStart(reply) }); err != nil {
		return Info{}, err
	}

	select {
	case res := <-reply:
		return res.info, res.err
	case <-ctx.Done():
		_ = c.submit(context.Background(), func() { c.abandonStart(reply) })
		select {
		case res := <-reply:
			if res.err == nil {
				return res.info, nil
			}
		default:
		}
		return Info{}, ctx.Err()
	case <-c.done:
		return Info{}, ErrClosed
	}
}

// Stop ends the current session. Stopping an idle or stopped controller is a
// no-op.
func (c *Controller) Stop(ctx context.Context) error {
	return c.submit(ctx, func() { c.stopSession("operator") })
}

// Next finalizes the current answer regardless of thresholds. It reports
// false when the transcript is empty.
func (c *Controller) Next(ctx context.Context) (bool, error) {
	var (
		finalized bool
		err       error
	)
	submitErr := c.submit(ctx, func() { finalized, err = c.manualNext() })
	if submitErr != nil {
		return false, submitErr
	}
	return finalized, err
}

// SetCanProceed updates the host gate for manual next.
func (c *Controller) SetCanProceed(ctx context.Context, allowed bool) error {
	return c.submit(ctx, func() { c.canProceed = allowed })
}

func (c *Controller) log(level slog.Level, msg string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Log(context.Background(), level, msg, args...)
}
