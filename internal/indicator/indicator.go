// Package indicator surfaces interview session state as desktop notifications
// and short audio cues.
package indicator

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Pradeep10j21/Mockello-MVP/internal/config"
	"github.com/Pradeep10j21/Mockello-MVP/internal/hypr"
	"github.com/Pradeep10j21/Mockello-MVP/internal/session"
)

const (
	dispatchTimeout       = 400 * time.Millisecond
	queueSize             = 16
	defaultErrorTimeoutMS = 1200
	// hyprStickyTimeoutMS approximates "until dismissed" for hyprctl notify.
	hyprStickyTimeoutMS = 300000
	previewRunes        = 120
)

// Notifier is a session.Host that mirrors session lifecycle onto the
// configured notification backend. Dispatch runs on a single worker so
// callbacks from the session loop never block on hyprctl or DBus.
type Notifier struct {
	cfg      config.IndicatorConfig
	logger   *slog.Logger
	messages messages
	emit     func(cueKind) error

	queueMu sync.Mutex
	closed  bool
	jobs    chan func(context.Context)
	done    chan struct{}

	mu                    sync.Mutex
	desktopNotificationID uint32
	soundMu               sync.Mutex
}

var _ session.Host = (*Notifier)(nil)

// New creates a notifier from config and starts its dispatch worker.
func New(cfg config.IndicatorConfig, logger *slog.Logger) *Notifier {
	n := &Notifier{
		cfg:      cfg,
		logger:   logger,
		messages: indicatorMessagesFromEnv(),
		emit:     emitCue,
		jobs:     make(chan func(context.Context), queueSize),
		done:     make(chan struct{}),
	}
	go n.work()
	return n
}

// OnStart shows the recording indicator and plays the start cue.
func (n *Notifier) OnStart(info session.Info) {
	n.playCue(cueStart)
	n.show(notice{
		summary:   n.messages.recording,
		body:      info.Device,
		urgency:   urgencyNormal,
		hyprIcon:  hypr.IconInfo,
		hyprColor: "rgb(89b4fa)",
	})
}

// OnStop dismisses the indicator and plays the stop cue.
func (n *Notifier) OnStop(session.Info) {
	n.playCue(cueStop)
	if !n.enabled() {
		return
	}
	n.enqueue(n.dismiss)
}

func (n *Notifier) OnTranscriptUpdate(string) {}

// OnAnswerComplete flashes the answer count with a preview of the answer and
// plays the completion cue.
func (n *Notifier) OnAnswerComplete(answer session.Answer) {
	n.playCue(cueComplete)
	n.show(notice{
		summary:   n.messages.answer(answer.Index),
		body:      preview(answer.Text),
		urgency:   urgencyLow,
		timeoutMS: 1500,
		hyprIcon:  hypr.IconOK,
		hyprColor: "rgb(a6e3a1)",
	})
}

// OnAdapterError shows a short-lived error notification.
func (n *Notifier) OnAdapterError(err error) {
	n.playCue(cueError)
	body := ""
	if err != nil {
		body = strings.TrimSpace(err.Error())
	}
	timeout := n.cfg.ErrorTimeoutMS
	if timeout <= 0 {
		timeout = defaultErrorTimeoutMS
	}
	n.show(notice{
		summary:   n.messages.errorText,
		body:      body,
		urgency:   urgencyCritical,
		timeoutMS: timeout,
		hyprIcon:  hypr.IconError,
		hyprColor: "rgb(f38ba8)",
	})
}

// Close drains queued notifications and stops the worker.
func (n *Notifier) Close() {
	n.queueMu.Lock()
	if !n.closed {
		n.closed = true
		close(n.jobs)
	}
	n.queueMu.Unlock()
	<-n.done
}

func (n *Notifier) enabled() bool {
	if !n.cfg.Enable {
		return false
	}
	return !strings.EqualFold(strings.TrimSpace(n.cfg.Backend), "none")
}

func (n *Notifier) desktop() bool {
	return strings.EqualFold(strings.TrimSpace(n.cfg.Backend), "desktop")
}

// preview shortens answer text for a notification body.
func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return strings.TrimSpace(string(runes[:previewRunes-1])) + "…"
}

// show queues a notification. A zero timeout keeps it visible until replaced
// or dismissed.
func (n *Notifier) show(msg notice) {
	if !n.enabled() {
		return
	}
	n.enqueue(func(ctx context.Context) error {
		return n.notify(ctx, msg)
	})
}

func (n *Notifier) enqueue(fn func(context.Context) error) {
	job := func(ctx context.Context) {
		runCtx, cancel := context.WithTimeout(ctx, dispatchTimeout)
		defer cancel()
		if err := fn(runCtx); err != nil {
			n.log("indicator dispatch failed", err)
		}
	}
	n.queueMu.Lock()
	defer n.queueMu.Unlock()
	if n.closed {
		return
	}
	select {
	case n.jobs <- job:
	default:
		n.log("indicator queue full", nil)
	}
}

func (n *Notifier) work() {
	defer close(n.done)
	for job := range n.jobs {
		job(context.Background())
	}
}

// notify dispatches indicator output through the configured backend.
func (n *Notifier) notify(ctx context.Context, msg notice) error {
	if n.desktop() {
		return n.notifyDesktop(ctx, msg)
	}
	timeoutMS := msg.timeoutMS
	if timeoutMS <= 0 {
		timeoutMS = hyprStickyTimeoutMS
	}
	return hypr.Notify(ctx, msg.hyprIcon, time.Duration(timeoutMS)*time.Millisecond, msg.hyprColor, msg.hyprText())
}

// dismiss removes indicator output from the configured backend.
func (n *Notifier) dismiss(ctx context.Context) error {
	if n.desktop() {
		return n.dismissDesktop(ctx)
	}
	return hypr.DismissNotify(ctx)
}

// notifyDesktop sends a replaceable desktop notification and stores its ID.
func (n *Notifier) notifyDesktop(ctx context.Context, msg notice) error {
	n.mu.Lock()
	replaceID := n.desktopNotificationID
	n.mu.Unlock()

	appName := strings.TrimSpace(n.cfg.DesktopAppName)
	if appName == "" {
		appName = "mockello"
	}

	id, err := desktopNotify(ctx, appName, replaceID, msg)
	if err != nil {
		return err
	}

	n.mu.Lock()
	n.desktopNotificationID = id
	n.mu.Unlock()
	return nil
}

// dismissDesktop closes the current desktop notification ID when present.
func (n *Notifier) dismissDesktop(ctx context.Context) error {
	n.mu.Lock()
	id := n.desktopNotificationID
	n.desktopNotificationID = 0
	n.mu.Unlock()

	if id == 0 {
		return nil
	}
	return desktopDismiss(ctx, id)
}

// playCue serializes cue playback and emits audio asynchronously.
func (n *Notifier) playCue(kind cueKind) {
	if !n.cfg.SoundEnable {
		return
	}
	go func() {
		n.soundMu.Lock()
		defer n.soundMu.Unlock()
		if err := n.emit(kind); err != nil {
			n.log("indicator audio cue failed", err)
		}
	}()
}

// log emits debug-only indicator failures to the runtime logger.
func (n *Notifier) log(message string, err error) {
	if n.logger == nil {
		return
	}
	if err == nil {
		n.logger.Debug(message)
		return
	}
	n.logger.Debug(message, "error", err.Error())
}
