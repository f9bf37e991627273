// Package capture owns the exclusive microphone handle of an interview
// session and mirrors its signal onto a passive view surface.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Pradeep10j21/Mockello-MVP/internal/audio"
)

var (
	// ErrPermissionDenied reports that the audio server refused the device.
	ErrPermissionDenied = errors.New("microphone permission denied")
	// ErrDeviceUnavailable reports a missing, failing, or busy device.
	ErrDeviceUnavailable = errors.New("microphone unavailable")
)

// Handle is a live device capture. Release is idempotent.
type Handle interface {
	Device() audio.Device
	Release() error
}

// Surface is a passive consumer of the captured signal. It is bound when a
// handle is acquired and unbound when the handle is released.
type Surface interface {
	Bind(audio.Device)
	Observe(pcm []byte)
	Unbind()
}

// OpenFunc opens the underlying PCM stream.
type OpenFunc func(context.Context) (audio.Stream, error)

// Opener returns an OpenFunc using the configured audio backend.
func Opener(opts audio.Options) OpenFunc {
	return func(ctx context.Context) (audio.Stream, error) {
		return audio.Open(ctx, opts)
	}
}

// Manager hands out at most one live Handle at a time.
type Manager struct {
	open    OpenFunc
	surface Surface
	logger  *slog.Logger

	mu   sync.Mutex
	busy bool
}

// NewManager builds a manager. surface may be nil.
func NewManager(open OpenFunc, surface Surface, logger *slog.Logger) *Manager {
	return &Manager{open: open, surface: surface, logger: logger}
}

// Acquire opens the device and binds the surface to it.
func (m *Manager) Acquire(ctx context.Context) (Handle, error) {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: device busy", ErrDeviceUnavailable)
	}
	m.busy = true
	m.mu.Unlock()

	stream, err := m.open(ctx)
	if err != nil {
		m.setBusy(false)
		return nil, classify(err)
	}

	h := &handle{
		manager: m,
		stream:  stream,
		done:    make(chan struct{}),
	}
	if m.surface != nil {
		m.surface.Bind(stream.Device())
	}
	go h.drain()
	m.log("capture acquired", "device", stream.Device().ID)
	return h, nil
}

// Live reports whether a handle is currently held.
func (m *Manager) Live() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy
}

func (m *Manager) setBusy(busy bool) {
	m.mu.Lock()
	m.busy = busy
	m.mu.Unlock()
}

func (m *Manager) log(msg string, args ...any) {
	if m.logger == nil {
		return
	}
	m.logger.Debug(msg, args...)
}

// Release releases h. A nil handle is a no-op.
func Release(h Handle) error {
	if h == nil {
		return nil
	}
	return h.Release()
}

// IsPermissionDenied reports whether err is a refused device permission.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrDeviceUnavailable):
		return err
	case errors.Is(err, audio.ErrAccessDenied):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}
}

type handle struct {
	manager *Manager
	stream  audio.Stream
	done    chan struct{}

	once sync.Once
	err  error
}

func (h *handle) Device() audio.Device {
	return h.stream.Device()
}

func (h *handle) drain() {
	defer close(h.done)
	for chunk := range h.stream.Chunks() {
		if h.manager.surface != nil {
			h.manager.surface.Observe(chunk)
		}
	}
}

func (h *handle) Release() error {
	h.once.Do(func() {
		if err := h.stream.Stop(); err != nil {
			h.err = fmt.Errorf("stop capture: %w", err)
		}
		<-h.done
		if h.manager.surface != nil {
			h.manager.surface.Unbind()
		}
		h.manager.setBusy(false)
		h.manager.log("capture released", "device", h.stream.Device().ID, "bytes", h.stream.BytesCaptured())
	})
	return h.err
}
