package transcription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Pradeep10j21/Mockello-MVP/internal/audio"
	"github.com/Pradeep10j21/Mockello-MVP/internal/transcript"
)

// Result is one recognizer hypothesis.
type Result struct {
	Text  string
	Final bool
}

// Engine opens recognition sessions for a speech-to-text provider.
type Engine interface {
	Name() string
	Open(context.Context) (Recognition, error)
}

// Recognition is one provider session fed with PCM audio.
type Recognition interface {
	Send(pcm []byte) error
	// Results is closed once the session has fully ended.
	Results() <-chan Result
	// Close flushes pending audio, waits for the session to end, and returns
	// the first terminal error.
	Close() error
}

// SourceFunc opens the PCM capture feeding a recognition session.
type SourceFunc func(context.Context) (audio.Stream, error)

// Streaming adapts an Engine plus an audio source to the Adapter contract.
type Streaming struct {
	Feed

	engine Engine
	source SourceFunc
	opts   transcript.Options
	logger *slog.Logger

	mu       sync.Mutex
	current  *run
	segments transcript.Segments
}

type run struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewStreaming builds a streaming adapter. A nil engine or source yields an
// adapter that reports itself unsupported.
func NewStreaming(engine Engine, source SourceFunc, opts transcript.Options, logger *slog.Logger) *Streaming {
	return &Streaming{engine: engine, source: source, opts: opts, logger: logger}
}

// Supported reports whether both an engine and an audio source are wired.
func (s *Streaming) Supported() bool {
	return s.engine != nil && s.source != nil
}

// Start opens audio and a recognition session. It is a no-op while running.
func (s *Streaming) Start(ctx context.Context) error {
	if !s.Supported() {
		return errors.New("speech recognition is not supported")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	src, err := s.source(ctx)
	if err != nil {
		cancel()
		err = fmt.Errorf("open audio: %w", err)
		s.SetErr(err)
		return err
	}
	rec, err := s.engine.Open(ctx)
	if err != nil {
		cancel()
		_ = src.Stop()
		err = fmt.Errorf("open %s session: %w", s.engine.Name(), err)
		s.SetErr(err)
		return err
	}

	r := &run{cancel: cancel, done: make(chan struct{})}
	s.current = r
	s.Update(func(snap *Snapshot) {
		snap.Listening = true
		snap.Err = nil
	})
	go s.pump(runCtx, r, src, rec)
	return nil
}

// Stop ends the running session and waits for it to drain or ctx to expire.
// Results arriving after Stop are discarded.
func (s *Streaming) Stop(ctx context.Context) error {
	s.mu.Lock()
	r := s.current
	s.current = nil
	s.mu.Unlock()
	if r == nil {
		return nil
	}

	r.cancel()
	s.SetListening(false)
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop %s session: %w", s.engine.Name(), ctx.Err())
	}
}

// Reset clears accumulated transcript text.
func (s *Streaming) Reset() {
	s.segments.Reset()
	s.SetText("")
}

func (s *Streaming) isCurrent(r *run) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current == r
}

func (s *Streaming) pump(ctx context.Context, r *run, src audio.Stream, rec Recognition) {
	defer close(r.done)
	stop := context.AfterFunc(ctx, func() { _ = src.Stop() })
	defer stop()

	received := make(chan struct{})
	go func() {
		defer close(received)
		for res := range rec.Results() {
			s.apply(r, res)
		}
	}()

	failed := false
	for chunk := range src.Chunks() {
		if failed {
			continue
		}
		if err := rec.Send(chunk); err != nil {
			failed = true
			s.fail(r, fmt.Errorf("send audio: %w", err))
			_ = src.Stop()
		}
	}

	if err := rec.Close(); err != nil {
		s.fail(r, err)
	}
	<-received

	s.mu.Lock()
	ended := s.current == r
	if ended {
		s.current = nil
	}
	s.mu.Unlock()
	if ended {
		r.cancel()
		s.SetListening(false)
		s.log("recognition ended", "engine", s.engine.Name())
	}
}

func (s *Streaming) apply(r *run, res Result) {
	if !s.isCurrent(r) {
		return
	}
	if res.Final {
		s.segments.Commit(res.Text)
	} else {
		s.segments.SetInterim(res.Text)
	}
	s.SetText(transcript.Assemble(s.segments.List(), s.opts))
}

func (s *Streaming) fail(r *run, err error) {
	if !s.isCurrent(r) {
		return
	}
	s.log("recognition error", "engine", s.engine.Name(), "error", err.Error())
	s.SetErr(err)
}

func (s *Streaming) log(msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(msg, args...)
}
