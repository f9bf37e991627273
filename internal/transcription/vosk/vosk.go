// Package vosk runs offline recognition with a local Vosk model.
package vosk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	vosk "github.com/alphacep/vosk-api/go"

	"github.com/Pradeep10j21/Mockello-MVP/internal/audio"
	"github.com/Pradeep10j21/Mockello-MVP/internal/transcription"
)

// ErrMissingModel reports that no model directory was configured.
var ErrMissingModel = errors.New("vosk model path is not configured")

// Engine loads the model on first use and opens one recognizer per session.
type Engine struct {
	modelPath string

	mu    sync.Mutex
	model *vosk.VoskModel
}

// New returns an engine for the model directory at modelPath.
func New(modelPath string) *Engine {
	return &Engine{modelPath: strings.TrimSpace(modelPath)}
}

func (e *Engine) Name() string { return "vosk" }

// CheckModel verifies the model directory exists without loading it.
func CheckModel(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrMissingModel
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("vosk model %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vosk model %s is not a directory", path)
	}
	return nil
}

func (e *Engine) loadModel() (*vosk.VoskModel, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model != nil {
		return e.model, nil
	}
	if err := CheckModel(e.modelPath); err != nil {
		return nil, err
	}

	vosk.SetLogLevel(-1)
	model, err := vosk.NewModel(e.modelPath)
	if err != nil {
		return nil, fmt.Errorf("load vosk model from %s: %w", e.modelPath, err)
	}
	if model == nil {
		return nil, fmt.Errorf("load vosk model from %s: model returned nil", e.modelPath)
	}
	e.model = model
	return model, nil
}

// Open creates a recognizer bound to the shared model.
func (e *Engine) Open(ctx context.Context) (transcription.Recognition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	model, err := e.loadModel()
	if err != nil {
		return nil, err
	}
	rec, err := vosk.NewRecognizer(model, float64(audio.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("create vosk recognizer: %w", err)
	}
	rec.SetWords(1)

	return &session{rec: rec, results: make(chan transcription.Result, 64)}, nil
}

// Close frees the model. Sessions opened from it must be closed first.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model != nil {
		e.model.Free()
		e.model = nil
	}
}

type session struct {
	mu          sync.Mutex
	rec         *vosk.VoskRecognizer
	results     chan transcription.Result
	lastPartial string
	closed      bool
	err         error
}

func (s *session) Send(pcm []byte) error {
	if len(pcm) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("vosk session is closed")
	}

	if s.rec.AcceptWaveform(pcm) > 0 {
		text, err := parseFinal(s.rec.Result())
		if err != nil {
			return err
		}
		s.lastPartial = ""
		if text != "" {
			s.results <- transcription.Result{Text: text, Final: true}
		}
		return nil
	}

	partial, err := parsePartial(s.rec.PartialResult())
	if err != nil {
		return err
	}
	if partial != "" && partial != s.lastPartial {
		s.lastPartial = partial
		s.results <- transcription.Result{Text: partial}
	}
	return nil
}

func (s *session) Results() <-chan transcription.Result {
	return s.results
}

// Close flushes the final hypothesis and frees the recognizer.
func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.err
	}
	s.closed = true

	text, err := parseFinal(s.rec.FinalResult())
	if err != nil {
		s.err = err
	} else if text != "" {
		s.results <- transcription.Result{Text: text, Final: true}
	}
	close(s.results)
	s.rec.Free()
	s.rec = nil
	return s.err
}

type result struct {
	Text    string `json:"text"`
	Partial string `json:"partial"`
}

func parseFinal(raw string) (string, error) {
	var r result
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return "", fmt.Errorf("parse vosk result: %w", err)
	}
	return strings.TrimSpace(r.Text), nil
}

func parsePartial(raw string) (string, error) {
	var r result
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return "", fmt.Errorf("parse vosk partial result: %w", err)
	}
	return strings.TrimSpace(r.Partial), nil
}
