// Package deepgram streams PCM to the Deepgram live transcription websocket.
package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Pradeep10j21/Mockello-MVP/internal/audio"
	"github.com/Pradeep10j21/Mockello-MVP/internal/transcription"
)

const (
	defaultBaseURL = "https://api.deepgram.com/v1"
	defaultModel   = "nova-2"
	closeTimeout   = 2 * time.Second
)

// ErrMissingAPIKey reports that no API key was configured.
var ErrMissingAPIKey = errors.New("DEEPGRAM_API_KEY is not configured")

// Config controls Deepgram websocket settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Language    string
	SmartFormat bool
	// Dialer overrides the websocket dialer; nil uses websocket.DefaultDialer.
	Dialer *websocket.Dialer
}

// Engine opens Deepgram live transcription sessions.
type Engine struct {
	cfg Config
}

// New returns a Deepgram engine with defaults applied.
func New(cfg Config) *Engine {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = defaultModel
	}
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}
	return &Engine{cfg: cfg}
}

func (e *Engine) Name() string { return "deepgram" }

// Open dials the listen endpoint and starts the read and write loops.
func (e *Engine) Open(ctx context.Context) (transcription.Recognition, error) {
	if strings.TrimSpace(e.cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	listenURL, err := buildListenURL(e.cfg)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	headers.Set("Authorization", "Token "+e.cfg.APIKey)
	conn, resp, err := e.cfg.Dialer.DialContext(ctx, listenURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("connect deepgram websocket: %w (HTTP %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("connect deepgram websocket: %w", err)
	}

	s := &session{
		conn:    conn,
		results: make(chan transcription.Result, 64),
		audio:    make(chan []byte, 32),
		readDone: make(chan struct{}),
		done:     make(chan struct{}),
	}
	s.wg.Add(2)
	go s.readLoop()
	go s.writeLoop()
	go func() {
		s.wg.Wait()
		close(s.results)
		_ = conn.Close()
		close(s.done)
	}()
	return s, nil
}

type session struct {
	conn *websocket.Conn

	results  chan transcription.Result
	audio    chan []byte
	readDone chan struct{}
	done     chan struct{}
	wg       sync.WaitGroup

	errMu sync.Mutex
	err   error

	sendMu     sync.RWMutex
	sendClosed bool
	closeOnce  sync.Once
}

func (s *session) Send(pcm []byte) error {
	if len(pcm) == 0 {
		return nil
	}
	s.sendMu.RLock()
	defer s.sendMu.RUnlock()
	if s.sendClosed {
		return errors.New("deepgram session is closed for sending")
	}

	select {
	case s.audio <- append([]byte(nil), pcm...):
		return nil
	case <-s.readDone:
		if err := s.firstErr(); err != nil {
			return err
		}
		return errors.New("deepgram session ended")
	}
}

func (s *session) Results() <-chan transcription.Result {
	return s.results
}

// Close requests a graceful CloseStream and forces the socket shut if the
// server does not finish within closeTimeout.
func (s *session) Close() error {
	s.closeOnce.Do(func() {
		s.sendMu.Lock()
		s.sendClosed = true
		close(s.audio)
		s.sendMu.Unlock()
	})

	select {
	case <-s.done:
	case <-time.After(closeTimeout):
		_ = s.conn.Close()
		<-s.done
	}
	return s.firstErr()
}

func (s *session) firstErr() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *session) setErr(err error) {
	if err == nil {
		return
	}
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	) {
		return
	}
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *session) writeLoop() {
	defer s.wg.Done()

	for chunk := range s.audio {
		if err := s.conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
			s.setErr(fmt.Errorf("send audio: %w", err))
			// Drain so senders never block on a dead socket.
			for range s.audio {
			}
			return
		}
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"CloseStream"}`)); err != nil {
		s.setErr(fmt.Errorf("close stream: %w", err))
	}
}

func (s *session) readLoop() {
	defer s.wg.Done()
	defer close(s.readDone)

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if !s.sendClosedNow() {
				s.setErr(fmt.Errorf("read deepgram event: %w", err))
			}
			return
		}

		var msg response
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}
		if strings.EqualFold(msg.Type, "Error") {
			message := strings.TrimSpace(msg.Message)
			if message == "" {
				message = "deepgram returned an unknown error"
			}
			s.setErr(errors.New(message))
			_ = s.conn.Close()
			return
		}

		text := msg.transcript()
		if text == "" {
			continue
		}
		s.results <- transcription.Result{Text: text, Final: msg.IsFinal || msg.SpeechFinal}
	}
}

func (s *session) sendClosedNow() bool {
	s.sendMu.RLock()
	defer s.sendMu.RUnlock()
	return s.sendClosed
}

type alternative struct {
	Transcript string `json:"transcript"`
}

type response struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	IsFinal     bool   `json:"is_final"`
	SpeechFinal bool   `json:"speech_final"`

	Channel struct {
		Alternatives []alternative `json:"alternatives"`
	} `json:"channel"`
	Results struct {
		Channels []struct {
			Alternatives []alternative `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

func (r response) transcript() string {
	if len(r.Channel.Alternatives) > 0 {
		if text := strings.TrimSpace(r.Channel.Alternatives[0].Transcript); text != "" {
			return text
		}
	}
	if len(r.Results.Channels) > 0 && len(r.Results.Channels[0].Alternatives) > 0 {
		return strings.TrimSpace(r.Results.Channels[0].Alternatives[0].Transcript)
	}
	return ""
}

func buildListenURL(cfg Config) (string, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}

	listenURL, err := url.Parse(strings.TrimRight(base, "/") + "/listen")
	if err != nil {
		return "", fmt.Errorf("invalid deepgram base url: %w", err)
	}

	query := listenURL.Query()
	query.Set("model", cfg.Model)
	query.Set("encoding", "linear16")
	query.Set("sample_rate", strconv.Itoa(audio.SampleRate))
	query.Set("channels", "1")
	query.Set("interim_results", "true")
	query.Set("smart_format", strconv.FormatBool(cfg.SmartFormat))
	if cfg.Language != "" {
		query.Set("language", cfg.Language)
	}
	listenURL.RawQuery = query.Encode()
	return listenURL.String(), nil
}
