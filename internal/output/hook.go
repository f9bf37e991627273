// Package output delivers finalized answers to an external command.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/Pradeep10j21/Mockello-MVP/internal/session"
)

const (
	hookTimeout = 5 * time.Second
	hookBacklog = 32
)

// Payload is the JSON document written to the hook's stdin.
type Payload struct {
	SessionID      string    `json:"session_id"`
	Index          int       `json:"index"`
	Text           string    `json:"text"`
	Words          int       `json:"words"`
	Trigger        string    `json:"trigger"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	At             time.Time `json:"at"`
}

// AnswerHook runs a configured command for every finalized answer. Commands
// run one at a time in answer order, off the session loop.
type AnswerHook struct {
	session.HostFuncs

	argv   []string
	logger *slog.Logger

	mu      sync.Mutex
	closed  bool
	answers chan session.Answer
	done    chan struct{}
}

// NewAnswerHook starts the hook worker. Empty argv yields a hook that drops
// every answer.
func NewAnswerHook(argv []string, logger *slog.Logger) *AnswerHook {
	h := &AnswerHook{
		argv:    append([]string(nil), argv...),
		logger:  logger,
		answers: make(chan session.Answer, hookBacklog),
		done:    make(chan struct{}),
	}
	h.AnswerComplete = h.enqueue
	go h.work()
	return h
}

// Close waits for queued answers to be delivered.
func (h *AnswerHook) Close() {
	h.mu.Lock()
	if !h.closed {
		h.closed = true
		close(h.answers)
	}
	h.mu.Unlock()
	<-h.done
}

func (h *AnswerHook) enqueue(answer session.Answer) {
	if len(h.argv) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	select {
	case h.answers <- answer:
	default:
		h.log("answer hook backlog full; dropping answer", answer, nil)
	}
}

func (h *AnswerHook) work() {
	defer close(h.done)
	for answer := range h.answers {
		ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
		err := Deliver(ctx, h.argv, answer)
		cancel()
		if err != nil {
			h.log("answer hook failed", answer, err)
		}
	}
}

// Deliver runs argv once with the answer as JSON on stdin.
func Deliver(ctx context.Context, argv []string, answer session.Answer) error {
	payload, err := json.Marshal(Payload{
		SessionID:      answer.SessionID,
		Index:          answer.Index,
		Text:           answer.Text,
		Words:          answer.Words,
		Trigger:        string(answer.Trigger),
		ElapsedSeconds: int(answer.Elapsed / time.Second),
		At:             answer.At,
	})
	if err != nil {
		return fmt.Errorf("encode answer: %w", err)
	}

	env := append(os.Environ(),
		"MOCKELLO_SESSION_ID="+answer.SessionID,
		"MOCKELLO_ANSWER_INDEX="+strconv.Itoa(answer.Index),
		"MOCKELLO_ANSWER_TRIGGER="+string(answer.Trigger),
	)
	return runCommandWithInput(ctx, argv, env, append(payload, '\n'))
}

// runCommandWithInput executes argv and writes input to stdin.
func runCommandWithInput(ctx context.Context, argv []string, env []string, input []byte) error {
	if len(argv) == 0 {
		return fmt.Errorf("command argv cannot be empty")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = env
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open stdin for %s: %w", argv[0], err)
	}

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return fmt.Errorf("start command %s: %w", argv[0], err)
	}

	if len(input) > 0 {
		if _, err := stdin.Write(input); err != nil {
			_ = stdin.Close()
			_ = cmd.Wait()
			return fmt.Errorf("write stdin for %s: %w", argv[0], err)
		}
	}
	_ = stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait for %s: %w", argv[0], err)
	}
	return nil
}

func (h *AnswerHook) log(msg string, answer session.Answer, err error) {
	if h.logger == nil {
		return
	}
	args := []any{"session_id", answer.SessionID, "index", answer.Index}
	if err != nil {
		args = append(args, "error", err.Error())
	}
	h.logger.Error(msg, args...)
}
