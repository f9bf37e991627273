package session

import (
	"context"
	"fmt"

	"github.com/Pradeep10j21/Mockello-MVP/internal/fsm"
	"github.com/Pradeep10j21/Mockello-MVP/internal/ipc"
)

// Handle serves IPC commands for the interview owner process.
func (c *Controller) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CommandStatus:
		return c.response(true, "status", "")
	case ipc.CommandNext:
		finalized, err := c.Next(ctx)
		if err != nil {
			return c.response(false, "", err.Error())
		}
		if !finalized {
			return c.response(true, "nothing to submit", "")
		}
		return c.response(true, "answer submitted", "")
	case ipc.CommandStop:
		state := c.Status().State
		if state != fsm.StateActive && state != fsm.StateStarting {
			return c.response(false, "", fmt.Sprintf("cannot stop from state %s", state))
		}
		if err := c.Stop(ctx); err != nil {
			return c.response(false, "", err.Error())
		}
		return c.response(true, "stopped", "")
	default:
		return c.response(false, "", fmt.Sprintf("unknown command: %s", req.Command))
	}
}

func (c *Controller) response(ok bool, message, errText string) ipc.Response {
	s := c.Status()
	resp := ipc.Response{
		OK:         ok,
		State:      string(s.State),
		Message:    message,
		Error:      errText,
		Session:    s.SessionID,
		Listening:  s.Listening,
		Silence:    s.Silence,
		Words:      s.Words,
		Answers:    s.Answers,
		Transcript: s.Transcript,
	}
	if s.Active() {
		resp.Elapsed = s.ElapsedLabel()
	}
	if s.Hint {
		resp.Countdown = s.Countdown
	}
	return resp
}
