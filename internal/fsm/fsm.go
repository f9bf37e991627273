// Package fsm defines the interview session lifecycle states and legal transitions.
package fsm

import "fmt"

type State string

type Event string

const (
	StateIdle     State = "idle"
	StateStarting State = "starting"
	StateActive   State = "active"
	StateStopped  State = "stopped"
)

const (
	// EventStart begins capture acquisition.
	EventStart Event = "start"
	// EventAcquired completes acquisition and opens the session.
	EventAcquired Event = "acquired"
	// EventFail aborts a start attempt (unsupported, permission, device).
	EventFail Event = "fail"
	// EventCancel aborts a start attempt on operator request.
	EventCancel Event = "cancel"
	EventStop   Event = "stop"
	// EventReset discards a stopped session so a new one can begin.
	EventReset Event = "reset"
)

// Transition returns the state reached by applying event to current.
func Transition(current State, event Event) (State, error) {
	switch current {
	case StateIdle:
		switch event {
		case EventStart:
			return StateStarting, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateStarting:
		switch event {
		case EventAcquired:
			return StateActive, nil
		case EventFail, EventCancel:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateActive:
		switch event {
		case EventStop:
			return StateStopped, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateStopped:
		switch event {
		case EventReset:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
