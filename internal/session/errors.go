package session

import "errors"

var (
	// ErrCapabilityUnsupported reports that no speech recognizer is available.
	ErrCapabilityUnsupported = errors.New("speech recognition is not supported")
	// ErrSessionActive reports a start request while a session is running.
	ErrSessionActive = errors.New("interview session already active")
	// ErrNotActive reports a request that needs an active session.
	ErrNotActive = errors.New("no active interview session")
	// ErrProceedBlocked reports a manual next while the host gate is closed.
	ErrProceedBlocked = errors.New("next is not permitted yet")
	// ErrStartCancelled reports a start attempt aborted by stop or teardown.
	ErrStartCancelled = errors.New("session start cancelled")
	// ErrClosed reports a request to a controller whose loop is not running.
	ErrClosed = errors.New("session controller is not running")
)

// IsCapabilityUnsupported reports whether err means recognition is unavailable.
func IsCapabilityUnsupported(err error) bool {
	return errors.Is(err, ErrCapabilityUnsupported)
}
