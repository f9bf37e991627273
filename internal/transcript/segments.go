package transcript

import (
	"strings"
	"sync"
)

// Segments merges streaming recognizer output into one running transcript.
// Final results are committed; the latest interim result trails them until
// it is replaced or committed. It is safe for concurrent use.
type Segments struct {
	mu        sync.Mutex
	committed []string
	interim   string
}

// Commit records a final recognizer result and clears the pending interim.
func (s *Segments) Commit(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed = appendSegment(s.committed, text)
	s.interim = ""
}

// SetInterim replaces the trailing interim result.
func (s *Segments) SetInterim(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interim = cleanSegment(text)
}

// List returns committed segments plus the trailing interim, merged.
func (s *Segments) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]string(nil), s.committed...)
	if s.interim != "" {
		out = appendSegment(out, s.interim)
	}
	return out
}

// Reset drops all committed and interim text.
func (s *Segments) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed = nil
	s.interim = ""
}

// appendSegment folds continuation results into the previous segment so
// revisions of the same utterance do not duplicate text.
func appendSegment(segments []string, text string) []string {
	text = cleanSegment(text)
	if text == "" {
		return segments
	}
	if len(segments) == 0 {
		return append(segments, text)
	}

	last := segments[len(segments)-1]
	switch {
	case text == last, strings.HasPrefix(last, text):
		return segments
	case strings.HasPrefix(text, last):
		segments[len(segments)-1] = text
		return segments
	default:
		return append(segments, text)
	}
}

func cleanSegment(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}
