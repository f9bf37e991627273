package session

import (
	"fmt"
	"time"
)

const (
	DefaultSilenceThreshold = 4
	DefaultMinWords         = 15
	DefaultMinChars         = 80
	DefaultHintAfter        = 2
	DefaultTick             = time.Second
	// DefaultSettleDelay separates a finalized answer from the recognizer
	// restart so stale partial results from the previous turn are not reused.
	DefaultSettleDelay = 1500 * time.Millisecond
	// DefaultStartDelay lets the capture handle settle before recognition starts.
	DefaultStartDelay  = 100 * time.Millisecond
	DefaultStopTimeout = 2 * time.Second
)

// Thresholds decide when an answer is complete. Silence is counted in ticks.
type Thresholds struct {
	Silence   int
	MinWords  int
	MinChars  int
	HintAfter int
}

// DefaultThresholds returns the conservative auto-advance defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Silence:   DefaultSilenceThreshold,
		MinWords:  DefaultMinWords,
		MinChars:  DefaultMinChars,
		HintAfter: DefaultHintAfter,
	}
}

// ShouldFinalize reports whether all auto-advance conditions hold.
// MinChars is exclusive.
func (t Thresholds) ShouldFinalize(silence, words, chars int) bool {
	return silence >= t.Silence && words >= t.MinWords && chars > t.MinChars
}

// Countdown returns the ticks left before auto-advance and whether the hint
// should be shown.
func (t Thresholds) Countdown(silence int) (int, bool) {
	if silence < t.HintAfter || silence >= t.Silence {
		return 0, false
	}
	return t.Silence - silence, true
}

// Validate reports inconsistent thresholds.
func (t Thresholds) Validate() error {
	switch {
	case t.Silence <= 0:
		return fmt.Errorf("silence threshold must be > 0")
	case t.MinWords < 0:
		return fmt.Errorf("min words must be >= 0")
	case t.MinChars < 0:
		return fmt.Errorf("min chars must be >= 0")
	case t.HintAfter < 0 || t.HintAfter > t.Silence:
		return fmt.Errorf("hint start must be within [0, %d]", t.Silence)
	}
	return nil
}

// Config tunes timing and thresholds of a Controller. A zero Config takes
// every default. Otherwise zero thresholds and delays are used as given and
// only Tick, StopTimeout and a non-positive Silence fall back.
type Config struct {
	Thresholds  Thresholds
	Tick        time.Duration
	SettleDelay time.Duration
	StartDelay  time.Duration
	StopTimeout time.Duration
}

// DefaultConfig returns the stock timing and thresholds.
func DefaultConfig() Config {
	return Config{
		Thresholds:  DefaultThresholds(),
		Tick:        DefaultTick,
		SettleDelay: DefaultSettleDelay,
		StartDelay:  DefaultStartDelay,
		StopTimeout: DefaultStopTimeout,
	}
}

func (c Config) withDefaults() Config {
	if c == (Config{}) {
		return DefaultConfig()
	}
	t := &c.Thresholds
	if t.Silence <= 0 {
		t.Silence = DefaultSilenceThreshold
	}
	t.MinWords = max(t.MinWords, 0)
	t.MinChars = max(t.MinChars, 0)
	t.HintAfter = min(max(t.HintAfter, 0), t.Silence)

	if c.Tick <= 0 {
		c.Tick = DefaultTick
	}
	c.SettleDelay = max(c.SettleDelay, 0)
	c.StartDelay = max(c.StartDelay, 0)
	if c.StopTimeout <= 0 {
		c.StopTimeout = DefaultStopTimeout
	}
	return c
}

// FormatElapsed renders seconds as MM:SS.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
