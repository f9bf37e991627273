package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShouldFinalizeBoundaries(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name    string
		silence int
		words   int
		chars   int
		want    bool
	}{
		{name: "all thresholds met", silence: 4, words: 15, chars: 81, want: true},
		{name: "silence one short", silence: 3, words: 15, chars: 81},
		{name: "words one short", silence: 4, words: 14, chars: 200},
		{name: "chars exactly at minimum", silence: 4, words: 30, chars: 80},
		{name: "long silence", silence: 9, words: 16, chars: 90, want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, th.ShouldFinalize(tc.silence, tc.words, tc.chars))
		})
	}
}

func TestCountdown(t *testing.T) {
	th := DefaultThresholds()

	for silence, want := range map[int]int{0: 0, 1: 0, 2: 2, 3: 1, 4: 0, 5: 0} {
		got, hint := th.Countdown(silence)
		require.Equal(t, want, got, "silence %d", silence)
		require.Equal(t, want > 0, hint, "silence %d", silence)
	}
}

func TestThresholdsValidate(t *testing.T) {
	require.NoError(t, DefaultThresholds().Validate())
	require.Error(t, Thresholds{Silence: 0}.Validate())
	require.Error(t, Thresholds{Silence: 4, MinWords: -1}.Validate())
	require.Error(t, Thresholds{Silence: 4, HintAfter: 5}.Validate())
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	require.Equal(t, DefaultThresholds(), cfg.Thresholds)
	require.Equal(t, time.Second, cfg.Tick)
	require.Equal(t, 1500*time.Millisecond, cfg.SettleDelay)
	require.Equal(t, 100*time.Millisecond, cfg.StartDelay)
	require.Equal(t, DefaultStopTimeout, cfg.StopTimeout)

	custom := Config{Thresholds: Thresholds{Silence: 6, MinWords: 20, MinChars: 120, HintAfter: 3}}.withDefaults()
	require.Equal(t, 6, custom.Thresholds.Silence)
	require.Equal(t, 3, custom.Thresholds.HintAfter)
	require.Equal(t, time.Second, custom.Tick)
	require.Equal(t, DefaultStopTimeout, custom.StopTimeout)

	clamped := Config{Thresholds: Thresholds{Silence: 1, HintAfter: 3}}.withDefaults()
	require.Equal(t, 1, clamped.Thresholds.HintAfter)
}

func TestConfigKeepsExplicitZeros(t *testing.T) {
	cfg := Config{
		Thresholds: Thresholds{Silence: 4},
		Tick:       time.Second,
	}.withDefaults()

	require.Equal(t, Thresholds{Silence: 4}, cfg.Thresholds)
	require.Zero(t, cfg.SettleDelay)
	require.Zero(t, cfg.StartDelay)
	require.Equal(t, DefaultStopTimeout, cfg.StopTimeout)

	ctrl := NewController(nil, nil, nil, Options{Config: Config{
		Thresholds: Thresholds{Silence: 5, HintAfter: 1},
		Tick:       500 * time.Millisecond,
	}})
	require.Equal(t, Thresholds{Silence: 5, HintAfter: 1}, ctrl.cfg.Thresholds)
	require.Zero(t, ctrl.cfg.SettleDelay)
}

func TestFormatElapsed(t *testing.T) {
	require.Equal(t, "00:00", FormatElapsed(0))
	require.Equal(t, "00:00", FormatElapsed(-3))
	require.Equal(t, "00:59", FormatElapsed(59))
	require.Equal(t, "01:05", FormatElapsed(65))
	require.Equal(t, "75:00", FormatElapsed(4500))
}
