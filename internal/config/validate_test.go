package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRejectsInvalidCoreFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "unknown audio backend", mutate: func(c *Config) { c.Audio.Backend = "alsa" }, wantErr: "audio.backend"},
		{name: "unknown provider", mutate: func(c *Config) { c.Transcription.Provider = "riva" }, wantErr: "transcription.provider"},
		{name: "empty deepgram url", mutate: func(c *Config) { c.Transcription.Deepgram.URL = " " }, wantErr: "deepgram.url"},
		{name: "zero silence", mutate: func(c *Config) { c.Interview.SilenceSeconds = 0 }, wantErr: "silence_seconds"},
		{name: "negative words", mutate: func(c *Config) { c.Interview.MinWords = -1 }, wantErr: "min_words"},
		{name: "negative chars", mutate: func(c *Config) { c.Interview.MinChars = -1 }, wantErr: "min_chars"},
		{name: "hint after silence", mutate: func(c *Config) { c.Interview.HintAfterSeconds = 9 }, wantErr: "hint_after_seconds"},
		{name: "zero tick", mutate: func(c *Config) { c.Interview.TickMS = 0 }, wantErr: "tick_ms"},
		{name: "negative settle", mutate: func(c *Config) { c.Interview.SettleDelayMS = -1 }, wantErr: "settle_delay_ms"},
		{name: "negative start delay", mutate: func(c *Config) { c.Interview.StartDelayMS = -1 }, wantErr: "start_delay_ms"},
		{name: "unknown indicator", mutate: func(c *Config) { c.Indicator.Backend = "tray" }, wantErr: "indicator.backend"},
		{name: "desktop without app name", mutate: func(c *Config) { c.Indicator.DesktopAppName = "" }, wantErr: "desktop_app_name"},
		{name: "negative error timeout", mutate: func(c *Config) { c.Indicator.ErrorTimeoutMS = -1 }, wantErr: "error_timeout"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: "log.level"},
		{name: "hook raw but empty argv", mutate: func(c *Config) {
			c.AnswerHook = CommandConfig{Raw: "hook"}
		}, wantErr: "answer_hook_cmd"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)

			_, err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateWarnsWhenRecognizerIsUnconfigured(t *testing.T) {
	cfg := Default()
	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "DEEPGRAM_API_KEY")

	cfg.Transcription.Provider = ProviderVosk
	warnings, err = Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "model_path")

	cfg.Transcription.Provider = ProviderNone
	warnings, err = Validate(cfg)
	require.NoError(t, err)
	require.Empty(t, warnings)
}
