package config

import (
	"fmt"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	switch strings.ToLower(cfg.Audio.Backend) {
	case "pulse", "malgo":
	default:
		return nil, fmt.Errorf("audio.backend must be one of: pulse, malgo")
	}

	switch strings.ToLower(cfg.Transcription.Provider) {
	case ProviderDeepgram:
		if strings.TrimSpace(cfg.Transcription.Deepgram.URL) == "" {
			return nil, fmt.Errorf("transcription.deepgram.url must not be empty")
		}
		if strings.TrimSpace(cfg.Transcription.Deepgram.APIKey) == "" {
			warnings = append(warnings, Warning{Message: "DEEPGRAM_API_KEY is not set; speech recognition will be unavailable"})
		}
	case ProviderVosk:
		if strings.TrimSpace(cfg.Transcription.Vosk.ModelPath) == "" {
			warnings = append(warnings, Warning{Message: "transcription.vosk.model_path is not set; speech recognition will be unavailable"})
		}
	case ProviderNone:
	default:
		return nil, fmt.Errorf("transcription.provider must be one of: deepgram, vosk, none")
	}

	iv := cfg.Interview
	if iv.SilenceSeconds <= 0 {
		return nil, fmt.Errorf("interview.silence_seconds must be > 0")
	}
	if iv.MinWords < 0 {
		return nil, fmt.Errorf("interview.min_words must be >= 0")
	}
	if iv.MinChars < 0 {
		return nil, fmt.Errorf("interview.min_chars must be >= 0")
	}
	if iv.HintAfterSeconds < 0 || iv.HintAfterSeconds > iv.SilenceSeconds {
		return nil, fmt.Errorf("interview.hint_after_seconds must be between 0 and interview.silence_seconds")
	}
	if iv.TickMS <= 0 {
		return nil, fmt.Errorf("interview.tick_ms must be > 0")
	}
	if iv.SettleDelayMS < 0 {
		return nil, fmt.Errorf("interview.settle_delay_ms must be >= 0")
	}
	if iv.StartDelayMS < 0 {
		return nil, fmt.Errorf("interview.start_delay_ms must be >= 0")
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Indicator.Backend))
	switch backend {
	case "desktop", "hypr", "none":
	default:
		return nil, fmt.Errorf("indicator.backend must be one of: desktop, hypr, none")
	}
	if backend == "desktop" && strings.TrimSpace(cfg.Indicator.DesktopAppName) == "" {
		return nil, fmt.Errorf("indicator.desktop_app_name must not be empty when indicator.backend=desktop")
	}
	if cfg.Indicator.ErrorTimeoutMS < 0 {
		return nil, fmt.Errorf("indicator.error_timeout_ms must be >= 0")
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}

	if cfg.AnswerHook.Raw != "" && len(cfg.AnswerHook.Argv) == 0 {
		return nil, fmt.Errorf("answer_hook_cmd is configured but empty")
	}

	return warnings, nil
}
