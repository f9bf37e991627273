package config

import (
	"fmt"
	"strings"
)

// fileConfig is the on-disk shape shared by the JSONC and YAML formats.
// Nil fields keep the base value.
type fileConfig struct {
	Audio         *fileAudio         `json:"audio" yaml:"audio"`
	Transcription *fileTranscription `json:"transcription" yaml:"transcription"`
	Interview     *fileInterview     `json:"interview" yaml:"interview"`
	Indicator     *fileIndicator     `json:"indicator" yaml:"indicator"`
	Metrics       *fileMetrics       `json:"metrics" yaml:"metrics"`
	Health        *fileHealth        `json:"health" yaml:"health"`
	Log           *fileLog           `json:"log" yaml:"log"`
	AnswerHookCmd *string            `json:"answer_hook_cmd" yaml:"answer_hook_cmd"`
}

type fileAudio struct {
	Backend  *string `json:"backend" yaml:"backend"`
	Input    *string `json:"input" yaml:"input"`
	Fallback *string `json:"fallback" yaml:"fallback"`
}

type fileTranscription struct {
	Provider            *string       `json:"provider" yaml:"provider"`
	Language            *string       `json:"language" yaml:"language"`
	Model               *string       `json:"model" yaml:"model"`
	CapitalizeSentences *bool         `json:"capitalize_sentences" yaml:"capitalize_sentences"`
	Deepgram            *fileDeepgram `json:"deepgram" yaml:"deepgram"`
	Vosk                *fileVosk     `json:"vosk" yaml:"vosk"`
}

type fileDeepgram struct {
	URL         *string `json:"url" yaml:"url"`
	APIKey      *string `json:"api_key" yaml:"api_key"`
	SmartFormat *bool   `json:"smart_format" yaml:"smart_format"`
}

type fileVosk struct {
	ModelPath *string `json:"model_path" yaml:"model_path"`
}

type fileInterview struct {
	SilenceSeconds   *int  `json:"silence_seconds" yaml:"silence_seconds"`
	MinWords         *int  `json:"min_words" yaml:"min_words"`
	MinChars         *int  `json:"min_chars" yaml:"min_chars"`
	HintAfterSeconds *int  `json:"hint_after_seconds" yaml:"hint_after_seconds"`
	SettleDelayMS    *int  `json:"settle_delay_ms" yaml:"settle_delay_ms"`
	StartDelayMS     *int  `json:"start_delay_ms" yaml:"start_delay_ms"`
	TickMS           *int  `json:"tick_ms" yaml:"tick_ms"`
	CanProceed       *bool `json:"can_proceed" yaml:"can_proceed"`
}

type fileIndicator struct {
	Enable         *bool   `json:"enable" yaml:"enable"`
	Backend        *string `json:"backend" yaml:"backend"`
	DesktopAppName *string `json:"desktop_app_name" yaml:"desktop_app_name"`
	SoundEnable    *bool   `json:"sound_enable" yaml:"sound_enable"`
	ErrorTimeoutMS *int    `json:"error_timeout_ms" yaml:"error_timeout_ms"`
}

type fileMetrics struct {
	Listen *string `json:"listen" yaml:"listen"`
}

type fileHealth struct {
	Listen      *string `json:"listen" yaml:"listen"`
	ASREndpoint *string `json:"asr_endpoint" yaml:"asr_endpoint"`
}

type fileLog struct {
	Level *string `json:"level" yaml:"level"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func (payload fileConfig) applyTo(cfg *Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if a := payload.Audio; a != nil {
		setString(&cfg.Audio.Backend, a.Backend)
		setString(&cfg.Audio.Input, a.Input)
		setString(&cfg.Audio.Fallback, a.Fallback)
	}

	if t := payload.Transcription; t != nil {
		setString(&cfg.Transcription.Provider, t.Provider)
		setString(&cfg.Transcription.Language, t.Language)
		setString(&cfg.Transcription.Model, t.Model)
		setBool(&cfg.Transcription.CapitalizeSentences, t.CapitalizeSentences)
		if d := t.Deepgram; d != nil {
			setString(&cfg.Transcription.Deepgram.URL, d.URL)
			setString(&cfg.Transcription.Deepgram.APIKey, d.APIKey)
			setBool(&cfg.Transcription.Deepgram.SmartFormat, d.SmartFormat)
			if d.APIKey != nil && strings.TrimSpace(*d.APIKey) != "" {
				warnings = append(warnings, Warning{Message: "transcription.deepgram.api_key is stored in the config file; prefer DEEPGRAM_API_KEY"})
			}
		}
		if v := t.Vosk; v != nil {
			setString(&cfg.Transcription.Vosk.ModelPath, v.ModelPath)
		}
	}

	if i := payload.Interview; i != nil {
		setInt(&cfg.Interview.SilenceSeconds, i.SilenceSeconds)
		setInt(&cfg.Interview.MinWords, i.MinWords)
		setInt(&cfg.Interview.MinChars, i.MinChars)
		setInt(&cfg.Interview.HintAfterSeconds, i.HintAfterSeconds)
		setInt(&cfg.Interview.SettleDelayMS, i.SettleDelayMS)
		setInt(&cfg.Interview.StartDelayMS, i.StartDelayMS)
		setInt(&cfg.Interview.TickMS, i.TickMS)
		setBool(&cfg.Interview.CanProceed, i.CanProceed)
	}

	if i := payload.Indicator; i != nil {
		setBool(&cfg.Indicator.Enable, i.Enable)
		setString(&cfg.Indicator.Backend, i.Backend)
		setString(&cfg.Indicator.DesktopAppName, i.DesktopAppName)
		setBool(&cfg.Indicator.SoundEnable, i.SoundEnable)
		setInt(&cfg.Indicator.ErrorTimeoutMS, i.ErrorTimeoutMS)
	}

	if payload.Metrics != nil {
		setString(&cfg.Metrics.Listen, payload.Metrics.Listen)
	}
	if h := payload.Health; h != nil {
		setString(&cfg.Health.Listen, h.Listen)
		setString(&cfg.Health.ASREndpoint, h.ASREndpoint)
	}
	if payload.Log != nil {
		setString(&cfg.Log.Level, payload.Log.Level)
	}

	if payload.AnswerHookCmd != nil {
		raw := *payload.AnswerHookCmd
		argv, err := parseArgv(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid answer_hook_cmd: %w", err)
		}
		cfg.AnswerHook = CommandConfig{Raw: raw, Argv: argv}
	}

	return warnings, nil
}
