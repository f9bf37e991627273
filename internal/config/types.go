// Package config resolves, parses, validates, and defaults mockello configuration.
package config

// Config is the fully materialized runtime configuration.
type Config struct {
	Audio         AudioConfig
	Transcription TranscriptionConfig
	Interview     InterviewConfig
	Indicator     IndicatorConfig
	Metrics       MetricsConfig
	Health        HealthConfig
	Log           LogConfig
	AnswerHook    CommandConfig
}

// AudioConfig controls capture backend and input-source selection.
type AudioConfig struct {
	Backend  string
	Input    string
	Fallback string
}

// TranscriptionConfig selects and tunes the speech-to-text provider.
type TranscriptionConfig struct {
	Provider            string
	Language            string
	Model               string
	CapitalizeSentences bool
	Deepgram            DeepgramConfig
	Vosk                VoskConfig
}

type DeepgramConfig struct {
	URL         string
	APIKey      string
	SmartFormat bool
}

type VoskConfig struct {
	ModelPath string
}

// InterviewConfig tunes answer detection and session timing.
type InterviewConfig struct {
	SilenceSeconds   int
	MinWords         int
	MinChars         int
	HintAfterSeconds int
	SettleDelayMS    int
	StartDelayMS     int
	TickMS           int
	CanProceed       bool
}

// IndicatorConfig controls desktop notifications and audio cues.
type IndicatorConfig struct {
	Enable         bool
	Backend        string
	DesktopAppName string
	SoundEnable    bool
	ErrorTimeoutMS int
}

// MetricsConfig controls the Prometheus endpoint. An empty Listen disables it.
type MetricsConfig struct {
	Listen string
}

// HealthConfig controls the gRPC health service and the ASR readiness probe.
type HealthConfig struct {
	Listen      string
	ASREndpoint string
}

type LogConfig struct {
	Level string
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
