package config

const (
	ProviderDeepgram = "deepgram"
	ProviderVosk     = "vosk"
	ProviderNone     = "none"
)

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		Audio: AudioConfig{
			Backend:  "pulse",
			Input:    "default",
			Fallback: "default",
		},
		Transcription: TranscriptionConfig{
			Provider:            ProviderDeepgram,
			Language:            "en-US",
			Model:               "nova-2",
			CapitalizeSentences: true,
			Deepgram: DeepgramConfig{
				URL:         "https://api.deepgram.com/v1",
				SmartFormat: true,
			},
		},
		Interview: InterviewConfig{
			SilenceSeconds:   4,
			MinWords:         15,
			MinChars:         80,
			HintAfterSeconds: 2,
			SettleDelayMS:    1500,
			StartDelayMS:     100,
			TickMS:           1000,
			CanProceed:       true,
		},
		Indicator: IndicatorConfig{
			Enable:         true,
			Backend:        "desktop",
			DesktopAppName: "mockello",
			SoundEnable:    true,
			ErrorTimeoutMS: 1600,
		},
		Log: LogConfig{Level: "info"},
	}
}
