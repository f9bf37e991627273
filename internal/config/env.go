package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "MOCKELLO"

// envOverlay lists the environment overrides. Variables are read as
// MOCKELLO_<NAME>, falling back to the bare tag name.
type envOverlay struct {
	DeepgramAPIKey *string `envconfig:"DEEPGRAM_API_KEY"`
	DeepgramURL    *string `envconfig:"DEEPGRAM_URL"`
	Provider       *string `envconfig:"TRANSCRIPTION_PROVIDER"`
	Language       *string `envconfig:"TRANSCRIPTION_LANGUAGE"`
	VoskModel      *string `envconfig:"VOSK_MODEL"`
	AudioInput     *string `envconfig:"AUDIO_INPUT"`
	LogLevel       *string `envconfig:"LOG_LEVEL"`
	MetricsListen  *string `envconfig:"METRICS_LISTEN"`
	HealthListen   *string `envconfig:"HEALTH_LISTEN"`
	SilenceSeconds *int    `envconfig:"SILENCE_SECONDS"`
	MinWords       *int    `envconfig:"MIN_WORDS"`
	MinChars       *int    `envconfig:"MIN_CHARS"`
}

// LoadDotenv loads the named .env files into the process environment,
// skipping files that do not exist. Existing variables are never overwritten.
func LoadDotenv(paths ...string) error {
	present := make([]string, 0, len(paths))
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("stat %q: %w", path, err)
		}
		present = append(present, path)
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("load dotenv: %w", err)
	}
	return nil
}

// ApplyEnv overlays environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	var overlay envOverlay
	if err := envconfig.Process(envPrefix, &overlay); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	setString(&cfg.Transcription.Deepgram.APIKey, overlay.DeepgramAPIKey)
	setString(&cfg.Transcription.Deepgram.URL, overlay.DeepgramURL)
	setString(&cfg.Transcription.Provider, overlay.Provider)
	setString(&cfg.Transcription.Language, overlay.Language)
	setString(&cfg.Transcription.Vosk.ModelPath, overlay.VoskModel)
	setString(&cfg.Audio.Input, overlay.AudioInput)
	setString(&cfg.Log.Level, overlay.LogLevel)
	setString(&cfg.Metrics.Listen, overlay.MetricsListen)
	setString(&cfg.Health.Listen, overlay.HealthListen)
	setInt(&cfg.Interview.SilenceSeconds, overlay.SilenceSeconds)
	setInt(&cfg.Interview.MinWords, overlay.MinWords)
	setInt(&cfg.Interview.MinChars, overlay.MinChars)
	return nil
}
