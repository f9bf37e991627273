// Package doctor runs readiness diagnostics for config, audio, speech
// recognition, indicators, and runtime paths.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/Pradeep10j21/Mockello-MVP/internal/audio"
	"github.com/Pradeep10j21/Mockello-MVP/internal/config"
	"github.com/Pradeep10j21/Mockello-MVP/internal/health"
	"github.com/Pradeep10j21/Mockello-MVP/internal/hypr"
	"github.com/Pradeep10j21/Mockello-MVP/internal/ipc"
	"github.com/Pradeep10j21/Mockello-MVP/internal/transcription/vosk"
)

const probeTimeout = 2 * time.Second

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(ctx context.Context, loaded config.Loaded) Report {
	cfg := loaded.Config
	checks := []Check{}

	message := fmt.Sprintf("loaded %q", loaded.Path)
	if !loaded.Exists {
		message = fmt.Sprintf("using defaults (%q not found)", loaded.Path)
	}
	checks = append(checks, Check{Name: "config", Pass: true, Message: message})

	checks = append(checks, checkAudioSelection(ctx, cfg))
	checks = append(checks, checkTranscription(cfg))
	checks = append(checks, checkIndicator(ctx, cfg.Indicator)...)

	if len(cfg.AnswerHook.Argv) > 0 {
		checks = append(checks, checkCommand(cfg.AnswerHook.Argv, "answer_hook_cmd"))
	}
	if strings.TrimSpace(cfg.Health.ASREndpoint) != "" {
		checks = append(checks, checkASRHealth(ctx, cfg.Health.ASREndpoint))
	}
	checks = append(checks, checkRuntimeDir())

	return Report{Checks: checks}
}

// checkCommand validates that argv contains a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	return checkBinary(argv[0], fmt.Sprintf("%s command is available", name))
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

// checkAudioSelection runs live device selection to surface selection/fallback issues.
func checkAudioSelection(ctx context.Context, cfg config.Config) Check {
	backend, err := audio.ParseBackend(cfg.Audio.Backend)
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	selection, err := audio.SelectDevice(ctx, audio.Options{
		Backend:  backend,
		Input:    cfg.Audio.Input,
		Fallback: cfg.Audio.Fallback,
	})
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q via %s", selection.Device.ID, backend)
	if selection.Warning != "" {
		message = message + " (" + selection.Warning + ")"
	}
	return Check{Name: "audio.device", Pass: true, Message: message}
}

// checkTranscription reports whether the configured provider can run.
func checkTranscription(cfg config.Config) Check {
	const name = "transcription"
	t := cfg.Transcription
	switch strings.ToLower(t.Provider) {
	case config.ProviderDeepgram:
		if strings.TrimSpace(t.Deepgram.APIKey) == "" {
			return Check{Name: name, Pass: false, Message: "deepgram selected but DEEPGRAM_API_KEY is not set"}
		}
		return Check{Name: name, Pass: true, Message: fmt.Sprintf("deepgram model %s at %s", t.Model, t.Deepgram.URL)}
	case config.ProviderVosk:
		if err := vosk.CheckModel(t.Vosk.ModelPath); err != nil {
			return Check{Name: name, Pass: false, Message: err.Error()}
		}
		return Check{Name: name, Pass: true, Message: fmt.Sprintf("vosk model at %s", t.Vosk.ModelPath)}
	default:
		return Check{Name: name, Pass: false, Message: "no speech provider configured; sessions will report unsupported"}
	}
}

// checkIndicator validates the notification backend tooling.
func checkIndicator(ctx context.Context, cfg config.IndicatorConfig) []Check {
	if !cfg.Enable {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "hypr":
		checks := []Check{checkBinary("hyprctl", "hypr indicator backend")}
		if !checks[0].Pass {
			return checks
		}
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		monitor, err := hypr.QueryFocusedMonitor(probeCtx)
		if err != nil {
			return append(checks, Check{Name: "hypr.monitor", Pass: false, Message: err.Error()})
		}
		return append(checks, Check{Name: "hypr.monitor", Pass: true, Message: fmt.Sprintf("notifications target %s", monitor)})
	case "desktop":
		return []Check{checkBinary("busctl", "desktop notifications over DBus")}
	default:
		return nil
	}
}

// checkASRHealth queries a gRPC health endpoint for overall serving status.
func checkASRHealth(ctx context.Context, endpoint string) Check {
	const name = "asr.health"
	status, err := health.Probe(ctx, endpoint, "", probeTimeout)
	if err != nil {
		return Check{Name: name, Pass: false, Message: err.Error()}
	}
	if status != healthpb.HealthCheckResponse_SERVING {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("%s reports %s", endpoint, status)}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("%s is serving", endpoint)}
}

// checkRuntimeDir verifies the IPC socket directory exists and is writable.
func checkRuntimeDir() Check {
	const name = "ipc.socket"
	path, err := ipc.RuntimeSocketPath()
	if err != nil {
		return Check{Name: name, Pass: false, Message: err.Error()}
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("runtime dir %s: %v", dir, err)}
	}
	if !info.IsDir() {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("runtime dir %s is not a directory", dir)}
	}
	return Check{Name: name, Pass: true, Message: path}
}
