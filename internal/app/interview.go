package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Pradeep10j21/Mockello-MVP/internal/audio"
	"github.com/Pradeep10j21/Mockello-MVP/internal/capture"
	"github.com/Pradeep10j21/Mockello-MVP/internal/cli"
	"github.com/Pradeep10j21/Mockello-MVP/internal/config"
	"github.com/Pradeep10j21/Mockello-MVP/internal/health"
	"github.com/Pradeep10j21/Mockello-MVP/internal/indicator"
	"github.com/Pradeep10j21/Mockello-MVP/internal/ipc"
	"github.com/Pradeep10j21/Mockello-MVP/internal/metrics"
	"github.com/Pradeep10j21/Mockello-MVP/internal/output"
	"github.com/Pradeep10j21/Mockello-MVP/internal/session"
	"github.com/Pradeep10j21/Mockello-MVP/internal/transcript"
	"github.com/Pradeep10j21/Mockello-MVP/internal/transcription"
	"github.com/Pradeep10j21/Mockello-MVP/internal/transcription/deepgram"
	"github.com/Pradeep10j21/Mockello-MVP/internal/transcription/vosk"
	"github.com/Pradeep10j21/Mockello-MVP/internal/tui"
)

func (r Runner) commandInterview(ctx context.Context, parsed cli.Parsed, cfg config.Config, logger *slog.Logger) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8, nil)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			fmt.Fprintf(r.Stderr, "error: %v; use `%s next` or `%s stop`\n", err, binaryName, binaryName)
			return 1
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	backend, err := audio.ParseBackend(cfg.Audio.Backend)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	audioOpts := audio.Options{Backend: backend, Input: cfg.Audio.Input, Fallback: cfg.Audio.Fallback}

	adapter, closeAdapter := newAdapter(cfg.Transcription, transcription.SourceFunc(capture.Opener(audioOpts)), logger)
	defer closeAdapter()
	if !adapter.Supported() {
		logger.Warn("speech recognition unavailable", "provider", cfg.Transcription.Provider)
	}

	meter := &capture.Meter{}
	manager := capture.NewManager(capture.Opener(audioOpts), meter, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New(registry)

	notifier := indicator.New(cfg.Indicator, logger)
	defer notifier.Close()
	hook := output.NewAnswerHook(cfg.AnswerHook.Argv, logger)
	defer hook.Close()
	reporter := health.NewReporter()

	stopped := make(chan struct{})
	var stopOnce sync.Once
	hosts := session.Hosts{notifier, hook, reporter}

	var feed *tui.Feed
	if parsed.Plain {
		hosts = append(hosts, tui.NewPlain(r.Stdout), session.HostFuncs{
			Stop: func(session.Info) { stopOnce.Do(func() { close(stopped) }) },
		})
	} else {
		feed = tui.NewFeed()
		hosts = append(hosts, feed)
	}

	controller := session.NewController(adapter, manager, hosts, session.Options{
		Config:     sessionConfig(cfg.Interview),
		Logger:     logger,
		Recorder:   recorder,
		CanProceed: cfg.Interview.CanProceed,
	})

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	var wg sync.WaitGroup
	serveErrs := make(chan error, 3)
	goServe := func(name string, serve func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := serve(); err != nil {
				serveErrs <- fmt.Errorf("%s: %w", name, err)
			}
		}()
	}

	loopDone := make(chan error, 1)
	go func() { loopDone <- controller.Run(runCtx) }()

	goServe("ipc server", func() error { return ipc.Serve(runCtx, listener, controller) })

	if addr := strings.TrimSpace(cfg.Metrics.Listen); addr != "" {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			fmt.Fprintf(r.Stderr, "warning: metrics listener: %v\n", err)
			logger.Warn("metrics listener failed", "addr", addr, "error", err.Error())
		} else {
			goServe("metrics server", func() error { return metrics.Serve(runCtx, ln, registry, logger) })
		}
	}
	if addr := strings.TrimSpace(cfg.Health.Listen); addr != "" {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			fmt.Fprintf(r.Stderr, "warning: health listener: %v\n", err)
			logger.Warn("health listener failed", "addr", addr, "error", err.Error())
		} else {
			goServe("health server", func() error { return reporter.Serve(runCtx, ln, logger) })
		}
	}

	exitCode := 0
	if parsed.Plain {
		exitCode = r.runPlain(runCtx, controller, stopped)
	} else {
		exitCode = r.runConsole(runCtx, controller, feed, meter, !parsed.NoStart)
	}

	cancelRun()
	if err := <-loopDone; err != nil {
		fmt.Fprintf(r.Stderr, "error: session loop: %v\n", err)
		exitCode = 1
	}
	wg.Wait()
	close(serveErrs)
	for err := range serveErrs {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("server failed", "error", err.Error())
		exitCode = 1
	}

	logger.Info("interview finished", "exit_code", exitCode)
	return exitCode
}

// runPlain starts capture immediately and waits for a stop, either from the
// IPC `stop` command or process cancellation. Cancellation is left to the
// controller loop, which tears the session down before Run returns.
func (r Runner) runPlain(ctx context.Context, controller *session.Controller, stopped <-chan struct{}) int {
	info, err := controller.Start(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %s\n", describeStartError(err))
		return 1
	}
	fmt.Fprintf(r.Stdout, "interview %s started; `%s next` submits, `%s stop` ends\n", info.SessionID, binaryName, binaryName)

	select {
	case <-ctx.Done():
	case <-stopped:
	}
	return 0
}

func (r Runner) runConsole(ctx context.Context, controller *session.Controller, feed *tui.Feed, meter *capture.Meter, autoStart bool) int {
	model := tui.New(ctx, controller, feed, tui.Options{
		Level:     meter.Level,
		AutoStart: autoStart,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(r.Stderr, "error: console: %v\n", err)
		return 1
	}
	return 0
}

func describeStartError(err error) string {
	switch {
	case session.IsCapabilityUnsupported(err):
		return "speech recognition is not available; configure a transcription provider and run `" + binaryName + " doctor`"
	case capture.IsPermissionDenied(err):
		return "microphone permission denied: " + err.Error()
	default:
		return err.Error()
	}
}

// newAdapter builds the configured recognizer. Missing credentials or models
// yield an unsupported adapter so the session reports the capability as absent.
func newAdapter(cfg config.TranscriptionConfig, source transcription.SourceFunc, logger *slog.Logger) (transcription.Adapter, func()) {
	opts := transcript.Options{CapitalizeSentences: cfg.CapitalizeSentences}
	noop := func() {}

	switch cfg.Provider {
	case config.ProviderDeepgram:
		if strings.TrimSpace(cfg.Deepgram.APIKey) == "" {
			logger.Warn("deepgram api key missing", "error", deepgram.ErrMissingAPIKey.Error())
			return &transcription.Unsupported{}, noop
		}
		engine := deepgram.New(deepgram.Config{
			APIKey:      cfg.Deepgram.APIKey,
			BaseURL:     cfg.Deepgram.URL,
			Model:       cfg.Model,
			Language:    cfg.Language,
			SmartFormat: cfg.Deepgram.SmartFormat,
		})
		return transcription.NewStreaming(engine, source, opts, logger), noop
	case config.ProviderVosk:
		if err := vosk.CheckModel(cfg.Vosk.ModelPath); err != nil {
			logger.Warn("vosk model unavailable", "error", err.Error())
			return &transcription.Unsupported{}, noop
		}
		engine := vosk.New(cfg.Vosk.ModelPath)
		return transcription.NewStreaming(engine, source, opts, logger), engine.Close
	default:
		return &transcription.Unsupported{}, noop
	}
}

func sessionConfig(cfg config.InterviewConfig) session.Config {
	return session.Config{
		Thresholds: session.Thresholds{
			Silence:   cfg.SilenceSeconds,
			MinWords:  cfg.MinWords,
			MinChars:  cfg.MinChars,
			HintAfter: cfg.HintAfterSeconds,
		},
		Tick:        time.Duration(cfg.TickMS) * time.Millisecond,
		SettleDelay: time.Duration(cfg.SettleDelayMS) * time.Millisecond,
		StartDelay:  time.Duration(cfg.StartDelayMS) * time.Millisecond,
	}
}
