package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Pradeep10j21/Mockello-MVP/internal/audio"
	"github.com/Pradeep10j21/Mockello-MVP/internal/cli"
	"github.com/Pradeep10j21/Mockello-MVP/internal/config"
	"github.com/Pradeep10j21/Mockello-MVP/internal/doctor"
	"github.com/Pradeep10j21/Mockello-MVP/internal/ipc"
	"github.com/Pradeep10j21/Mockello-MVP/internal/logging"
	"github.com/Pradeep10j21/Mockello-MVP/internal/version"
)

const (
	binaryName     = "mockello"
	forwardTimeout = 3 * time.Second
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	// DotenvPaths are loaded before config; nil means ".env".
	DotenvPaths []string
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText(binaryName))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText(binaryName))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	dotenv := r.DotenvPaths
	if dotenv == nil {
		dotenv = []string{".env"}
	}
	if err := config.LoadDotenv(dotenv...); err != nil {
		fmt.Fprintf(r.Stderr, "warning: %v\n", err)
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	logger := r.Logger
	logPath := ""
	if logger == nil {
		logRuntime, err := logging.New(cfgLoaded.Config.Log.Level)
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
			return 1
		}
		defer func() { _ = logRuntime.Close() }()
		logger = logRuntime.Logger
		logPath = logRuntime.Path
	}

	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		if parsed.Command != cli.CommandDoctor {
			fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		}
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logPath,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(ctx, cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandDevices:
		return r.commandDevices(ctx, cfgLoaded.Config)
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandNext:
		return r.forwardOrFail(ctx, ipc.CommandNext)
	case cli.CommandStop:
		return r.forwardOrFail(ctx, ipc.CommandStop)
	case cli.CommandInterview:
		return r.commandInterview(ctx, parsed, cfgLoaded.Config, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

func (r Runner) commandDevices(ctx context.Context, cfg config.Config) int {
	backend, err := audio.ParseBackend(cfg.Audio.Backend)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	devices, err := audio.ListDevices(ctx, backend)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.Stdout, "no audio devices found")
		return 1
	}

	for _, device := range devices {
		defaultMark := " "
		if device.Default {
			defaultMark = "*"
		}
		availability := "yes"
		if !device.Available {
			availability = "no"
		}
		muted := "no"
		if device.Muted {
			muted = "yes"
		}
		fmt.Fprintf(
			r.Stdout,
			"%s id=%s | description=%q | state=%s | available=%s | muted=%s\n",
			defaultMark,
			device.ID,
			device.Description,
			device.State,
			availability,
			muted,
		)
	}

	return 0
}

func (r Runner) commandStatus(ctx context.Context) int {
	resp, err := ipc.Command(ctx, ipc.CommandStatus, forwardTimeout)
	if errors.Is(err, ipc.ErrNotRunning) {
		fmt.Fprintln(r.Stdout, "idle")
		return 0
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintln(r.Stdout, formatStatus(resp))
	return 0
}

func formatStatus(resp ipc.Response) string {
	state := resp.State
	if state == "" {
		state = "idle"
	}
	if resp.Session == "" {
		return state
	}

	parts := []string{
		state,
		"session=" + resp.Session,
		"elapsed=" + resp.Elapsed,
		fmt.Sprintf("listening=%t", resp.Listening),
		fmt.Sprintf("answers=%d", resp.Answers),
		fmt.Sprintf("words=%d", resp.Words),
		fmt.Sprintf("silence=%d", resp.Silence),
	}
	if resp.Countdown > 0 {
		parts = append(parts, fmt.Sprintf("countdown=%d", resp.Countdown))
	}
	return strings.Join(parts, " ")
}

func (r Runner) forwardOrFail(ctx context.Context, command string) int {
	resp, err := ipc.Command(ctx, command, forwardTimeout)
	if errors.Is(err, ipc.ErrNotRunning) {
		fmt.Fprintf(r.Stderr, "error: no active %s interview\n", binaryName)
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: forward command %q: %v\n", command, err)
		return 1
	}
	if !resp.OK {
		fmt.Fprintf(r.Stderr, "error: %s\n", resp.Error)
		return 1
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}
