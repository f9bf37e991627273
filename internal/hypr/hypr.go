// Package hypr wraps the hyprctl calls used for on-screen interview indicators.
package hypr

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type monitor struct {
	Name    string `json:"name"`
	Focused bool   `json:"focused"`
}

// QueryFocusedMonitor returns the focused monitor name (or the first monitor fallback).
func QueryFocusedMonitor(ctx context.Context) (string, error) {
	output, err := runHyprctlOutput(ctx, "-j", "monitors")
	if err != nil {
		return "", err
	}

	var monitors []monitor
	if err := json.Unmarshal(output, &monitors); err != nil {
		return "", fmt.Errorf("decode hyprctl monitors json: %w", err)
	}
	for _, mon := range monitors {
		if mon.Focused {
			return strings.TrimSpace(mon.Name), nil
		}
	}
	if len(monitors) == 0 {
		return "", fmt.Errorf("hyprctl monitors returned no outputs")
	}
	return strings.TrimSpace(monitors[0].Name), nil
}

// Icon selects the glyph hyprctl notify draws next to the text.
type Icon int

const (
	IconWarning Icon = iota
	IconInfo
	IconHint
	IconError
	IconConfused
	IconOK
)

const defaultColor = "rgb(89b4fa)"

// Notify shows text on the focused monitor for timeout. Hyprland has no
// "until dismissed" notification, so callers pass a long timeout instead.
func Notify(ctx context.Context, icon Icon, timeout time.Duration, color string, text string) error {
	if strings.TrimSpace(color) == "" {
		color = defaultColor
	}
	_, err := runHyprctlOutput(ctx, "--quiet", "dispatch", "notify",
		strconv.Itoa(int(icon)),
		strconv.FormatInt(timeout.Milliseconds(), 10),
		color,
		text,
	)
	return err
}

// DismissNotify dismisses active Hyprland notifications.
func DismissNotify(ctx context.Context) error {
	_, err := runHyprctlOutput(ctx, "--quiet", "dispatch", "dismissnotify")
	return err
}

func runHyprctlOutput(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "hyprctl", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return nil, fmt.Errorf("hyprctl %v failed: %w", args, err)
		}
		return nil, fmt.Errorf("hyprctl %v failed: %w (%s)", args, err, trimmed)
	}
	return out, nil
}
