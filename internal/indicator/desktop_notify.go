package indicator

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Pradeep10j21/Mockello-MVP/internal/hypr"
)

const notificationsDest = "org.freedesktop.Notifications"

// urgency follows the freedesktop notification "urgency" hint values.
type urgency byte

const (
	urgencyLow urgency = iota
	urgencyNormal
	urgencyCritical
)

// notice is one indicator message. Hyprland renders only the summary line;
// desktop servers also render the body.
type notice struct {
	summary   string
	body      string
	urgency   urgency
	timeoutMS int

	hyprIcon  hypr.Icon
	hyprColor string
}

// hyprText flattens the notice for hyprctl, which has no body field.
// Critical notices carry their cause inline.
func (n notice) hyprText() string {
	if n.urgency == urgencyCritical && n.body != "" {
		return n.summary + ": " + n.body
	}
	return n.summary
}

// desktopNotifyArgs builds the busctl Notify call. The urgency hint is the
// only hint sent.
func desktopNotifyArgs(appName string, replaceID uint32, n notice) []string {
	return []string{
		"--user",
		"call",
		notificationsDest,
		"/org/freedesktop/Notifications",
		notificationsDest,
		"Notify",
		"susssasa{sv}i",
		appName,
		strconv.FormatUint(uint64(replaceID), 10),
		"",
		n.summary,
		n.body,
		"0",
		"1", "urgency", "y", strconv.Itoa(int(n.urgency)),
		strconv.Itoa(n.timeoutMS),
	}
}

// desktopNotify sends a freedesktop notification and returns the ID the
// server assigned.
func desktopNotify(ctx context.Context, appName string, replaceID uint32, n notice) (uint32, error) {
	out, err := runBusctl(ctx, "desktop notify", desktopNotifyArgs(appName, replaceID, n))
	if err != nil {
		return 0, err
	}
	return parseNotificationID(out)
}

// desktopDismiss closes a notification by ID.
func desktopDismiss(ctx context.Context, id uint32) error {
	_, err := runBusctl(ctx, "desktop dismiss", []string{
		"--user",
		"call",
		notificationsDest,
		"/org/freedesktop/Notifications",
		notificationsDest,
		"CloseNotification",
		"u",
		strconv.FormatUint(uint64(id), 10),
	})
	return err
}

func runBusctl(ctx context.Context, op string, args []string) (string, error) {
	out, err := exec.CommandContext(ctx, "busctl", args...).CombinedOutput()
	trimmed := strings.TrimSpace(string(out))
	if err != nil {
		if trimmed == "" {
			return "", fmt.Errorf("%s failed: %w", op, err)
		}
		return "", fmt.Errorf("%s failed: %w (%s)", op, err, trimmed)
	}
	return trimmed, nil
}

// parseNotificationID reads busctl's "u <id>" reply.
func parseNotificationID(reply string) (uint32, error) {
	fields := strings.Fields(reply)
	if len(fields) < 2 || fields[0] != "u" {
		return 0, fmt.Errorf("desktop notify invalid response: %q", reply)
	}
	value, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("desktop notify parse id %q: %w", fields[1], err)
	}
	return uint32(value), nil
}
