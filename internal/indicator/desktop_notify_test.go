package indicator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Pradeep10j21/Mockello-MVP/internal/session"
)

func TestDesktopNotifyArgsCarryBodyAndUrgency(t *testing.T) {
	args := desktopNotifyArgs("mockello", 7, notice{
		summary:   "Answer 1 captured",
		body:      "I led the migration",
		urgency:   urgencyLow,
		timeoutMS: 1500,
	})

	require.Equal(t, []string{
		"--user", "call",
		"org.freedesktop.Notifications", "/org/freedesktop/Notifications", "org.freedesktop.Notifications",
		"Notify", "susssasa{sv}i",
		"mockello", "7", "", "Answer 1 captured", "I led the migration",
		"0",
		"1", "urgency", "y", "0",
		"1500",
	}, args)
}

func TestParseNotificationID(t *testing.T) {
	id, err := parseNotificationID("u 42")
	require.NoError(t, err)
	require.Equal(t, uint32(42), id)

	_, err = parseNotificationID("s nope")
	require.Error(t, err)

	_, err = parseNotificationID("u nope")
	require.Error(t, err)
}

func TestNoticeHyprTextInlinesCriticalBody(t *testing.T) {
	require.Equal(t, "Answer 2 captured", notice{summary: "Answer 2 captured", body: "text", urgency: urgencyLow}.hyprText())
	require.Equal(t, "Speech recognition error: closed", notice{summary: "Speech recognition error", body: "closed", urgency: urgencyCritical}.hyprText())
	require.Equal(t, "Speech recognition error", notice{summary: "Speech recognition error", urgency: urgencyCritical}.hyprText())
}

func TestPreviewCollapsesWhitespaceAndTruncates(t *testing.T) {
	require.Equal(t, "short answer", preview("  short \n answer "))

	long := strings.Repeat("word ", 60)
	got := preview(long)
	require.LessOrEqual(t, len([]rune(got)), previewRunes)
	require.True(t, strings.HasSuffix(got, "…"))
}

func TestNotifierDesktopReplacesAndDismissesByID(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "busctl-args.log")
	t.Setenv("BUSCTL_ARGS_FILE", argsFile)
	installBusctlStub(t, `
printf '%s\n' "$*" >> "${BUSCTL_ARGS_FILE}"
case "$*" in
  *Notify*) echo "u 9" ;;
esac
`)

	cfg := hyprConfig()
	cfg.Backend = "desktop"

	notify := New(cfg, nil)
	notify.OnStart(session.Info{Device: "USB Mic"})
	notify.OnAdapterError(errors.New("socket closed"))
	notify.OnStop(session.Info{})
	notify.Close()

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "Notify susssasa{sv}i mockello 0  Interview recording… USB Mic 0 1 urgency y 1 0")
	require.Contains(t, lines[1], "mockello 9  Speech recognition error socket closed 0 1 urgency y 2 1600")
	require.True(t, strings.HasSuffix(lines[2], "CloseNotification u 9"))
}

func TestDesktopNotifySurfacesBusctlFailure(t *testing.T) {
	installBusctlStub(t, `
echo "no session bus" >&2
exit 1
`)

	_, err := desktopNotify(context.Background(), "mockello", 0, notice{summary: "x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no session bus")
}

func installBusctlStub(t *testing.T, body string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "busctl")
	script := "#!/usr/bin/env bash\nset -euo pipefail\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	t.Setenv("PATH", dir+":"+os.Getenv("PATH"))
}
