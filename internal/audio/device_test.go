package audio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChooseDefaultSource(t *testing.T) {
	devices := []Device{
		{ID: "usb-headset", Description: "USB Headset", Available: true, Default: true},
		{ID: "laptop", Description: "Built-in Microphone", Available: true},
	}

	selection, err := choose(devices, "default", "default")
	require.NoError(t, err)
	require.Equal(t, "usb-headset", selection.Device.ID)
	require.Empty(t, selection.Warning)
	require.False(t, selection.Fallback)
}

func TestChooseMutedPrimaryUsesFallback(t *testing.T) {
	devices := []Device{
		{ID: "usb-headset", Description: "USB Headset", Available: true, Muted: true, Default: true},
		{ID: "laptop", Description: "Built-in Microphone", Available: true},
	}

	selection, err := choose(devices, "headset", "built-in")
	require.NoError(t, err)
	require.Equal(t, "laptop", selection.Device.ID)
	require.Contains(t, selection.Warning, "muted")
	require.True(t, selection.Fallback)
}

func TestChooseFailsWhenEverythingMuted(t *testing.T) {
	devices := []Device{{ID: "usb-headset", Available: true, Muted: true, Default: true}}

	_, err := choose(devices, "", "")
	require.ErrorIs(t, err, ErrNoDevice)
	require.Contains(t, err.Error(), "muted")
}

func TestChooseUnknownInput(t *testing.T) {
	devices := []Device{{ID: "usb-headset", Available: true, Default: true}}

	_, err := choose(devices, "missing", "default")
	require.ErrorIs(t, err, ErrNoDevice)
	require.Contains(t, err.Error(), "did not match")
}

func TestChooseNoDevices(t *testing.T) {
	_, err := choose(nil, "default", "default")
	require.ErrorIs(t, err, ErrNoDevice)
}

func TestDeviceMatchesByIDAndDescription(t *testing.T) {
	dev := Device{ID: "alsa_input.usb-headset", Description: "USB Headset Mono"}
	require.True(t, deviceMatches(dev, "usb-headset"))
	require.True(t, deviceMatches(dev, "headset mono"))
	require.False(t, deviceMatches(dev, "webcam"))
	require.False(t, deviceMatches(dev, ""))
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("")
	require.NoError(t, err)
	require.Equal(t, BackendPulse, b)

	b, err = ParseBackend(" Malgo ")
	require.NoError(t, err)
	require.Equal(t, BackendMalgo, b)

	_, err = ParseBackend("alsa")
	require.Error(t, err)
}
