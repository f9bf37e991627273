//go:build integration

package audio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListPulseDevicesIntegration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	devices, err := ListPulseDevices(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, devices)
}

func TestOpenPulseCapturesAudioIntegration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	stream, err := Open(ctx, Options{Backend: BackendPulse, Input: "default", Fallback: "default"})
	require.NoError(t, err)

	select {
	case chunk := <-stream.Chunks():
		require.NotEmpty(t, chunk)
	case <-ctx.Done():
		t.Fatal("no audio captured before timeout")
	}
	require.NoError(t, stream.Stop())
}
