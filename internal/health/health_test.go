package health

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/Pradeep10j21/Mockello-MVP/internal/session"
)

func serveReporter(t *testing.T) (*Reporter, string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	reporter := NewReporter()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- reporter.Serve(ctx, ln, nil) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errCh:
			require.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Error("health server did not stop")
		}
	})
	return reporter, ln.Addr().String()
}

func probe(t *testing.T, addr string, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	status, err := Probe(context.Background(), addr, service, 2*time.Second)
	require.NoError(t, err)
	return status
}

func TestReporterTracksSessionLifecycle(t *testing.T) {
	reporter, addr := serveReporter(t)

	require.Equal(t, healthpb.HealthCheckResponse_SERVING, probe(t, addr, ""))
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, probe(t, addr, ServiceSession))

	reporter.OnStart(session.Info{SessionID: "s1"})
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, probe(t, addr, ServiceSession))

	reporter.OnAdapterError(errors.New("socket closed"))
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, probe(t, addr, ServiceTranscription))

	reporter.OnTranscriptUpdate("back again")
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, probe(t, addr, ServiceTranscription))

	reporter.OnAnswerComplete(session.Answer{})
	reporter.OnStop(session.Info{SessionID: "s1"})
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, probe(t, addr, ServiceSession))
}

func TestProbeUnknownServiceFails(t *testing.T) {
	_, addr := serveReporter(t)

	_, err := Probe(context.Background(), addr, "mockello.Nope", time.Second)
	require.Error(t, err)
	require.Contains(t, err.Error(), "mockello.Nope")
}

func TestProbeRejectsEmptyEndpoint(t *testing.T) {
	_, err := Probe(context.Background(), "  ", "", time.Second)
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty")
}

func TestProbeTimesOutWhenNothingListens(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = Probe(context.Background(), addr, "", 200*time.Millisecond)
	require.Error(t, err)
	require.Contains(t, err.Error(), "readiness")
}
