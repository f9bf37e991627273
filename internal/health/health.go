// Package health publishes interview session readiness over the standard gRPC
// health protocol and probes remote gRPC health endpoints.
package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/Pradeep10j21/Mockello-MVP/internal/session"
)

const (
	// ServiceSession is SERVING while an interview session holds the microphone.
	ServiceSession = "mockello.Session"
	// ServiceTranscription is NOT_SERVING after a recognizer error until
	// transcript updates resume.
	ServiceTranscription = "mockello.Transcription"
)

// Reporter mirrors session callbacks onto a gRPC health server.
type Reporter struct {
	server *grpchealth.Server
}

var _ session.Host = (*Reporter)(nil)

// NewReporter returns a reporter with the process marked SERVING and the
// session marked NOT_SERVING.
func NewReporter() *Reporter {
	server := grpchealth.NewServer()
	server.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	server.SetServingStatus(ServiceSession, healthpb.HealthCheckResponse_NOT_SERVING)
	server.SetServingStatus(ServiceTranscription, healthpb.HealthCheckResponse_SERVING)
	return &Reporter{server: server}
}

func (r *Reporter) OnStart(session.Info) {
	r.server.SetServingStatus(ServiceSession, healthpb.HealthCheckResponse_SERVING)
	r.server.SetServingStatus(ServiceTranscription, healthpb.HealthCheckResponse_SERVING)
}

func (r *Reporter) OnStop(session.Info) {
	r.server.SetServingStatus(ServiceSession, healthpb.HealthCheckResponse_NOT_SERVING)
}

func (r *Reporter) OnTranscriptUpdate(string) {
	r.server.SetServingStatus(ServiceTranscription, healthpb.HealthCheckResponse_SERVING)
}

func (r *Reporter) OnAnswerComplete(session.Answer) {}

func (r *Reporter) OnAdapterError(error) {
	r.server.SetServingStatus(ServiceTranscription, healthpb.HealthCheckResponse_NOT_SERVING)
}

// Serve registers the health service on a new gRPC server and serves ln
// until ctx is cancelled.
func (r *Reporter) Serve(ctx context.Context, ln net.Listener, logger *slog.Logger) error {
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, r.server)

	go func() {
		<-ctx.Done()
		r.server.Shutdown()
		srv.GracefulStop()
	}()

	if logger != nil {
		logger.Info("health endpoint listening", "addr", ln.Addr().String())
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Probe dials endpoint and asks its health service about service. An empty
// service checks overall server health.
func Probe(ctx context.Context, endpoint string, service string, timeout time.Duration) (healthpb.HealthCheckResponse_ServingStatus, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return healthpb.HealthCheckResponse_UNKNOWN, errors.New("health endpoint is empty")
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	conn, err := grpc.NewClient(
		endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("dial grpc %q: %w", endpoint, err)
	}
	defer conn.Close()

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	conn.Connect()
	if err := waitForReady(probeCtx, conn); err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("wait for grpc readiness: %w", err)
	}

	resp, err := healthpb.NewHealthClient(conn).Check(probeCtx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("health check %q: %w", service, err)
	}
	return resp.GetStatus(), nil
}

// waitForReady blocks until the connection enters Ready or fails.
func waitForReady(ctx context.Context, conn *grpc.ClientConn) error {
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Shutdown:
			return errors.New("grpc connection entered shutdown state")
		}

		if !conn.WaitForStateChange(ctx, state) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("grpc readiness wait timed out in state %s", state.String())
		}
	}
}
