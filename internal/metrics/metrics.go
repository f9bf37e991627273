// Package metrics exports interview session counters in Prometheus format.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Pradeep10j21/Mockello-MVP/internal/session"
)

const namespace = "mockello"

// Recorder implements session.Recorder on a Prometheus registry.
type Recorder struct {
	activeSessions  prometheus.Gauge
	sessionsTotal   prometheus.Counter
	sessionDuration prometheus.Histogram
	answersTotal    *prometheus.CounterVec
	answerWords     prometheus.Histogram
	adapterErrors   prometheus.Counter
}

var _ session.Recorder = (*Recorder)(nil)

// New registers the session collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of interview sessions currently holding the microphone",
		}),
		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of interview sessions started",
		}),
		sessionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Duration of interview sessions in seconds",
			Buckets:   []float64{30, 60, 300, 600, 1200, 1800, 3600},
		}),
		answersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Total number of finalized answers",
		}, []string{"trigger"}),
		answerWords: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "answer_words",
			Help:      "Word count of finalized answers",
			Buckets:   []float64{5, 15, 30, 60, 120, 250, 500},
		}),
		adapterErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adapter_errors_total",
			Help:      "Total number of distinct speech recognition errors",
		}),
	}
}

func (r *Recorder) SessionStarted() {
	r.activeSessions.Inc()
	r.sessionsTotal.Inc()
}

func (r *Recorder) SessionStopped(elapsed time.Duration) {
	r.activeSessions.Dec()
	r.sessionDuration.Observe(elapsed.Seconds())
}

func (r *Recorder) AnswerCompleted(answer session.Answer) {
	r.answersTotal.WithLabelValues(string(answer.Trigger)).Inc()
	r.answerWords.Observe(float64(answer.Words))
}

func (r *Recorder) AdapterFailed() {
	r.adapterErrors.Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Serve exposes Handler on ln until ctx is cancelled.
func Serve(ctx context.Context, ln net.Listener, gatherer prometheus.Gatherer, logger *slog.Logger) error {
	srv := &http.Server{
		Handler:           Handler(gatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if logger != nil {
		logger.Info("metrics endpoint listening", "addr", ln.Addr().String())
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
