// Package metrics exposes Prometheus counters for dispatches and submissions.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Recorder struct {
	registry *prometheus.Registry

	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	dispatchInFlight prometheus.Gauge
	phaseTotal       *prometheus.CounterVec
}

func New() *Recorder {
	registry := prometheus.NewRegistry()

	dispatchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adlens",
			Subsystem: "client",
			Name:      "dispatch_total",
			Help:      "Total dispatched requests by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
	dispatchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "adlens",
			Subsystem: "client",
			Name:      "dispatch_duration_seconds",
			Help:      "Round trip duration in seconds by operation.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 15, 20, 30},
		},
		[]string{"operation"},
	)
	dispatchInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "adlens",
			Subsystem: "client",
			Name:      "dispatch_in_flight",
			Help:      "Number of requests awaiting a response.",
		},
	)
	phaseTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adlens",
			Subsystem: "session",
			Name:      "phase_entered_total",
			Help:      "Times a submission entered each phase.",
		},
		[]string{"phase"},
	)

	registry.MustRegister(dispatchTotal, dispatchDuration, dispatchInFlight, phaseTotal)

	return &Recorder{
		registry:         registry,
		dispatchTotal:    dispatchTotal,
		dispatchDuration: dispatchDuration,
		dispatchInFlight: dispatchInFlight,
		phaseTotal:       phaseTotal,
	}
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) StartDispatch(string) {
	r.dispatchInFlight.Inc()
}

func (r *Recorder) FinishDispatch(operation, outcome string, elapsed time.Duration) {
	r.dispatchInFlight.Dec()
	r.dispatchTotal.WithLabelValues(operation, outcome).Inc()
	r.dispatchDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// EnterPhase counts a session phase change.
func (r *Recorder) EnterPhase(phase string) {
	r.phaseTotal.WithLabelValues(phase).Inc()
}

// Serve exposes /metrics on addr until ctx is done.
func (r *Recorder) Serve(ctx context.Context, addr string, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("metrics listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
