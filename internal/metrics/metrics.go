// Package metrics exposes fan controller metrics to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayusman/smartfan/internal/fan"
)

// Metrics holds the controller collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Frames    prometheus.Counter
	Persons   prometheus.Gauge
	SpeedLvl  prometheus.Gauge
	Decisions *prometheus.CounterVec
	Inference prometheus.Histogram
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smartfan_frames_total",
			Help: "Total frames processed",
		}),
		Persons: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "smartfan_persons",
			Help: "Persons detected in the latest frame",
		}),
		SpeedLvl: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "smartfan_fan_speed_level",
			Help: "Current fan speed (0=Off, 1=Low, 2=Medium, 3=High)",
		}),
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smartfan_decisions_total",
			Help: "Frames per chosen fan speed",
		}, []string{"speed"}),
		Inference: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "smartfan_inference_seconds",
			Help:    "Person detection latency per frame",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
	}

	m.registry.MustRegister(m.Frames, m.Persons, m.SpeedLvl, m.Decisions, m.Inference)

	return m
}

// ObserveFrame records the outcome of one processed frame.
func (m *Metrics) ObserveFrame(persons int, speed fan.Speed, inference time.Duration) {
	m.Frames.Inc()
	m.Persons.Set(float64(persons))
	m.SpeedLvl.Set(float64(speed.Level()))
	m.Decisions.WithLabelValues(speed.String()).Inc()
	m.Inference.Observe(inference.Seconds())
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve listens on addr and serves /metrics until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
