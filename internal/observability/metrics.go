package observability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus counters and gauges for the client.
type Metrics struct {
	ReportsSubmitted *prometheus.CounterVec // labels: outcome={success,error,no_location}
	SOSSignals       *prometheus.CounterVec // labels: outcome={success,error,no_location}
	HeatmapLoads     *prometheus.CounterVec // labels: source={api,sample,none}
	LiveEvents       *prometheus.CounterVec // labels: event
	LiveReconnects   prometheus.Counter
	ActiveAlerts     prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		ReportsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safestree",
			Name:      "reports_submitted_total",
			Help:      "Incident report submissions by outcome.",
		}, []string{"outcome"}),
		SOSSignals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safestree",
			Name:      "sos_signals_total",
			Help:      "SOS submissions by outcome.",
		}, []string{"outcome"}),
		HeatmapLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safestree",
			Name:      "heatmap_loads_total",
			Help:      "Heatmap renders by data source.",
		}, []string{"source"}),
		LiveEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safestree",
			Name:      "live_events_total",
			Help:      "Live channel events received, by event name.",
		}, []string{"event"}),
		LiveReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "safestree",
			Name:      "live_reconnect_attempts_total",
			Help:      "Live channel reconnect attempts.",
		}),
		ActiveAlerts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "safestree",
			Name:      "active_alerts",
			Help:      "Alerts currently shown in the feed.",
		}),
	}
}

// NewMetrics creates and registers all client metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReportsSubmitted,
		m.SOSSignals,
		m.HeatmapLoads,
		m.LiveEvents,
		m.LiveReconnects,
		m.ActiveAlerts,
	)
	return m
}

// NewUnregisteredMetrics creates Metrics that are not attached to any registry.
// Used by tests and by the demo binary to avoid "already registered" panics.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

// ServeMetrics exposes /metrics on addr until ctx is cancelled.
func ServeMetrics(ctx context.Context, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server error", "error", err)
	}
}
