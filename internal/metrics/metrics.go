package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the pipeline.
type Metrics struct {
	Registry *prometheus.Registry

	RunsTotal           prometheus.Counter
	RunDuration         prometheus.Histogram
	InstrumentsTotal    *prometheus.CounterVec // labels: outcome
	SignalsTotal        *prometheus.CounterVec // labels: signal
	TradesTotal         prometheus.Counter
	NotificationsFailed prometheus.Counter
	LastTotalPnL        prometheus.Gauge
	ModelAccuracy       prometheus.Gauge
}

// NewMetrics creates all metrics on a private registry so several instances can coexist.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_runs_total",
			Help: "Total pipeline runs started",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_run_duration_seconds",
			Help:    "Wall time of a full pipeline run",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		InstrumentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_instruments_total",
			Help: "Instruments processed (by outcome)",
		}, []string{"outcome"}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_current_signals_total",
			Help: "Current signals emitted (by signal)",
		}, []string{"signal"}),
		TradesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_backtest_trades_total",
			Help: "Closed backtest trades across runs",
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_notifications_failed_total",
			Help: "Notifications that exhausted their retries",
		}),
		LastTotalPnL: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_last_total_pnl",
			Help: "Total backtest P&L of the most recent run",
		}),
		ModelAccuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_model_accuracy",
			Help: "Holdout accuracy of the most recently trained classifier",
		}),
	}

	m.Registry.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.InstrumentsTotal,
		m.SignalsTotal,
		m.TradesTotal,
		m.NotificationsFailed,
		m.LastTotalPnL,
		m.ModelAccuracy,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
