package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	barsStored   *prometheus.CounterVec
	reportsBuilt *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastVaR      *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		barsStored: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "risklens_bars_stored_total",
				Help: "Total number of daily bars written to a backend",
			},
			[]string{"backend", "symbol"},
		),
		reportsBuilt: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "risklens_reports_built_total",
				Help: "Total number of risk reports built",
			},
			[]string{"portfolio"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "risklens_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastVaR: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "risklens_value_at_risk",
				Help: "Last computed daily VaR per method",
			},
			[]string{"method", "portfolio"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "risklens_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordBarStored records a daily bar written to a backend.
func (r *Recorder) RecordBarStored(backend, symbol string) {
	r.barsStored.WithLabelValues(backend, symbol).Inc()
}

// RecordReportBuilt records a completed risk report for a portfolio.
func (r *Recorder) RecordReportBuilt(portfolio string) {
	r.reportsBuilt.WithLabelValues(portfolio).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordVaR records the last computed VaR for a method.
func (r *Recorder) RecordVaR(method, portfolio string, value float64) {
	r.lastVaR.WithLabelValues(method, portfolio).Set(value)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
