package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the inventory service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Business Metrics
	ImportRowsTotal      prometheus.CounterVec
	ReconcileCellsTotal  prometheus.Counter
	PlanRendersTotal     prometheus.Counter
	ReconcileJobDuration prometheus.Histogram
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kvadrat_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kvadrat_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "kvadrat_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Business Metrics
		ImportRowsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kvadrat_import_rows_total",
				Help: "Total spreadsheet rows imported by shape",
			},
			[]string{"shape"},
		),
		ReconcileCellsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "kvadrat_reconcile_cells_total",
				Help: "Total booking grid cells rewritten by reconciliation",
			},
		),
		PlanRendersTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "kvadrat_plan_renders_total",
				Help: "Total floor plan images generated from source artifacts",
			},
		),
		ReconcileJobDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kvadrat_reconcile_job_duration_seconds",
				Help:    "Reconciliation pass execution time in seconds",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
		),
	}
}
