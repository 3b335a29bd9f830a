package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initValidationMetrics() {
	r.ValidationRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "clusterconf_validation_runs_total",
			Help: "Total number of validation passes",
		},
		[]string{"operation", "status"},
	)

	r.ValidationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clusterconf_validation_duration_seconds",
			Help:    "Validation pass duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
		},
		[]string{"operation"},
	)

	r.ReportItemsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "clusterconf_report_items_total",
			Help: "Total number of report items produced",
		},
		[]string{"operation", "severity"},
	)

	r.ForcedDowngradesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "clusterconf_forced_downgrades_total",
			Help: "Validation passes run with a force flag engaged",
		},
		[]string{"operation"},
	)
}
