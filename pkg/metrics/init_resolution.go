package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initResolutionMetrics() {
	r.ResolutionLookupsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "clusterconf_resolution_lookups_total",
			Help: "Total number of node address classifications",
		},
		[]string{"result"},
	)

	r.ResolutionDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clusterconf_resolution_duration_seconds",
			Help:    "DNS lookup duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0},
		},
	)

	r.ResolutionCacheHits = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "clusterconf_resolution_cache_hits_total",
			Help: "Address classifications answered from the per-pass cache",
		},
	)
}
