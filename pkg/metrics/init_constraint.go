package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initConstraintMetrics() {
	r.ConstraintsCreatedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "clusterconf_constraints_created_total",
			Help: "Total number of constraints appended to a configuration tree",
		},
		[]string{"tag"},
	)

	r.ConstraintDuplicatesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "clusterconf_constraint_duplicates_total",
			Help: "Constraint creations rejected or flagged as duplicates",
		},
	)

	r.GeneratedIDsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "clusterconf_generated_ids_total",
			Help: "Constraint and resource-set ids generated",
		},
	)
}
