// Package metrics exposes prometheus metrics for validation passes,
// address resolution, and constraint building.
package metrics

import (
	"runtime"
	"time"
)

// RecordValidation records one validation pass with its outcome counts
func (r *Registry) RecordValidation(operation string, errorCount, warningCount int, duration time.Duration) {
	status := "clean"
	switch {
	case errorCount > 0:
		status = "errors"
	case warningCount > 0:
		status = "warnings"
	}

	r.ValidationRunsTotal.WithLabelValues(operation, status).Inc()
	r.ValidationDuration.WithLabelValues(operation).Observe(duration.Seconds())

	if errorCount > 0 {
		r.ReportItemsTotal.WithLabelValues(operation, "error").Add(float64(errorCount))
	}
	if warningCount > 0 {
		r.ReportItemsTotal.WithLabelValues(operation, "warning").Add(float64(warningCount))
	}
}

// RecordForcedRun notes that a validation pass ran with a force flag engaged
func (r *Registry) RecordForcedRun(operation string) {
	r.ForcedDowngradesTotal.WithLabelValues(operation).Inc()
}

// RecordResolution records one address classification. Cached answers
// carry no lookup duration.
func (r *Registry) RecordResolution(result string, cached bool, duration time.Duration) {
	r.ResolutionLookupsTotal.WithLabelValues(result).Inc()
	if cached {
		r.ResolutionCacheHits.Inc()
		return
	}
	r.ResolutionDuration.Observe(duration.Seconds())
}

// RecordConstraintCreated records a constraint appended to a configuration tree
func (r *Registry) RecordConstraintCreated(tag string) {
	r.ConstraintsCreatedTotal.WithLabelValues(tag).Inc()
}

// RecordConstraintDuplicate records a creation rejected as a duplicate
func (r *Registry) RecordConstraintDuplicate() {
	r.ConstraintDuplicatesTotal.Inc()
}

// RecordGeneratedID records a generated constraint or resource-set id
func (r *Registry) RecordGeneratedID() {
	r.GeneratedIDsTotal.Inc()
}

// UpdateSystemMetrics refreshes the runtime gauges
func (r *Registry) UpdateSystemMetrics(uptime time.Duration) {
	r.UptimeSeconds.Set(uptime.Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}
