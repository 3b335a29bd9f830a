package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the validation library
type Registry struct {
	// Validation Metrics
	ValidationRunsTotal   *prometheus.CounterVec
	ValidationDuration    *prometheus.HistogramVec
	ReportItemsTotal      *prometheus.CounterVec
	ForcedDowngradesTotal *prometheus.CounterVec

	// Address Resolution Metrics
	ResolutionLookupsTotal *prometheus.CounterVec
	ResolutionDuration     prometheus.Histogram
	ResolutionCacheHits    prometheus.Counter

	// Constraint Metrics
	ConstraintsCreatedTotal   *prometheus.CounterVec
	ConstraintDuplicatesTotal prometheus.Counter
	GeneratedIDsTotal         prometheus.Counter

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initValidationMetrics()
	r.initResolutionMetrics()
	r.initConstraintMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
