package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/docroutes/pkg/resolver"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "docroutes").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for resolution duration.
	// Default: fine-grained buckets from 1µs to 10ms.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// Resolution is a table lookup, so the default buckets sit well below
// prometheus.DefBuckets.
var defaultDurationBuckets = []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 1e-2}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "docroutes",
		Buckets:   defaultDurationBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Outcome labels.
const (
	OutcomeMatched  = "matched"
	OutcomeFallback = "fallback"
)

// metrics holds the Prometheus metrics for route resolution.
type metrics struct {
	resolutionsTotal   *prometheus.CounterVec
	resolutionDuration prometheus.Histogram
	chainDepth         prometheus.Histogram
	reloadsTotal       *prometheus.CounterVec
	tableEntries       prometheus.Gauge
	tableGeneration    prometheus.Gauge
}

// globalMetrics is the singleton metrics instance.
// Created on first call to Prometheus().
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		resolutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolutions_total",
			Help:        "Total number of route resolutions by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		resolutionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolution_duration_seconds",
			Help:        "Route resolution duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		chainDepth: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "chain_depth",
			Help:        "Number of components in each resolved chain",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 3, 4, 5, 6, 8},
		}),

		reloadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "table_reloads_total",
			Help:        "Total number of route table reload attempts by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		tableEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "table_entries",
			Help:        "Number of entries in the route table in service",
			ConstLabels: config.ConstLabels,
		}),

		tableGeneration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "table_generation",
			Help:        "Generation of the route table in service",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Prometheus creates middleware that collects Prometheus metrics for route
// resolutions. The metrics are registered once per process; options passed
// to later calls are ignored.
//
// Example:
//
//	resolve := resolver.Chain(live.Func(),
//	    middleware.Prometheus(middleware.WithNamespace("docs")),
//	)
func Prometheus(opts ...MetricsOption) resolver.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return func(next resolver.Func) resolver.Func {
		return func(ctx context.Context, path string) resolver.Result {
			start := time.Now()
			res := next(ctx, path)
			m.resolutionDuration.Observe(time.Since(start).Seconds())

			outcome := OutcomeMatched
			if res.Fallback {
				outcome = OutcomeFallback
			}
			m.resolutionsTotal.WithLabelValues(outcome).Inc()
			m.chainDepth.Observe(float64(res.Depth()))

			return res
		}
	}
}

// =============================================================================
// Metrics Recording Functions
// =============================================================================

// RecordReload records a table reload attempt. ok is false when the new
// table failed to load or validate.
func RecordReload(ok bool) {
	if globalMetrics != nil {
		globalMetrics.reloadsTotal.WithLabelValues(reloadOutcome(ok)).Inc()
	}
}

// SetTableSize records the entry count and generation of the table in service.
func SetTableSize(entries int, generation int64) {
	if globalMetrics != nil {
		globalMetrics.tableEntries.Set(float64(entries))
		globalMetrics.tableGeneration.Set(float64(generation))
	}
}

func reloadOutcome(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

// Enabled reports whether Prometheus has been initialized.
func Enabled() bool {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	return globalMetrics != nil
}
