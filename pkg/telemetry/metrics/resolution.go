package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hyperpolymath/union-policy-parser/pkg/config"
)

// ResolutionMetrics tracks metrics for policy resolution requests.
type ResolutionMetrics struct {
	// Total resolutions by terminal state
	resolutionsTotal *prometheus.CounterVec

	// Resolution duration histogram
	resolutionDuration prometheus.Histogram

	// Conflict records by strategy and reason
	conflictsTotal *prometheus.CounterVec
}

// NewResolutionMetrics creates and registers resolution metrics with the
// provided registry.
func NewResolutionMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *ResolutionMetrics {
	m := &ResolutionMetrics{
		resolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "resolutions_total",
				Help:      "Total number of policy resolution requests",
			},
			[]string{"state"},
		),

		resolutionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "resolution_duration_seconds",
				Help:      "Duration of policy resolution in seconds",
				// Resolutions are in-memory and should be fast (< 100ms)
				Buckets: prometheus.ExponentialBuckets(0.00001, 2, 15), // 10µs to 160ms
			},
		),

		conflictsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "conflicts_total",
				Help:      "Total number of conflict records by strategy and reason",
			},
			[]string{"strategy", "reason"},
		),
	}

	registry.MustRegister(m.resolutionsTotal, m.resolutionDuration, m.conflictsTotal)
	return m
}

// ObserveResolution records a completed resolution request.
func (m *ResolutionMetrics) ObserveResolution(state string, duration time.Duration) {
	m.resolutionsTotal.WithLabelValues(state).Inc()
	m.resolutionDuration.Observe(duration.Seconds())
}

// RecordConflict records one conflict record.
func (m *ResolutionMetrics) RecordConflict(strategy, reason string) {
	m.conflictsTotal.WithLabelValues(strategy, reason).Inc()
}
