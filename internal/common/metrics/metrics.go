// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DecisionEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decision_evaluations_total",
			Help: "Total number of decision core evaluations by operation",
		},
		[]string{"operation"},
	)

	RecommendationsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decision_recommendations_total",
			Help: "Total number of recommendations generated by priority",
		},
		[]string{"priority"},
	)

	SnapshotsCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decision_snapshots_captured_total",
			Help: "Total number of decision snapshots captured by governance status",
		},
		[]string{"status"},
	)

	AuditEventsAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_appended_total",
			Help: "Total number of audit log entries appended by event type",
		},
		[]string{"event_type"},
	)

	AlertsFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_fired_total",
			Help: "Total number of alerts fired by rule and severity",
		},
		[]string{"type", "severity"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decision_cache_hits_total",
			Help: "Total number of cache hits by backend",
		},
		[]string{"backend"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decision_cache_misses_total",
			Help: "Total number of cache misses by backend",
		},
		[]string{"backend"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decision_cache_invalidations_total",
			Help: "Total number of whole-cache invalidations by backend",
		},
		[]string{"backend"},
	)

	EvaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "decision_evaluation_duration_seconds",
			Help: "Duration of decision core evaluations in seconds",
		},
		[]string{"operation"},
	)
)
