// internal/alerts/alerts.go

// Package alerts evaluates declarative operational rules against a point-in-time
// view of pipeline state. Evaluation is pure: rules read the supplied state and
// clock, and never touch stores directly.
package alerts

import (
	"fmt"
	"time"

	"decision-core/internal/common/metrics"
	"decision-core/internal/models"
)

// Severity levels, highest first.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Canonical alert types.
const (
	TypeIngestionFailure     = "ingestion_failure"
	TypeLowDataCompleteness  = "low_data_completeness"
	TypeStaleData            = "stale_data"
	TypeLowInsightConfidence = "low_insight_confidence"
)

// Alert is one fired rule instance.
type Alert struct {
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// State is the snapshot of system health the rules evaluate. Nil pointer
// fields mean the signal is unavailable and its rules stay silent.
type State struct {
	Ingestion         *models.IngestionSummary
	AvgCompleteness   *float64
	LastUpdatedAt     *time.Time
	InsightConfidence *float64
}

// Config carries the rule thresholds.
type Config struct {
	CompletenessThreshold float64
	StalenessMinutes      int
	ConfidenceFloor       float64
}

// DefaultConfig mirrors the operational defaults used in production.
func DefaultConfig() Config {
	return Config{
		CompletenessThreshold: 70,
		StalenessMinutes:      120,
		ConfidenceFloor:       50,
	}
}

// Rule pairs an alert type and severity with a predicate producing zero or
// more messages. A rule may fire multiple times per evaluation (one message
// per affected entity).
type Rule struct {
	Type     string
	Severity string
	Fire     func(state State, cfg Config, now time.Time) []string
}

// Rules is the canonical rule table, ordered by severity.
var Rules = []Rule{
	{
		Type:     TypeIngestionFailure,
		Severity: SeverityHigh,
		Fire: func(state State, _ Config, _ time.Time) []string {
			if state.Ingestion == nil {
				return nil
			}
			var msgs []string
			for _, src := range state.Ingestion.Sources {
				if src.Status == models.SourceStatusFailed {
					msgs = append(msgs, fmt.Sprintf("Data ingestion failed for source: %s", src.Name))
				}
			}
			return msgs
		},
	},
	{
		Type:     TypeLowDataCompleteness,
		Severity: SeverityMedium,
		Fire: func(state State, cfg Config, _ time.Time) []string {
			if state.AvgCompleteness == nil || *state.AvgCompleteness >= cfg.CompletenessThreshold {
				return nil
			}
			return []string{fmt.Sprintf(
				"Average data completeness is %.1f%%, below the %.0f%% threshold",
				*state.AvgCompleteness, cfg.CompletenessThreshold,
			)}
		},
	},
	{
		Type:     TypeStaleData,
		Severity: SeverityMedium,
		Fire: func(state State, cfg Config, now time.Time) []string {
			if state.LastUpdatedAt == nil {
				return nil
			}
			age := now.Sub(*state.LastUpdatedAt)
			limit := time.Duration(cfg.StalenessMinutes) * time.Minute
			if age <= limit {
				return nil
			}
			return []string{fmt.Sprintf(
				"Data has not been refreshed for %d minutes (limit %d)",
				int(age.Minutes()), cfg.StalenessMinutes,
			)}
		},
	},
	{
		Type:     TypeLowInsightConfidence,
		Severity: SeverityLow,
		Fire: func(state State, cfg Config, _ time.Time) []string {
			if state.InsightConfidence == nil || *state.InsightConfidence >= cfg.ConfidenceFloor {
				return nil
			}
			return []string{fmt.Sprintf(
				"Insight confidence is %.1f, below the minimum of %.0f",
				*state.InsightConfidence, cfg.ConfidenceFloor,
			)}
		},
	},
}

// Evaluate runs every rule against the state and returns all fired alerts.
// An empty slice is a valid, healthy outcome.
func Evaluate(state State, cfg Config, now time.Time) []Alert {
	alerts := make([]Alert, 0)
	for _, rule := range Rules {
		for _, msg := range rule.Fire(state, cfg, now) {
			alerts = append(alerts, Alert{
				Type:      rule.Type,
				Severity:  rule.Severity,
				Message:   msg,
				CreatedAt: now,
			})
			metrics.AlertsFired.WithLabelValues(rule.Type, rule.Severity).Inc()
		}
	}
	return alerts
}
