// internal/governance/audit/helpers.go

package audit

import (
	"context"

	"decision-core/internal/models"
)

// Canonical convenience wrappers. Engine paths call these instead of hand
// assembling Event payloads, so identical operations always produce
// structurally identical ledger entries.

// LogRiskCalculation records one risk score evaluation for a persona.
func (s *Service) LogRiskCalculation(ctx context.Context, persona string, inputs map[string]interface{}, score float64, traceID string) (*Entry, error) {
	return s.Append(ctx, Event{
		EventType:  EventRiskCalculation,
		EntityType: "pipeline",
		Persona:    persona,
		Inputs:     inputs,
		Decision: map[string]interface{}{
			"risk_score": score,
		},
		Confidence:        &score,
		ExplainabilityRef: traceID,
	})
}

// LogDecisionGenerated records a batch of recommendations surfaced to a persona.
func (s *Service) LogDecisionGenerated(ctx context.Context, persona string, recs []models.Recommendation, traceID string) (*Entry, error) {
	titles := make([]string, 0, len(recs))
	for _, r := range recs {
		titles = append(titles, r.Title)
	}
	return s.Append(ctx, Event{
		EventType:  EventDecisionGenerated,
		EntityType: "recommendation_set",
		Persona:    persona,
		Decision: map[string]interface{}{
			"recommendation_count":  len(recs),
			"recommendation_titles": titles,
		},
		ExplainabilityRef: traceID,
	})
}

// LogAlertCreation records one ledger entry per fired alert.
func (s *Service) LogAlertCreation(ctx context.Context, alertType, severity, message string) (*Entry, error) {
	return s.Append(ctx, Event{
		EventType:  EventAlertCreation,
		EntityType: "alert",
		Decision: map[string]interface{}{
			"alert_type": alertType,
			"severity":   severity,
			"message":    message,
		},
	})
}

// LogSnapshotCaptured records that an immutable decision snapshot was minted.
func (s *Service) LogSnapshotCaptured(ctx context.Context, traceID, persona, status string, confidence float64) (*Entry, error) {
	return s.Append(ctx, Event{
		EventType:  EventSnapshotCaptured,
		EntityType: "decision_snapshot",
		Persona:    persona,
		Decision: map[string]interface{}{
			"decision_id": traceID,
			"status":      status,
		},
		Confidence:        &confidence,
		ExplainabilityRef: traceID,
	})
}

// LogFeedbackRecorded records a human verdict on a recommendation.
func (s *Service) LogFeedbackRecorded(ctx context.Context, persona, recommendationID, decision, reason string) (*Entry, error) {
	return s.Append(ctx, Event{
		EventType:  EventFeedbackRecorded,
		EntityType: "feedback",
		Persona:    persona,
		Decision: map[string]interface{}{
			"recommendation_id": recommendationID,
			"decision":          decision,
			"reason":            reason,
		},
	})
}

// LogCacheCleared records administrative cache invalidation.
func (s *Service) LogCacheCleared(ctx context.Context, actor string) (*Entry, error) {
	return s.Append(ctx, Event{
		EventType:  EventCacheCleared,
		EntityType: "cache",
		Actor:      actor,
		Decision: map[string]interface{}{
			"action": "clear_all",
		},
	})
}
