// internal/governance/audit/models.go
package audit

import "time"

// Event is the caller-supplied payload for one audit log append.
// EventType and Decision are required; everything else is optional.
type Event struct {
	EventType         string                 `json:"eventType"`
	EntityType        string                 `json:"entityType,omitempty"`
	EntityID          *int64                 `json:"entityId,omitempty"`
	Actor             string                 `json:"actor,omitempty"`
	Persona           string                 `json:"persona,omitempty"`
	Inputs            map[string]interface{} `json:"inputs,omitempty"`
	Decision          map[string]interface{} `json:"decision"`
	Confidence        *float64               `json:"confidence,omitempty"`
	ExplainabilityRef string                 `json:"explainabilityRef,omitempty"`
}

// Entry is a persisted audit ledger row. Rows are append-only; EventHash is
// reserved for future tamper evidence and currently empty.
type Entry struct {
	ID                int64                  `json:"id"`
	EventID           string                 `json:"eventId"`
	EventType         string                 `json:"eventType"`
	EntityType        string                 `json:"entityType,omitempty"`
	EntityID          *int64                 `json:"entityId,omitempty"`
	Actor             string                 `json:"actor"`
	Persona           string                 `json:"persona,omitempty"`
	Timestamp         time.Time              `json:"timestamp"`
	Inputs            map[string]interface{} `json:"inputs,omitempty"`
	Decision          map[string]interface{} `json:"decision"`
	Confidence        *float64               `json:"confidence,omitempty"`
	ExplainabilityRef string                 `json:"explainabilityRef,omitempty"`
	EventHash         string                 `json:"eventHash,omitempty"`
}

// Filter selects audit entries on query. Zero values mean "no constraint";
// the time range is inclusive on both ends.
type Filter struct {
	EventType string
	Persona   string
	EntityID  *int64
	StartTime *time.Time
	EndTime   *time.Time
	Offset    int
	Limit     int
}

// Canonical event types written by the decision core itself.
const (
	EventRiskCalculation   = "risk_calculation"
	EventDecisionGenerated = "decision_generated"
	EventAlertCreation     = "alert_creation"
	EventSnapshotCaptured  = "snapshot_captured"
	EventFeedbackRecorded  = "feedback_recorded"
	EventCacheCleared      = "cache_cleared"
)
