// internal/learning/models.go
package learning

import "time"

// Feedback decisions.
const (
	DecisionApproved   = "approved"
	DecisionRejected   = "rejected"
	DecisionOverridden = "overridden"
)

// Observed outcomes attached to feedback.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeUnknown = "unknown"
)

// Feedback is one human verdict on a recommendation.
type Feedback struct {
	ID                  string    `json:"id"`
	RecommendationID    string    `json:"recommendation_id"`
	RecommendationTitle string    `json:"recommendation_title"`
	Persona             string    `json:"persona"`
	Decision            string    `json:"decision"`
	Outcome             string    `json:"outcome"`
	Reason              string    `json:"reason,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// Signal is the weight adjustment derived from one feedback record. Signals
// are advisory: they are stored and reported, never auto-applied to live
// scoring weights.
type Signal struct {
	FeedbackID          string    `json:"feedback_id"`
	RecommendationTitle string    `json:"recommendation_title"`
	Persona             string    `json:"persona"`
	Delta               float64   `json:"delta"`
	Reason              string    `json:"reason"`
	CreatedAt           time.Time `json:"created_at"`
}

// PersonaBias summarizes one persona's rejection behaviour.
type PersonaBias struct {
	Persona       string  `json:"persona"`
	TotalFeedback int     `json:"total_feedback"`
	Rejected      int     `json:"rejected"`
	RejectionRate float64 `json:"rejection_rate"`
	Biased        bool    `json:"biased"`
}

// BiasReport is the cross-persona rejection analysis. RejectionRate is the
// overall rejected/total ratio across all feedback, as a percentage;
// per-persona rates in Personas are fractions compared against Threshold.
type BiasReport struct {
	Threshold      float64       `json:"threshold"`
	TotalFeedback  int           `json:"total_feedback"`
	RejectionRate  float64       `json:"rejection_rate"`
	Personas       []PersonaBias `json:"personas"`
	BiasDetected   bool          `json:"bias_detected"`
	BiasedPersonas []string      `json:"biased_personas"`
	DriftLevel     string        `json:"drift_level"`
	GeneratedAt    time.Time     `json:"generated_at"`
}

// Drift levels for the overall rejection rate.
const (
	DriftLow    = "low"
	DriftMedium = "medium"
	DriftHigh   = "high"
)

// DriftReport classifies how far human reviewers have moved away from
// accepting recommendations, based on the overall rejection rate.
type DriftReport struct {
	TotalFeedback int       `json:"total_feedback"`
	Rejected      int       `json:"rejected"`
	RejectionRate float64   `json:"rejection_rate"`
	Level         string    `json:"level"`
	GeneratedAt   time.Time `json:"generated_at"`
}
