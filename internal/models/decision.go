// internal/models/decision.go
package models

// Persona is a role-like viewpoint used to filter and own recommendations.
// It is resolved by a collaborator; the core treats it as an opaque enum.
type Persona string

const (
	PersonaFounder      Persona = "founder"
	PersonaSalesManager Persona = "sales_manager"
	PersonaOpsCRM       Persona = "ops_crm"
)

// Priority orders recommendations by urgency.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// Owner tags the team expected to act on a recommendation.
type Owner string

const (
	OwnerExecutive Owner = "EXECUTIVE"
	OwnerSales     Owner = "SALES"
	OwnerMarketing Owner = "MARKETING"
	OwnerOps       Owner = "OPS"
)

// ConfidenceLevel is the categorical band of a confidence score.
type ConfidenceLevel string

const (
	LevelHigh   ConfidenceLevel = "HIGH"
	LevelMedium ConfidenceLevel = "MEDIUM"
	LevelLow    ConfidenceLevel = "LOW"
)

// Signal is one named sub-score driver contributing to a confidence score.
type Signal struct {
	Component string          `json:"component"`
	Status    ConfidenceLevel `json:"status"`
	Message   string          `json:"message"`
}

// Recommendation is a single actionable item produced by the decision
// engine. ID is empty until the recommendation is captured in a snapshot,
// at which point it is reassigned the snapshot's trace id.
type Recommendation struct {
	ID              string   `json:"id,omitempty"`
	Title           string   `json:"title"`
	Recommendation  string   `json:"recommendation"`
	Priority        Priority `json:"priority"`
	Confidence      int      `json:"confidence"`
	Rationale       string   `json:"rationale"`
	ImpactedMetrics []string `json:"impactedMetrics"`
	GovernanceFlags []string `json:"governanceFlags"`
	SuggestedOwner  Owner    `json:"suggestedOwner"`
}
