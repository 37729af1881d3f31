// internal/learning/signal.go
package learning

// Weight deltas per feedback verdict. Rejection outranks outcome: a rejected
// recommendation contributes the rejection delta regardless of how the
// suggested action later played out.
const (
	DeltaRejected        = -0.05
	DeltaApprovedSuccess = 0.02
	DeltaApprovedFailure = -0.08
	DeltaNeutral         = 0.0
)

// Fixed reasons attached to each derived signal. One reason per verdict;
// these strings are part of the stored record, not display copy.
const (
	ReasonRejected        = "Decision was rejected by a human reviewer."
	ReasonApprovedSuccess = "Approved decision led to a successful outcome."
	ReasonApprovedFailure = "Approved decision led to a failed outcome."
	ReasonNeutral         = "Neutral outcome or pending review."
)

// DeriveDelta maps one feedback verdict and outcome to a weight adjustment
// and its fixed reason.
func DeriveDelta(decision, outcome string) (float64, string) {
	if decision == DecisionRejected {
		return DeltaRejected, ReasonRejected
	}
	if decision == DecisionApproved {
		switch outcome {
		case OutcomeSuccess:
			return DeltaApprovedSuccess, ReasonApprovedSuccess
		case OutcomeFailure:
			return DeltaApprovedFailure, ReasonApprovedFailure
		}
	}
	return DeltaNeutral, ReasonNeutral
}

// DeriveSignal builds the stored learning signal for one feedback record.
func DeriveSignal(fb Feedback) Signal {
	delta, reason := DeriveDelta(fb.Decision, fb.Outcome)
	return Signal{
		FeedbackID:          fb.ID,
		RecommendationTitle: fb.RecommendationTitle,
		Persona:             fb.Persona,
		Delta:               delta,
		Reason:              reason,
		CreatedAt:           fb.CreatedAt,
	}
}
