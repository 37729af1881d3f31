// internal/learning/signal_test.go
package learning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Signal Derivation Tests
// ==========================

func TestDeriveDelta(t *testing.T) {
	tests := []struct {
		name           string
		decision       string
		outcome        string
		expectedDelta  float64
		expectedReason string
	}{
		{name: "rejected", decision: DecisionRejected, outcome: OutcomeUnknown, expectedDelta: -0.05, expectedReason: ReasonRejected},
		{name: "rejected with success outcome still penalizes", decision: DecisionRejected, outcome: OutcomeSuccess, expectedDelta: -0.05, expectedReason: ReasonRejected},
		{name: "rejected with failure outcome still penalizes", decision: DecisionRejected, outcome: OutcomeFailure, expectedDelta: -0.05, expectedReason: ReasonRejected},
		{name: "approved and succeeded", decision: DecisionApproved, outcome: OutcomeSuccess, expectedDelta: 0.02, expectedReason: ReasonApprovedSuccess},
		{name: "approved and failed", decision: DecisionApproved, outcome: OutcomeFailure, expectedDelta: -0.08, expectedReason: ReasonApprovedFailure},
		{name: "approved with unknown outcome", decision: DecisionApproved, outcome: OutcomeUnknown, expectedDelta: 0.0, expectedReason: ReasonNeutral},
		{name: "overridden", decision: DecisionOverridden, outcome: OutcomeSuccess, expectedDelta: 0.0, expectedReason: ReasonNeutral},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			delta, reason := DeriveDelta(tc.decision, tc.outcome)
			assert.Equal(t, tc.expectedDelta, delta)
			assert.Equal(t, tc.expectedReason, reason)
		})
	}
}

func TestDeriveDelta_FixedReasonStrings(t *testing.T) {
	assert.Equal(t, "Decision was rejected by a human reviewer.", ReasonRejected)
	assert.Equal(t, "Approved decision led to a successful outcome.", ReasonApprovedSuccess)
	assert.Equal(t, "Approved decision led to a failed outcome.", ReasonApprovedFailure)
	assert.Equal(t, "Neutral outcome or pending review.", ReasonNeutral)
}

func TestDeriveSignal_CarriesFeedbackContext(t *testing.T) {
	fb := Feedback{
		ID:                  "fb-001",
		RecommendationTitle: "HIGH: Improve Lead Response Time",
		Persona:             "sales_manager",
		Decision:            DecisionApproved,
		Outcome:             OutcomeFailure,
	}

	sig := DeriveSignal(fb)

	assert.Equal(t, "fb-001", sig.FeedbackID)
	assert.Equal(t, "HIGH: Improve Lead Response Time", sig.RecommendationTitle)
	assert.Equal(t, "sales_manager", sig.Persona)
	assert.Equal(t, -0.08, sig.Delta)
	assert.Equal(t, ReasonApprovedFailure, sig.Reason)
}
