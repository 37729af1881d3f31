// internal/decision/risk/recommend.go
package risk

import (
	"fmt"

	"decision-core/internal/models"
)

// Recommendation thresholds are cumulative: a risk score of 80 emits the
// CRITICAL, HIGH, and MEDIUM items together, in that order.
const (
	CriticalThreshold = 75
	HighThreshold     = 50
	MediumThreshold   = 30
)

// Governance flag thresholds.
const (
	LowConfidenceFlagBelow = 60
	DataGapFlagBelow       = 70
)

// Generate expands a risk score into the full ranked recommendation set.
// Pure and deterministic given (riskScore, confidence, completeness).
func Generate(riskScore int, confidence float64, completeness float64) []models.Recommendation {
	governanceFlags := []string{}
	if confidence < LowConfidenceFlagBelow {
		governanceFlags = append(governanceFlags, "low_confidence")
	}
	if completeness < DataGapFlagBelow {
		governanceFlags = append(governanceFlags, "data_gap")
	}

	var recommendations []models.Recommendation

	if riskScore >= CriticalThreshold {
		recommendations = append(recommendations, models.Recommendation{
			Title:          "CRITICAL: Address Data Duplication",
			Recommendation: "High duplication rate detected. Run data cleaning scripts to merge duplicate leads and prevent skewed analytics.",
			Priority:       models.PriorityCritical,
			Confidence:     int(confidence),
			Rationale: fmt.Sprintf(
				"Risk score is %d. The highest contributing factor is a high data duplication rate, which severely impacts trust.",
				riskScore),
			ImpactedMetrics: []string{"Data Quality", "Lead Count"},
			GovernanceFlags: governanceFlags,
			SuggestedOwner:  models.OwnerOps,
		})
	}

	if riskScore >= HighThreshold {
		recommendations = append(recommendations, models.Recommendation{
			Title:          "HIGH: Improve Lead Response Time",
			Recommendation: "Average lead response time is too high. Assign more resources to new leads or implement automated first-touch messages.",
			Priority:       models.PriorityHigh,
			Confidence:     int(confidence),
			Rationale: fmt.Sprintf(
				"Risk score is %d. Slow response times are a major cause of lead churn and missed opportunities.",
				riskScore),
			ImpactedMetrics: []string{"Time-to-Contact", "Conversion Rate"},
			GovernanceFlags: governanceFlags,
			SuggestedOwner:  models.OwnerSales,
		})
	}

	if riskScore >= MediumThreshold {
		recommendations = append(recommendations, models.Recommendation{
			Title:          "MEDIUM: Boost Channel Engagement",
			Recommendation: "Response rates are below benchmark. A/B test new opening messages to improve engagement.",
			Priority:       models.PriorityMedium,
			Confidence:     int(confidence),
			Rationale: fmt.Sprintf(
				"Risk score is %d. Low engagement on a key channel indicates a need for process optimization.",
				riskScore),
			ImpactedMetrics: []string{"Response Rate", "Channel Performance"},
			GovernanceFlags: governanceFlags,
			SuggestedOwner:  models.OwnerMarketing,
		})
	}

	return recommendations
}
