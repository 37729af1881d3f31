// internal/leads/analytics.go
package leads

import (
	"time"

	"decision-core/internal/models"
)

// SLA thresholds in days, per lead status. Statuses not listed never breach.
var slaThresholdDays = map[string]int{
	"new":       2,
	"contacted": 3,
	"qualified": 5,
}

// Per-lead risk weights. The score is capped at 100.
const (
	slaBreachScore     = 40
	ageMultiplier      = 5
	ageMaxScore        = 30
	lowFollowupPenalty = 20
)

// sourcePenalties adds channel-specific risk for historically weak sources.
var sourcePenalties = map[string]int{
	"Facebook Ads": 10,
}

// LeadAnalytics is the per-lead SLA and risk view.
type LeadAnalytics struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	Source        string `json:"source"`
	AgeDays       int    `json:"age_days"`
	SLABreached   bool   `json:"sla_breached"`
	RiskScore     int    `json:"risk_score"`
	RiskLevel     string `json:"risk_level"`
	FollowupCount int    `json:"followup_count"`
}

// LeadAgeDays returns the whole days elapsed since the lead was created.
func LeadAgeDays(lead models.Lead, now time.Time) int {
	return int(now.Sub(lead.CreatedAt).Hours() / 24)
}

// IsSLABreached reports whether the lead's age exceeds the SLA for its status.
func IsSLABreached(ageDays int, status string) bool {
	threshold, ok := slaThresholdDays[status]
	if !ok {
		return false
	}
	return ageDays > threshold
}

// LeadRiskScore combines SLA breach, age, followup coverage, and source into
// a 0..100 score.
func LeadRiskScore(ageDays int, slaBreached bool, followupCount int, source string) int {
	score := 0
	if slaBreached {
		score += slaBreachScore
	}
	ageScore := ageDays * ageMultiplier
	if ageScore > ageMaxScore {
		ageScore = ageMaxScore
	}
	score += ageScore
	if followupCount <= 1 {
		score += lowFollowupPenalty
	}
	score += sourcePenalties[source]
	if score > 100 {
		score = 100
	}
	return score
}

// LeadRiskLevel buckets a per-lead risk score.
func LeadRiskLevel(score int) string {
	switch {
	case score >= 70:
		return "High"
	case score >= 40:
		return "Medium"
	default:
		return "Low"
	}
}

// Analyze computes the SLA and risk view for every lead.
func Analyze(all []models.Lead, now time.Time) []LeadAnalytics {
	result := make([]LeadAnalytics, 0, len(all))
	for _, lead := range all {
		age := LeadAgeDays(lead, now)
		breached := IsSLABreached(age, lead.Status)
		score := LeadRiskScore(age, breached, len(lead.Followups), lead.Source)
		result = append(result, LeadAnalytics{
			ID:            lead.ID,
			Name:          lead.Name,
			Status:        lead.Status,
			Source:        lead.Source,
			AgeDays:       age,
			SLABreached:   breached,
			RiskScore:     score,
			RiskLevel:     LeadRiskLevel(score),
			FollowupCount: len(lead.Followups),
		})
	}
	return result
}
