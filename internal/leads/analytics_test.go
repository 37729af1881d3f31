// internal/leads/analytics_test.go
package leads

import (
	"testing"
	"time"

	"decision-core/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var analyticsNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func createAgedLead(status, source string, ageDays int, followups int) models.Lead {
	lead := models.Lead{
		ID:        1,
		Name:      "Lead",
		Phone:     "+1555",
		Source:    source,
		Status:    status,
		CreatedAt: analyticsNow.AddDate(0, 0, -ageDays),
	}
	for i := 0; i < followups; i++ {
		lead.Followups = append(lead.Followups, models.Followup{
			ID: int64(i + 1), LeadID: 1, Status: "done",
			CreatedAt: lead.CreatedAt.Add(time.Duration(i+1) * time.Hour),
		})
	}
	return lead
}

// ==========================
// SLA Tests
// ==========================

func TestIsSLABreached(t *testing.T) {
	tests := []struct {
		name     string
		ageDays  int
		status   string
		expected bool
	}{
		{name: "new within sla", ageDays: 2, status: "new", expected: false},
		{name: "new breached", ageDays: 3, status: "new", expected: true},
		{name: "contacted within sla", ageDays: 3, status: "contacted", expected: false},
		{name: "contacted breached", ageDays: 4, status: "contacted", expected: true},
		{name: "qualified within sla", ageDays: 5, status: "qualified", expected: false},
		{name: "qualified breached", ageDays: 6, status: "qualified", expected: true},
		{name: "unlisted status never breaches", ageDays: 365, status: "converted", expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsSLABreached(tc.ageDays, tc.status))
		})
	}
}

// ==========================
// Per-Lead Risk Tests
// ==========================

func TestLeadRiskScore(t *testing.T) {
	tests := []struct {
		name          string
		ageDays       int
		slaBreached   bool
		followupCount int
		source        string
		expected      int
	}{
		{
			name:    "fresh lead with followups",
			ageDays: 0, slaBreached: false, followupCount: 3, source: "crm",
			expected: 0,
		},
		{
			name:    "age contribution capped at 30",
			ageDays: 20, slaBreached: false, followupCount: 3, source: "crm",
			expected: 30,
		},
		{
			name:    "low followup penalty",
			ageDays: 0, slaBreached: false, followupCount: 1, source: "crm",
			expected: 20,
		},
		{
			name:    "source penalty",
			ageDays: 0, slaBreached: false, followupCount: 3, source: "Facebook Ads",
			expected: 10,
		},
		{
			name:    "everything wrong is capped at 100",
			ageDays: 30, slaBreached: true, followupCount: 0, source: "Facebook Ads",
			expected: 100, // 40 + 30 + 20 + 10
		},
		{
			name:    "breach plus moderate age",
			ageDays: 4, slaBreached: true, followupCount: 2, source: "crm",
			expected: 60, // 40 + 20
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			score := LeadRiskScore(tc.ageDays, tc.slaBreached, tc.followupCount, tc.source)
			assert.Equal(t, tc.expected, score)
		})
	}
}

func TestLeadRiskLevel(t *testing.T) {
	assert.Equal(t, "Low", LeadRiskLevel(0))
	assert.Equal(t, "Low", LeadRiskLevel(39))
	assert.Equal(t, "Medium", LeadRiskLevel(40))
	assert.Equal(t, "Medium", LeadRiskLevel(69))
	assert.Equal(t, "High", LeadRiskLevel(70))
	assert.Equal(t, "High", LeadRiskLevel(100))
}

// ==========================
// Full Analysis Tests
// ==========================

func TestAnalyze(t *testing.T) {
	all := []models.Lead{
		createAgedLead("new", "crm", 5, 0),          // breached, aged, no followups
		createAgedLead("contacted", "crm", 1, 3),    // healthy
		createAgedLead("new", "Facebook Ads", 0, 2), // source penalty only
	}

	result := Analyze(all, analyticsNow)

	require.Len(t, result, 3)

	stale := result[0]
	assert.True(t, stale.SLABreached)
	assert.Equal(t, 5, stale.AgeDays)
	assert.Equal(t, 85, stale.RiskScore, "40 breach + 25 age + 20 followups")
	assert.Equal(t, "High", stale.RiskLevel)

	healthy := result[1]
	assert.False(t, healthy.SLABreached)
	assert.Equal(t, 5, healthy.RiskScore, "age only")
	assert.Equal(t, "Low", healthy.RiskLevel)

	facebook := result[2]
	assert.False(t, facebook.SLABreached)
	assert.Equal(t, 10, facebook.RiskScore)
	assert.Equal(t, "Low", facebook.RiskLevel)
	assert.Equal(t, 2, facebook.FollowupCount)
}

func TestAnalyze_EmptyDataset(t *testing.T) {
	result := Analyze(nil, analyticsNow)

	assert.NotNil(t, result)
	assert.Empty(t, result)
}
