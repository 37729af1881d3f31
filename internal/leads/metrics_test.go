// internal/leads/metrics_test.go
package leads

import (
	"testing"
	"time"

	"decision-core/internal/decision/risk"
	"decision-core/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Key Metrics Tests
// ==========================

func TestKeyMetrics_EmptyDataset(t *testing.T) {
	metrics := KeyMetrics(nil)

	assert.Equal(t, map[string]float64{
		risk.MetricConversionRate:  0,
		risk.MetricResponseRate:    0,
		risk.MetricCompleteness:    0,
		risk.MetricAvgResponseTime: 0,
		risk.MetricDuplicateRate:   0,
	}, metrics)
}

func TestKeyMetrics_Rates(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	all := []models.Lead{
		{
			ID: 1, Name: "A", Phone: "+100", Source: "crm", Status: "converted",
			CreatedAt: base,
			Followups: []models.Followup{{ID: 1, LeadID: 1, Status: "done", CreatedAt: base.Add(4 * time.Hour)}},
		},
		{
			ID: 2, Name: "B", Phone: "+200", Source: "crm", Status: "contacted",
			CreatedAt: base,
			Followups: []models.Followup{{ID: 2, LeadID: 2, Status: "done", CreatedAt: base.Add(8 * time.Hour)}},
		},
		{ID: 3, Name: "C", Phone: "+100", Source: "api", Status: "new", CreatedAt: base},
		{ID: 4, Name: "D", Phone: "+400", Source: "api", Status: "new", CreatedAt: base},
	}

	metrics := KeyMetrics(all)

	assert.Equal(t, 25.0, metrics[risk.MetricConversionRate], "1 of 4 converted")
	assert.Equal(t, 50.0, metrics[risk.MetricResponseRate], "2 of 4 have followups")
	assert.Equal(t, 6.0, metrics[risk.MetricAvgResponseTime], "mean of 4h and 8h")
	assert.Equal(t, 25.0, metrics[risk.MetricDuplicateRate], "one shared phone among 4 leads")
	assert.Greater(t, metrics[risk.MetricCompleteness], 0.0)
}

func TestKeyMetrics_ConvertedStatusIsCaseInsensitive(t *testing.T) {
	all := []models.Lead{
		{ID: 1, Name: "A", Phone: "+1", Source: "crm", Status: "Converted", CreatedAt: time.Now()},
	}

	metrics := KeyMetrics(all)

	assert.Equal(t, 100.0, metrics[risk.MetricConversionRate])
}

func TestKeyMetrics_FeedsRiskScorer(t *testing.T) {
	// The metric keys produced here must be exactly what the risk scorer
	// consumes; a drifted key silently reads as zero over there.
	metrics := KeyMetrics(createLeads(10, createCompleteLead))

	for key := range risk.Weights {
		_, ok := metrics[key]
		assert.True(t, ok, "missing metric %s", key)
	}
	assert.GreaterOrEqual(t, risk.Score(metrics), 0)
}
