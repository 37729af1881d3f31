// internal/leads/metrics.go
package leads

import (
	"math"
	"strings"

	"decision-core/internal/decision/risk"
	"decision-core/internal/models"

	"github.com/montanaflynn/stats"
)

// KeyMetrics derives the pipeline health metrics consumed by the risk scorer
// from the raw lead dataset:
//
//	lead_conversion_rate  percent of leads with status "converted"
//	response_rate         percent of leads with at least one followup
//	data_completeness     average field completeness, percent
//	avg_response_time     mean hours from lead creation to first followup
//	duplicate_rate        percent of leads sharing a phone number
//
// An empty dataset yields all zeros, which the risk scorer treats as maximal
// uncertainty rather than an error.
func KeyMetrics(all []models.Lead) map[string]float64 {
	metrics := map[string]float64{
		risk.MetricConversionRate:  0,
		risk.MetricResponseRate:    0,
		risk.MetricCompleteness:    0,
		risk.MetricAvgResponseTime: 0,
		risk.MetricDuplicateRate:   0,
	}
	total := len(all)
	if total == 0 {
		return metrics
	}

	converted := 0
	responded := 0
	phones := make(map[string]int, total)
	var responseHours []float64
	for _, lead := range all {
		if strings.EqualFold(lead.Status, "converted") {
			converted++
		}
		if len(lead.Followups) > 0 {
			responded++
			first := lead.Followups[0].CreatedAt
			if hours := first.Sub(lead.CreatedAt).Hours(); hours > 0 {
				responseHours = append(responseHours, hours)
			}
		}
		if lead.Phone != "" {
			phones[lead.Phone]++
		}
	}

	duplicates := 0
	for _, count := range phones {
		if count > 1 {
			duplicates += count - 1
		}
	}

	metrics[risk.MetricConversionRate] = round2f(float64(converted) / float64(total) * 100)
	metrics[risk.MetricResponseRate] = round2f(float64(responded) / float64(total) * 100)
	metrics[risk.MetricCompleteness] = AnalyzeQuality(all).AvgCompleteness
	metrics[risk.MetricDuplicateRate] = round2f(float64(duplicates) / float64(total) * 100)
	if len(responseHours) > 0 {
		if mean, err := stats.Mean(responseHours); err == nil {
			metrics[risk.MetricAvgResponseTime] = round2f(mean)
		}
	}
	return metrics
}

func round2f(v float64) float64 {
	return math.Round(v*100) / 100
}
