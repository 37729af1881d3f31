// internal/decision/risk/scorer.go

// Package risk normalizes operational metrics into a bounded risk score and
// expands it into ranked, persona-filtered recommendations. Everything here
// is pure and deterministic given its inputs.
package risk

import (
	"math"
)

// Metric keys consumed by the scorer. Providers must use these names.
const (
	MetricConversionRate  = "lead_conversion_rate"
	MetricResponseRate    = "response_rate"
	MetricCompleteness    = "data_completeness"
	MetricAvgResponseTime = "avg_response_time"
	MetricDuplicateRate   = "duplicate_rate"
)

// Weights combine per-metric badness into the final risk score; they sum to 1.0.
var Weights = map[string]float64{
	MetricConversionRate:  0.30,
	MetricResponseRate:    0.25,
	MetricCompleteness:    0.20,
	MetricAvgResponseTime: 0.15,
	MetricDuplicateRate:   0.10,
}

// Normalize converts the raw operational rates into badness scores, each
// clamped to [0,100] with higher meaning worse. Missing metrics read as
// zero, which puts low-is-bad metrics at their worst value.
func Normalize(metrics map[string]float64) map[string]float64 {
	get := func(key string) float64 { return metrics[key] }

	return map[string]float64{
		MetricConversionRate:  math.Max(0, 100-get(MetricConversionRate)*10),
		MetricResponseRate:    math.Max(0, 100-get(MetricResponseRate)),
		MetricCompleteness:    math.Max(0, 100-get(MetricCompleteness)),
		MetricAvgResponseTime: math.Min(100, get(MetricAvgResponseTime)/2),
		MetricDuplicateRate:   math.Min(100, get(MetricDuplicateRate)*10),
	}
}

// Score computes the bounded overall risk score from the raw metrics.
// The result is monotonic non-decreasing in each metric's badness direction.
func Score(metrics map[string]float64) int {
	normalized := Normalize(metrics)

	var total float64
	for key, weight := range Weights {
		total += normalized[key] * weight
	}

	score := int(math.Round(total))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
