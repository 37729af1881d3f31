// internal/decision/confidence/scorer_test.go
package confidence

import (
	"testing"
	"time"

	"decision-core/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func hoursAgo(h float64) *time.Time {
	t := testNow.Add(-time.Duration(h * float64(time.Hour)))
	return &t
}

func createHealthyInput() Input {
	return Input{
		LastUpdated:   hoursAgo(0),
		TotalRecords:  100,
		FailedRecords: 0,
		SourceType:    "crm",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestCalculate_HealthySystem(t *testing.T) {
	result := calculateAt(createHealthyInput(), testNow)

	// 100*.35 + 100*.25 + 100*.15 + 100*.15 + 95*.10 = 99.5
	assert.Equal(t, 99.5, result.Score)
	assert.Equal(t, models.LevelHigh, result.Level)
	assert.Len(t, result.Signals, 5)
	assert.Equal(t, 100.0, result.Metrics["freshness_score"])
	assert.Equal(t, 95.0, result.Metrics["validity_score"])
}

func TestCalculate_SubScores(t *testing.T) {
	tests := []struct {
		name          string
		input         Input
		expectedScore float64
		expectedLevel models.ConfidenceLevel
	}{
		{
			name: "missing timestamp zeroes freshness",
			input: Input{
				LastUpdated:   nil,
				TotalRecords:  100,
				FailedRecords: 0,
				SourceType:    "crm",
			},
			// 0*.35 + 100*.25 + 100*.15 + 100*.15 + 95*.10 = 64.5
			expectedScore: 64.5,
			expectedLevel: models.LevelMedium,
		},
		{
			name: "zero records caps the score far below high",
			input: Input{
				LastUpdated:   hoursAgo(0),
				TotalRecords:  0,
				FailedRecords: 0,
				SourceType:    "crm",
			},
			// 100*.35 + 0 + 0 + 100*.15 + 0 = 50
			expectedScore: 50.0,
			expectedLevel: models.LevelLow,
		},
		{
			name: "unknown source falls back to neutral trust",
			input: Input{
				LastUpdated:   hoursAgo(0),
				TotalRecords:  100,
				FailedRecords: 0,
				SourceType:    "facebook",
			},
			// 100*.35 + 100*.25 + 100*.15 + 50*.15 + 95*.10 = 92
			expectedScore: 92.0,
			expectedLevel: models.LevelHigh,
		},
		{
			name: "partial failures lower completeness and its derivatives",
			input: Input{
				LastUpdated:   hoursAgo(0),
				TotalRecords:  100,
				FailedRecords: 20,
				SourceType:    "crm",
			},
			// 100*.35 + 80*.25 + 80*.15 + 100*.15 + 75*.10 = 89.5
			expectedScore: 89.5,
			expectedLevel: models.LevelHigh,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := calculateAt(tc.input, testNow)
			assert.Equal(t, tc.expectedScore, result.Score)
			assert.Equal(t, tc.expectedLevel, result.Level)
		})
	}
}

func TestCalculate_FreshnessDecay(t *testing.T) {
	tests := []struct {
		name     string
		hoursOld float64
		expected float64
	}{
		{name: "fresh", hoursOld: 0, expected: 100},
		{name: "ten hours", hoursOld: 10, expected: 80},
		{name: "one day", hoursOld: 24, expected: 52},
		{name: "clamped at zero", hoursOld: 100, expected: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			score, _ := calculateFreshness(hoursAgo(tc.hoursOld), testNow)
			assert.Equal(t, tc.expected, score)
		})
	}
}

func TestCalculate_ZeroRecordsNeverHigh(t *testing.T) {
	// With no processed records, completeness, ingestion, and validity all
	// collapse to zero: the best reachable score is freshness + source.
	for _, source := range []string{"crm", "api", "scraper", "manual", "unknown"} {
		result := calculateAt(Input{
			LastUpdated:  hoursAgo(0),
			TotalRecords: 0,
			SourceType:   source,
		}, testNow)
		assert.NotEqual(t, models.LevelHigh, result.Level, "source %s", source)
		assert.LessOrEqual(t, result.Score, 50.0, "source %s", source)
	}
}

func TestCalculate_ScoreIsAlwaysBounded(t *testing.T) {
	inputs := []Input{
		{},
		{TotalRecords: -5, FailedRecords: 10},
		{LastUpdated: hoursAgo(10000), TotalRecords: 1, FailedRecords: 100, SourceType: "scraper"},
	}
	for _, in := range inputs {
		result := calculateAt(in, testNow)
		assert.GreaterOrEqual(t, result.Score, 0.0)
		assert.LessOrEqual(t, result.Score, 100.0)
	}
}

// ==========================
// Level Mapping Tests
// ==========================

func TestMapScoreToLevel(t *testing.T) {
	tests := []struct {
		score    float64
		expected models.ConfidenceLevel
	}{
		{100, models.LevelHigh},
		{85, models.LevelHigh},
		{84.99, models.LevelMedium},
		{60, models.LevelMedium},
		{59.99, models.LevelLow},
		{0, models.LevelLow},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, MapScoreToLevel(tc.score), "score %.2f", tc.score)
	}
}

func TestWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, w := range Weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}
