// internal/decision/confidence/scorer.go

// Package confidence turns operational sub-signals into a single bounded
// trust score with a categorical level and a rendered explanation. Every
// function here is total: missing or invalid input degrades the affected
// sub-score toward zero instead of failing the computation.
package confidence

import (
	"fmt"
	"math"
	"strings"
	"time"

	"decision-core/internal/decision/explain"
	"decision-core/internal/models"
)

// Fixed signal weights; they sum to 1.0.
var Weights = map[string]float64{
	"freshness":    0.35,
	"completeness": 0.25,
	"ingestion":    0.15,
	"source":       0.15,
	"validity":     0.10,
}

// DecayRatePerHour controls how fast freshness erodes.
const DecayRatePerHour = 2.0

// SourceTrust is the fixed per-source reliability table. Unknown sources
// score 50.
var SourceTrust = map[string]float64{
	"crm":     100,
	"api":     90,
	"scraper": 60,
	"manual":  70,
}

const unknownSourceTrust = 50

// Input carries the aggregated signal state for one evaluation.
// LastUpdated is nil when no ingestion run has ever completed.
type Input struct {
	LastUpdated   *time.Time
	TotalRecords  int
	FailedRecords int
	SourceType    string
}

// Score is the full confidence evaluation result. It is derived fresh on
// each call and only persisted embedded in a snapshot or audit entry.
type Score struct {
	Score              float64                `json:"score"`
	Level              models.ConfidenceLevel `json:"level"`
	Signals            []models.Signal        `json:"signals"`
	Metrics            map[string]float64     `json:"metrics"`
	ExplanationSummary string                 `json:"explanationSummary"`
	ExplanationDetails []string               `json:"explanationDetails"`
	DecisionGuidance   string                 `json:"decisionGuidance"`
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// MapScoreToLevel maps a bounded score onto its categorical band.
func MapScoreToLevel(score float64) models.ConfidenceLevel {
	switch {
	case score >= 85:
		return models.LevelHigh
	case score >= 60:
		return models.LevelMedium
	default:
		return models.LevelLow
	}
}

func calculateFreshness(lastUpdated *time.Time, now time.Time) (float64, string) {
	if lastUpdated == nil {
		return 0, "Data timestamp is missing."
	}
	hours := now.Sub(*lastUpdated).Hours()
	score := clamp(100 - hours*DecayRatePerHour)
	switch {
	case score >= 100:
		return score, "Data is up-to-date."
	case score >= 50:
		return score, fmt.Sprintf("Data is %d hours old.", int(hours))
	default:
		return score, fmt.Sprintf("Data is stale (%d hours old).", int(hours))
	}
}

func calculateCompleteness(total, failed int) (float64, string) {
	if total <= 0 {
		return 0, "No records processed."
	}
	score := clamp(float64(total-failed) / float64(total) * 100)
	switch {
	case score >= 100:
		return score, "Records are complete."
	case score >= 70:
		return score, fmt.Sprintf("%d missing/failed records.", failed)
	default:
		return score, "Critical information is missing from many leads."
	}
}

// Ingestion health currently mirrors completeness. Kept as observed in the
// upstream system; see the open question log before changing it.
func calculateIngestionHealth(completeness float64) (float64, string) {
	if completeness > 90 {
		return completeness, "Pipeline is healthy."
	}
	return completeness, "Pipeline encountered errors."
}

func calculateSourceReliability(sourceType string) (float64, string) {
	score, ok := SourceTrust[sourceType]
	if !ok {
		score = unknownSourceTrust
	}
	status := strings.ToLower(string(MapScoreToLevel(score)))
	return score, fmt.Sprintf("Source '%s' is %s.", sourceType, status)
}

func calculateValidity(ingestion float64) (float64, string) {
	score := math.Max(0, ingestion-5)
	if score > 90 {
		return score, "Data format is valid."
	}
	return score, "Potential anomalies detected."
}

// Calculate evaluates the confidence score for the given signal state.
func Calculate(in Input) Score {
	return calculateAt(in, time.Now().UTC())
}

func calculateAt(in Input, now time.Time) Score {
	freshness, freshnessMsg := calculateFreshness(in.LastUpdated, now)
	completeness, completenessMsg := calculateCompleteness(in.TotalRecords, in.FailedRecords)
	ingestion, ingestionMsg := calculateIngestionHealth(completeness)
	source, sourceMsg := calculateSourceReliability(in.SourceType)
	validity, validityMsg := calculateValidity(ingestion)

	final := freshness*Weights["freshness"] +
		completeness*Weights["completeness"] +
		ingestion*Weights["ingestion"] +
		source*Weights["source"] +
		validity*Weights["validity"]

	signals := []models.Signal{
		{Component: "Data Freshness", Status: MapScoreToLevel(freshness), Message: freshnessMsg},
		{Component: "Data Completeness", Status: MapScoreToLevel(completeness), Message: completenessMsg},
		{Component: "Ingestion Health", Status: MapScoreToLevel(ingestion), Message: ingestionMsg},
		{Component: "Source Reliability", Status: MapScoreToLevel(source), Message: sourceMsg},
		{Component: "Data Validity", Status: MapScoreToLevel(validity), Message: validityMsg},
	}

	level := MapScoreToLevel(final)
	explanation := explain.Generate(final, level, signals)

	return Score{
		Score:   math.Round(final*10) / 10,
		Level:   level,
		Signals: signals,
		Metrics: map[string]float64{
			"freshness_score":    freshness,
			"completeness_score": completeness,
			"ingestion_score":    ingestion,
			"source_score":       source,
			"validity_score":     validity,
		},
		ExplanationSummary: explanation.Summary,
		ExplanationDetails: explanation.Details,
		DecisionGuidance:   explanation.DecisionGuidance,
	}
}
