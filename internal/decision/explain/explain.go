// internal/decision/explain/explain.go

// Package explain renders scores and signals into ordered, human-readable
// explanation text and decision guidance. It is independent of which scorer
// produced the numbers.
package explain

import (
	"fmt"
	"sort"

	"decision-core/internal/models"
)

// Explanation is the rendered output attached to every confidence score
// and decision snapshot.
type Explanation struct {
	Summary          string   `json:"summary"`
	Details          []string `json:"details"`
	DecisionGuidance string   `json:"decisionGuidance"`
}

// signalPriority triages signals so the worst drivers surface first.
func signalPriority(status models.ConfidenceLevel) int {
	switch status {
	case models.LevelLow:
		return 0
	case models.LevelMedium:
		return 1
	default:
		return 2
	}
}

// Generate produces a summary, the top triaged driver details, and decision
// guidance for a confidence evaluation. It is a pure function.
func Generate(score float64, level models.ConfidenceLevel, signals []models.Signal) Explanation {
	var summary string
	switch level {
	case models.LevelHigh:
		summary = "Confidence is High. The system's data is fresh, complete, and reliable, supporting strategic decisions."
	case models.LevelMedium:
		summary = "Confidence is Medium. Core operations are safe, but strategic decisions require manual verification due to minor data quality issues."
	default:
		summary = "Confidence is Low. It is recommended to pause high-stakes decisions until data health is restored."
	}

	sorted := make([]models.Signal, len(signals))
	copy(sorted, signals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return signalPriority(sorted[i].Status) < signalPriority(sorted[j].Status)
	})

	var details []string
	limit := len(sorted)
	if limit > 3 {
		limit = 3
	}
	for _, signal := range sorted[:limit] {
		switch signal.Status {
		case models.LevelLow:
			details = append(details, fmt.Sprintf("%s is CRITICAL: %s This significantly impacts data reliability.", signal.Component, signal.Message))
		case models.LevelMedium:
			details = append(details, fmt.Sprintf("%s is a WARNING: %s This may affect the accuracy of some metrics.", signal.Component, signal.Message))
		}
	}
	if len(details) == 0 && len(sorted) > 0 {
		details = append(details, "All drivers are GOOD: data is fresh, complete, and sourced from reliable channels.")
	}

	var guidance string
	switch level {
	case models.LevelHigh:
		guidance = "Proceed as planned. System is operating at full reliability."
	case models.LevelMedium:
		guidance = "Review recommended. Manual verification advised for high-stakes decisions."
	default:
		guidance = "Action blocked until resolved. Data is not reliable for decision-making."
	}

	return Explanation{
		Summary:          summary,
		Details:          details,
		DecisionGuidance: guidance,
	}
}

// ForSnapshot renders the why/why_not structure frozen into a decision
// snapshot. "why" carries the drivers supporting the decision; "why_not"
// stays empty until the engine reports rejected alternatives.
func ForSnapshot(rationale string, signals []models.Signal) map[string][]string {
	why := make([]string, 0, len(signals)+1)
	if rationale != "" {
		why = append(why, rationale)
	}
	for _, s := range signals {
		why = append(why, fmt.Sprintf("%s: %s", s.Component, s.Message))
	}
	return map[string][]string{
		"why":     why,
		"why_not": {},
	}
}
