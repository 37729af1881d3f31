// internal/leads/quality.go
package leads

import (
	"fmt"
	"math"

	"decision-core/internal/models"

	"github.com/montanaflynn/stats"
)

// Completeness fields. Required fields raise warnings when missing; optional
// fields only lower the completeness ratio.
var (
	requiredFields = []string{"name", "phone", "source", "status"}
	fieldTotal     = float64(len(requiredFields) + 3) // + email, budget, notes
)

// QualityReport summarizes dataset completeness and how much the dataset can
// be trusted for downstream scoring.
type QualityReport struct {
	TotalLeads      int      `json:"total_leads"`
	AvgCompleteness float64  `json:"avg_completeness"`
	ConfidenceLevel string   `json:"confidence_level"`
	Warnings        []string `json:"warnings"`
}

// LeadCompleteness scores one lead's field coverage in [0, 1].
func LeadCompleteness(lead models.Lead) float64 {
	filled := 0.0
	if lead.Name != "" {
		filled++
	}
	if lead.Phone != "" {
		filled++
	}
	if lead.Source != "" {
		filled++
	}
	if lead.Status != "" {
		filled++
	}
	if lead.Email != nil && *lead.Email != "" {
		filled++
	}
	if lead.Budget != nil {
		filled++
	}
	if lead.Notes != nil && *lead.Notes != "" {
		filled++
	}
	return filled / fieldTotal
}

// AnalyzeQuality computes the dataset-level quality report. Confidence in the
// dataset needs both volume and completeness: a large sparse dataset or a
// tiny complete one both cap out at Medium.
func AnalyzeQuality(all []models.Lead) QualityReport {
	total := len(all)
	if total == 0 {
		return QualityReport{
			ConfidenceLevel: "Low",
			Warnings:        []string{"No data available to analyze."},
		}
	}

	scores := make([]float64, 0, total)
	missing := map[string]int{}
	for _, lead := range all {
		scores = append(scores, LeadCompleteness(lead))
		if lead.Name == "" {
			missing["name"]++
		}
		if lead.Phone == "" {
			missing["phone"]++
		}
		if lead.Source == "" {
			missing["source"]++
		}
		if lead.Status == "" {
			missing["status"]++
		}
	}

	mean, err := stats.Mean(scores)
	if err != nil {
		mean = 0
	}
	avg := math.Round(mean*100*100) / 100

	var level string
	switch {
	case total >= 30 && avg >= 80:
		level = "High"
	case total >= 10 || avg >= 50:
		level = "Medium"
	default:
		level = "Low"
	}

	warnings := make([]string, 0)
	switch level {
	case "Low":
		warnings = append(warnings, "Confidence is Low due to a small dataset size and/or low data completeness.")
	case "Medium":
		warnings = append(warnings, "Confidence is Medium. Improve data entry to increase reliability.")
	}
	for _, field := range requiredFields {
		if count := missing[field]; count > 0 {
			warnings = append(warnings, fmt.Sprintf("Critical field '%s' is missing in %d lead(s).", field, count))
		}
	}

	return QualityReport{
		TotalLeads:      total,
		AvgCompleteness: avg,
		ConfidenceLevel: level,
		Warnings:        warnings,
	}
}
