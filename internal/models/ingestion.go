// internal/models/ingestion.go
package models

import "time"

// Source run outcomes.
const (
	SourceStatusSuccess = "success"
	SourceStatusFailed  = "failure"
)

// SourceResult reports a single ingestion source outcome.
type SourceResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// IngestionSummary describes the last ingestion run. A zero-value summary
// (no run yet) is valid input everywhere; consumers treat it as empty.
type IngestionSummary struct {
	StartTime      time.Time      `json:"startTime"`
	EndTime        time.Time      `json:"endTime"`
	TotalProcessed int            `json:"totalProcessed"`
	TotalFailed    int            `json:"totalFailed"`
	Sources        []SourceResult `json:"sources"`
}

// PrimarySource returns the name of the first reporting source, or "" when
// no run has happened yet.
func (s IngestionSummary) PrimarySource() string {
	if len(s.Sources) == 0 {
		return ""
	}
	return s.Sources[0].Name
}
