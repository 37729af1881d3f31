// internal/ingestion/registry.go

// Package ingestion tracks the outcome of the most recent data ingestion run.
package ingestion

import (
	"sync"
	"time"

	"decision-core/internal/models"
)

// Registry holds the last ingestion summary. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	last   models.IngestionSummary
	hasRun bool
}

func NewRegistry() *Registry {
	return &Registry{}
}

// RecordRun stores the summary of a completed ingestion run.
func (r *Registry) RecordRun(summary models.IngestionSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = summary
	r.hasRun = true
}

// LastSummary returns the most recent run. The second return is false when
// no run has been recorded yet; callers then score freshness and ingestion
// health from a zero-value summary.
func (r *Registry) LastSummary() (models.IngestionSummary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last, r.hasRun
}

// LastUpdated returns the end time of the last run, or nil before any run.
func (r *Registry) LastUpdated() *time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.hasRun {
		return nil
	}
	t := r.last.EndTime
	return &t
}
