// internal/learning/service.go

// Package learning records human feedback on recommendations and derives
// advisory signals from the accumulated verdicts. Signals are reported,
// never applied to live weights.
package learning

import (
	"context"
	"database/sql"
	"math"
	"time"

	"decision-core/internal/common/cache"
	"decision-core/internal/common/errors"
	"decision-core/internal/common/logger"

	"github.com/google/uuid"
)

// Service persists feedback and derives learning reports.
type Service struct {
	db            *sql.DB
	cache         cache.Cache
	biasThreshold float64
	logger        logger.Logger
}

func NewService(db *sql.DB, c cache.Cache, biasThreshold float64, log logger.Logger) *Service {
	if biasThreshold <= 0 || biasThreshold > 1 {
		biasThreshold = 0.65
	}
	return &Service{
		db:            db,
		cache:         c,
		biasThreshold: biasThreshold,
		logger:        log.WithFields(map[string]interface{}{"component": "learning"}),
	}
}

func validDecision(d string) bool {
	switch d {
	case DecisionApproved, DecisionRejected, DecisionOverridden:
		return true
	}
	return false
}

func validOutcome(o string) bool {
	switch o {
	case "", OutcomeSuccess, OutcomeFailure, OutcomeUnknown:
		return true
	}
	return false
}

// RecordFeedback validates and stores one verdict, derives its learning
// signal, and invalidates cached reads. The stored signal never mutates live
// scoring weights.
func (s *Service) RecordFeedback(ctx context.Context, fb Feedback) (*Feedback, *Signal, error) {
	if !validDecision(fb.Decision) {
		return nil, nil, errors.NewInvalidFeedbackActionError(fb.Decision)
	}
	if !validOutcome(fb.Outcome) {
		return nil, nil, errors.NewInvalidFeedbackOutcomeError(fb.Outcome)
	}
	if fb.Outcome == "" {
		fb.Outcome = OutcomeUnknown
	}

	fb.ID = uuid.NewString()
	fb.CreatedAt = time.Now().UTC()

	signal := DeriveSignal(fb)

	query := `INSERT INTO recommendation_feedback
		(id, recommendation_id, recommendation_title, persona, decision, outcome, reason, signal_delta, signal_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if _, err := s.db.ExecContext(ctx, query,
		fb.ID, fb.RecommendationID, fb.RecommendationTitle, fb.Persona,
		fb.Decision, fb.Outcome, fb.Reason, signal.Delta, signal.Reason, fb.CreatedAt,
	); err != nil {
		s.logger.Error("feedback insert failed", map[string]interface{}{
			"recommendationId": fb.RecommendationID,
			"error":            err.Error(),
		})
		return nil, nil, errors.NewDatabaseInsertFailedError("recommendation_feedback", err)
	}

	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("cache invalidation after feedback failed", map[string]interface{}{
			"feedbackId": fb.ID,
			"error":      err.Error(),
		})
	}

	s.logger.Info("feedback recorded", map[string]interface{}{
		"feedbackId": fb.ID,
		"decision":   fb.Decision,
		"delta":      signal.Delta,
	})
	return &fb, &signal, nil
}

// SignalHistory returns the most recent derived signals, newest first.
func (s *Service) SignalHistory(ctx context.Context, limit int) ([]Signal, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT id, recommendation_title, persona, signal_delta, signal_reason, created_at
		FROM recommendation_feedback
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("signal_history", err)
	}
	defer rows.Close()

	signals := make([]Signal, 0, limit)
	for rows.Next() {
		var sig Signal
		if err := rows.Scan(&sig.FeedbackID, &sig.RecommendationTitle, &sig.Persona, &sig.Delta, &sig.Reason, &sig.CreatedAt); err != nil {
			return nil, errors.NewQueryExecutionFailedError("signal_history", err)
		}
		signals = append(signals, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("signal_history", err)
	}
	return signals, nil
}

// AnalyzeBias groups feedback by persona and flags personas whose rejection
// rate strictly exceeds the configured threshold. A persona sitting exactly
// on the threshold is not flagged.
func (s *Service) AnalyzeBias(ctx context.Context) (*BiasReport, error) {
	query := `SELECT persona,
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE decision = 'rejected') AS rejected
		FROM recommendation_feedback
		GROUP BY persona
		ORDER BY persona`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("bias_report", err)
	}
	defer rows.Close()

	report := &BiasReport{
		Threshold:      s.biasThreshold,
		Personas:       make([]PersonaBias, 0),
		BiasedPersonas: make([]string, 0),
		GeneratedAt:    time.Now().UTC(),
	}

	var totalAll, rejectedAll int
	for rows.Next() {
		var pb PersonaBias
		if err := rows.Scan(&pb.Persona, &pb.TotalFeedback, &pb.Rejected); err != nil {
			return nil, errors.NewQueryExecutionFailedError("bias_report", err)
		}
		if pb.TotalFeedback > 0 {
			pb.RejectionRate = round2(float64(pb.Rejected) / float64(pb.TotalFeedback))
		}
		pb.Biased = pb.RejectionRate > s.biasThreshold
		if pb.Biased {
			report.BiasDetected = true
			report.BiasedPersonas = append(report.BiasedPersonas, pb.Persona)
		}
		totalAll += pb.TotalFeedback
		rejectedAll += pb.Rejected
		report.Personas = append(report.Personas, pb)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("bias_report", err)
	}

	report.TotalFeedback = totalAll
	if totalAll > 0 {
		report.RejectionRate = round2(float64(rejectedAll) / float64(totalAll) * 100)
	}
	report.DriftLevel = ClassifyDrift(report.RejectionRate)
	return report, nil
}

// AnalyzeDrift classifies the overall rejection rate across all stored
// feedback. A population that has always rejected everything is high drift;
// the measure is the rate itself, not a change over time.
func (s *Service) AnalyzeDrift(ctx context.Context) (*DriftReport, error) {
	query := `SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE decision = 'rejected') AS rejected
		FROM recommendation_feedback`

	var total, rejected int
	if err := s.db.QueryRowContext(ctx, query).Scan(&total, &rejected); err != nil {
		return nil, errors.NewQueryExecutionFailedError("drift_report", err)
	}

	report := &DriftReport{
		TotalFeedback: total,
		Rejected:      rejected,
		GeneratedAt:   time.Now().UTC(),
	}
	if total > 0 {
		report.RejectionRate = round2(float64(rejected) / float64(total) * 100)
	}
	report.Level = ClassifyDrift(report.RejectionRate)
	return report, nil
}

// ClassifyDrift maps an overall rejection rate, in percent, to a drift level.
func ClassifyDrift(rejectionRate float64) string {
	switch {
	case rejectionRate < 20:
		return DriftLow
	case rejectionRate <= 50:
		return DriftMedium
	default:
		return DriftHigh
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
