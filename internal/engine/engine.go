// internal/engine/engine.go

// Package engine composes the scoring, governance, alerting, and learning
// services behind one facade. Every externally triggered evaluation flows
// through here so the audit mirror and metrics stay consistent across entry
// points.
package engine

import (
	"context"
	"time"

	"decision-core/internal/alerts"
	"decision-core/internal/common/cache"
	"decision-core/internal/common/errors"
	"decision-core/internal/common/logger"
	"decision-core/internal/common/metrics"
	"decision-core/internal/common/observability"
	"decision-core/internal/decision/confidence"
	"decision-core/internal/decision/explain"
	"decision-core/internal/decision/risk"
	"decision-core/internal/governance/audit"
	"decision-core/internal/governance/trace"
	"decision-core/internal/ingestion"
	"decision-core/internal/leads"
	"decision-core/internal/learning"
	"decision-core/internal/models"
)

// AuditLog is the ledger surface the engine writes through.
type AuditLog interface {
	Append(ctx context.Context, event audit.Event) (*audit.Entry, error)
	Query(ctx context.Context, filter audit.Filter) ([]audit.Entry, error)
	LogRiskCalculation(ctx context.Context, persona string, inputs map[string]interface{}, score float64, traceID string) (*audit.Entry, error)
	LogDecisionGenerated(ctx context.Context, persona string, recs []models.Recommendation, traceID string) (*audit.Entry, error)
	LogAlertCreation(ctx context.Context, alertType, severity, message string) (*audit.Entry, error)
	LogSnapshotCaptured(ctx context.Context, traceID, persona, status string, confidence float64) (*audit.Entry, error)
	LogFeedbackRecorded(ctx context.Context, persona, recommendationID, decision, reason string) (*audit.Entry, error)
	LogCacheCleared(ctx context.Context, actor string) (*audit.Entry, error)
}

// SnapshotStore is the immutable decision snapshot surface.
type SnapshotStore interface {
	Capture(ctx context.Context, params trace.CaptureParams) (*trace.Snapshot, error)
	Get(ctx context.Context, traceID string) (*trace.Snapshot, error)
	DetermineStatus(confidence float64) string
}

// FeedbackService is the learning surface.
type FeedbackService interface {
	RecordFeedback(ctx context.Context, fb learning.Feedback) (*learning.Feedback, *learning.Signal, error)
	SignalHistory(ctx context.Context, limit int) ([]learning.Signal, error)
	AnalyzeBias(ctx context.Context) (*learning.BiasReport, error)
	AnalyzeDrift(ctx context.Context) (*learning.DriftReport, error)
}

// Engine is the decision intelligence facade.
type Engine struct {
	leadStore    leads.Store
	ingest       *ingestion.Registry
	snapshots    SnapshotStore
	audit        AuditLog
	feedback     FeedbackService
	cache        cache.Cache
	obs          *observability.Observability
	alertCfg     alerts.Config
	modelVersion string
	logger       logger.Logger
}

type Deps struct {
	LeadStore    leads.Store
	Ingestion    *ingestion.Registry
	Snapshots    SnapshotStore
	Audit        AuditLog
	Feedback     FeedbackService
	Cache        cache.Cache
	Obs          *observability.Observability
	AlertConfig  alerts.Config
	ModelVersion string
	Logger       logger.Logger
}

func New(deps Deps) *Engine {
	return &Engine{
		leadStore:    deps.LeadStore,
		ingest:       deps.Ingestion,
		snapshots:    deps.Snapshots,
		audit:        deps.Audit,
		feedback:     deps.Feedback,
		cache:        deps.Cache,
		obs:          deps.Obs,
		alertCfg:     deps.AlertConfig,
		modelVersion: deps.ModelVersion,
		logger:       deps.Logger.WithFields(map[string]interface{}{"component": "engine"}),
	}
}

func (e *Engine) observe(ctx context.Context, operation string, start time.Time, err error) {
	duration := time.Since(start)
	metrics.DecisionEvaluations.WithLabelValues(operation).Inc()
	metrics.EvaluationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if e.obs != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		e.obs.RecordEvaluation(ctx, operation, status)
		e.obs.RecordEvaluationDuration(ctx, operation, duration)
	}
}

// EvaluateConfidence scores the trustworthiness of the current dataset from
// the last ingestion run.
func (e *Engine) EvaluateConfidence(ctx context.Context) (confidence.Score, error) {
	start := time.Now()
	summary, _ := e.ingest.LastSummary()
	score := confidence.Calculate(confidence.Input{
		LastUpdated:   e.ingest.LastUpdated(),
		TotalRecords:  summary.TotalProcessed,
		FailedRecords: summary.TotalFailed,
		SourceType:    summary.PrimarySource(),
	})
	e.observe(ctx, "confidence", start, nil)
	return score, nil
}

// RecommendationResult bundles everything one recommendation evaluation
// produced, including the context needed to later snapshot a decision.
type RecommendationResult struct {
	Persona         models.Persona          `json:"persona"`
	RiskScore       int                     `json:"risk_score"`
	Confidence      confidence.Score        `json:"confidence"`
	Metrics         map[string]float64      `json:"metrics"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

// EvaluateRecommendations runs the full advisory pipeline for one persona:
// key metrics, risk score, recommendation generation, persona filtering, and
// the audit mirror. When the audit write fails the computed result is still
// returned alongside the error so callers can degrade to advisory-only mode.
func (e *Engine) EvaluateRecommendations(ctx context.Context, persona models.Persona) (*RecommendationResult, error) {
	start := time.Now()

	all, err := e.leadStore.GetAll(ctx)
	if err != nil {
		e.observe(ctx, "recommendations", start, err)
		return nil, err
	}

	keyMetrics := leads.KeyMetrics(all)
	riskScore := risk.Score(keyMetrics)
	conf, _ := e.EvaluateConfidence(ctx)

	generated := risk.Generate(riskScore, conf.Score, keyMetrics[risk.MetricCompleteness])
	filtered := risk.FilterByPersona(generated, persona)

	result := &RecommendationResult{
		Persona:         persona,
		RiskScore:       riskScore,
		Confidence:      conf,
		Metrics:         keyMetrics,
		Recommendations: filtered,
	}

	inputs := make(map[string]interface{}, len(keyMetrics))
	for k, v := range keyMetrics {
		inputs[k] = v
	}
	if _, err := e.audit.LogRiskCalculation(ctx, string(persona), inputs, float64(riskScore), ""); err != nil {
		e.observe(ctx, "recommendations", start, err)
		return result, err
	}
	if _, err := e.audit.LogDecisionGenerated(ctx, string(persona), filtered, ""); err != nil {
		e.observe(ctx, "recommendations", start, err)
		return result, err
	}

	e.observe(ctx, "recommendations", start, nil)
	return result, nil
}

// CaptureDecision freezes one recommendation into an immutable snapshot and
// mirrors the capture into the audit log.
func (e *Engine) CaptureDecision(ctx context.Context, decision models.Recommendation, userID string, persona models.Persona, result *RecommendationResult) (*trace.Snapshot, error) {
	start := time.Now()

	inputs := map[string]interface{}{}
	var rulesFired []string
	explanation := map[string][]string{"why": {}, "why_not": {}}
	if result != nil {
		for k, v := range result.Metrics {
			inputs[k] = v
		}
		inputs["risk_score"] = result.RiskScore
		for _, rec := range result.Recommendations {
			rulesFired = append(rulesFired, rec.Title)
		}
		explanation = explain.ForSnapshot(decision.Rationale, result.Confidence.Signals)
	}

	snapshot, err := e.snapshots.Capture(ctx, trace.CaptureParams{
		Decision:     decision,
		UserID:       userID,
		Persona:      persona,
		Inputs:       inputs,
		RulesFired:   rulesFired,
		Weights:      risk.Weights,
		Explanation:  explanation,
		ModelVersion: e.modelVersion,
	})
	if err != nil {
		e.observe(ctx, "snapshot", start, err)
		return nil, err
	}

	if _, err := e.audit.LogSnapshotCaptured(ctx, snapshot.DecisionID, string(persona), snapshot.Status, snapshot.Confidence); err != nil {
		e.observe(ctx, "snapshot", start, err)
		return snapshot, err
	}

	e.observe(ctx, "snapshot", start, nil)
	return snapshot, nil
}

// GetDecision retrieves a snapshot by its trace id.
func (e *Engine) GetDecision(ctx context.Context, traceID string) (*trace.Snapshot, error) {
	return e.snapshots.Get(ctx, traceID)
}

// AppendAudit exposes the raw ledger append.
func (e *Engine) AppendAudit(ctx context.Context, event audit.Event) (*audit.Entry, error) {
	return e.audit.Append(ctx, event)
}

// QueryAudit exposes the filtered ledger read.
func (e *Engine) QueryAudit(ctx context.Context, filter audit.Filter) ([]audit.Entry, error) {
	return e.audit.Query(ctx, filter)
}

// EvaluateAlerts assembles system state from the lead store and ingestion
// registry, runs the rule table, and mirrors each fired alert into the audit
// log.
func (e *Engine) EvaluateAlerts(ctx context.Context) ([]alerts.Alert, error) {
	start := time.Now()
	now := time.Now().UTC()

	state := alerts.State{
		LastUpdatedAt: e.ingest.LastUpdated(),
	}
	if summary, ok := e.ingest.LastSummary(); ok {
		state.Ingestion = &summary
	}
	if all, err := e.leadStore.GetAll(ctx); err == nil {
		quality := leads.AnalyzeQuality(all)
		state.AvgCompleteness = &quality.AvgCompleteness
	}
	if conf, err := e.EvaluateConfidence(ctx); err == nil {
		state.InsightConfidence = &conf.Score
	}

	fired := alerts.Evaluate(state, e.alertCfg, now)
	for _, alert := range fired {
		if _, err := e.audit.LogAlertCreation(ctx, alert.Type, alert.Severity, alert.Message); err != nil {
			e.observe(ctx, "alerts", start, err)
			return fired, err
		}
	}

	e.observe(ctx, "alerts", start, nil)
	return fired, nil
}

// RecordFeedback stores a human verdict and mirrors it into the audit log.
func (e *Engine) RecordFeedback(ctx context.Context, fb learning.Feedback) (*learning.Feedback, *learning.Signal, error) {
	stored, signal, err := e.feedback.RecordFeedback(ctx, fb)
	if err != nil {
		return nil, nil, err
	}
	if _, err := e.audit.LogFeedbackRecorded(ctx, stored.Persona, stored.RecommendationID, stored.Decision, stored.Reason); err != nil {
		return stored, signal, err
	}
	return stored, signal, nil
}

// SignalHistory returns recent derived learning signals.
func (e *Engine) SignalHistory(ctx context.Context, limit int) ([]learning.Signal, error) {
	return e.feedback.SignalHistory(ctx, limit)
}

// AnalyzeBias returns the persona rejection-rate report.
func (e *Engine) AnalyzeBias(ctx context.Context) (*learning.BiasReport, error) {
	return e.feedback.AnalyzeBias(ctx)
}

// AnalyzeDrift returns the rejection-rate drift report.
func (e *Engine) AnalyzeDrift(ctx context.Context) (*learning.DriftReport, error) {
	return e.feedback.AnalyzeDrift(ctx)
}

// ClearCache drops all cached reads and records the administrative action.
func (e *Engine) ClearCache(ctx context.Context, actor string) error {
	if err := e.cache.Clear(ctx); err != nil {
		return errors.NewCacheClearFailedError(err)
	}
	if _, err := e.audit.LogCacheCleared(ctx, actor); err != nil {
		return err
	}
	e.logger.Info("cache cleared", map[string]interface{}{"actor": actor})
	return nil
}
