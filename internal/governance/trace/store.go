// internal/governance/trace/store.go
package trace

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"decision-core/internal/common/errors"
	"decision-core/internal/common/logger"
	"decision-core/internal/common/metrics"
	"decision-core/internal/models"
)

// Governance statuses assigned at capture time.
const (
	StatusApproved       = "APPROVED"
	StatusRequiresReview = "REQUIRES_REVIEW"
)

// DefaultReviewThreshold gates snapshots into REQUIRES_REVIEW below it.
const DefaultReviewThreshold = 65.0

// Snapshot is the immutable record frozen per captured recommendation,
// keyed by its trace id. The store exposes no update or delete operation;
// later human judgment lands in decision feedback rows instead.
type Snapshot struct {
	DecisionID   string                 `json:"decisionId"`
	UserID       string                 `json:"userId,omitempty"`
	Persona      string                 `json:"persona"`
	Inputs       map[string]interface{} `json:"inputs"`
	RulesFired   []string               `json:"rulesFired"`
	Weights      map[string]float64     `json:"weights"`
	Confidence   float64                `json:"confidence"`
	Outcome      models.Recommendation  `json:"outcome"`
	Explanation  map[string][]string    `json:"explanation"`
	Status       string                 `json:"status"`
	ModelVersion string                 `json:"modelVersion"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// CaptureParams carries everything needed to freeze one decision.
type CaptureParams struct {
	Decision     models.Recommendation
	UserID       string
	Persona      models.Persona
	Inputs       map[string]interface{}
	RulesFired   []string
	Weights      map[string]float64
	Explanation  map[string][]string
	ModelVersion string
}

// Store persists decision snapshots. Writes are single-row transactional
// inserts; immutability is enforced by omission of any mutation path.
type Store struct {
	db              *sql.DB
	logger          logger.Logger
	reviewThreshold float64
}

func NewStore(db *sql.DB, reviewThreshold float64, log logger.Logger) *Store {
	if reviewThreshold <= 0 {
		reviewThreshold = DefaultReviewThreshold
	}
	return &Store{
		db:              db,
		logger:          log.WithFields(map[string]interface{}{"component": "trace"}),
		reviewThreshold: reviewThreshold,
	}
}

// DetermineStatus gates a decision on its confidence. The threshold itself
// is approved: strictly less than it means review.
func (s *Store) DetermineStatus(confidence float64) string {
	if confidence < s.reviewThreshold {
		return StatusRequiresReview
	}
	return StatusApproved
}

// Capture assembles and persists a snapshot, minting its trace id and
// reassigning the recommendation id to it.
func (s *Store) Capture(ctx context.Context, params CaptureParams) (*Snapshot, error) {
	dtid := GenerateTraceID()

	outcome := params.Decision
	outcome.ID = dtid

	explanation := params.Explanation
	if explanation == nil {
		explanation = map[string][]string{"why": {}, "why_not": {}}
	}
	if _, ok := explanation["why"]; !ok {
		explanation["why"] = []string{}
	}
	if _, ok := explanation["why_not"]; !ok {
		explanation["why_not"] = []string{}
	}

	modelVersion := params.ModelVersion
	if modelVersion == "" {
		modelVersion = "v1.0"
	}

	snapshot := &Snapshot{
		DecisionID:   dtid,
		UserID:       params.UserID,
		Persona:      string(params.Persona),
		Inputs:       params.Inputs,
		RulesFired:   params.RulesFired,
		Weights:      params.Weights,
		Confidence:   float64(params.Decision.Confidence),
		Outcome:      outcome,
		Explanation:  explanation,
		Status:       s.DetermineStatus(float64(params.Decision.Confidence)),
		ModelVersion: modelVersion,
		CreatedAt:    time.Now().UTC(),
	}

	inputsJSON, err := json.Marshal(snapshot.Inputs)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError("decision_snapshots", err)
	}
	rulesJSON, err := json.Marshal(snapshot.RulesFired)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError("decision_snapshots", err)
	}
	weightsJSON, err := json.Marshal(snapshot.Weights)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError("decision_snapshots", err)
	}
	outcomeJSON, err := json.Marshal(snapshot.Outcome)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError("decision_snapshots", err)
	}
	explanationJSON, err := json.Marshal(snapshot.Explanation)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError("decision_snapshots", err)
	}

	query := `INSERT INTO decision_snapshots
		(decision_id, user_id, persona, inputs, rules_fired, weights, confidence, outcome, explanation, status, model_version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	if _, err := s.db.ExecContext(ctx, query,
		snapshot.DecisionID, snapshot.UserID, snapshot.Persona,
		inputsJSON, rulesJSON, weightsJSON, snapshot.Confidence,
		outcomeJSON, explanationJSON, snapshot.Status, snapshot.ModelVersion,
		snapshot.CreatedAt,
	); err != nil {
		s.logger.Error("snapshot insert failed", map[string]interface{}{
			"traceId": dtid,
			"error":   err.Error(),
		})
		return nil, errors.NewDatabaseInsertFailedError("decision_snapshots", err)
	}

	metrics.SnapshotsCaptured.WithLabelValues(snapshot.Status).Inc()
	s.logger.Info("decision snapshot captured", map[string]interface{}{
		"traceId": dtid,
		"status":  snapshot.Status,
		"persona": snapshot.Persona,
	})
	return snapshot, nil
}

// Get looks up a snapshot by trace id. Absent ids report a not-found
// condition rather than failing.
func (s *Store) Get(ctx context.Context, traceID string) (*Snapshot, error) {
	query := `SELECT decision_id, user_id, persona, inputs, rules_fired, weights, confidence, outcome, explanation, status, model_version, created_at
		FROM decision_snapshots WHERE decision_id = $1`

	var (
		snapshot        Snapshot
		userID          sql.NullString
		inputsJSON      []byte
		rulesJSON       []byte
		weightsJSON     []byte
		outcomeJSON     []byte
		explanationJSON []byte
	)

	err := s.db.QueryRowContext(ctx, query, traceID).Scan(
		&snapshot.DecisionID, &userID, &snapshot.Persona,
		&inputsJSON, &rulesJSON, &weightsJSON, &snapshot.Confidence,
		&outcomeJSON, &explanationJSON, &snapshot.Status,
		&snapshot.ModelVersion, &snapshot.CreatedAt,
	)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewSnapshotNotFoundError(traceID)
		}
		return nil, errors.NewQueryExecutionFailedError("snapshot_get", err)
	}

	snapshot.UserID = userID.String
	if err := json.Unmarshal(inputsJSON, &snapshot.Inputs); err != nil {
		return nil, errors.NewQueryExecutionFailedError("snapshot_get", err)
	}
	if err := json.Unmarshal(rulesJSON, &snapshot.RulesFired); err != nil {
		return nil, errors.NewQueryExecutionFailedError("snapshot_get", err)
	}
	if err := json.Unmarshal(weightsJSON, &snapshot.Weights); err != nil {
		return nil, errors.NewQueryExecutionFailedError("snapshot_get", err)
	}
	if err := json.Unmarshal(outcomeJSON, &snapshot.Outcome); err != nil {
		return nil, errors.NewQueryExecutionFailedError("snapshot_get", err)
	}
	if err := json.Unmarshal(explanationJSON, &snapshot.Explanation); err != nil {
		return nil, errors.NewQueryExecutionFailedError("snapshot_get", err)
	}

	return &snapshot, nil
}
