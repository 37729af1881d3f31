// internal/governance/audit/service.go

// Package audit maintains the append-only governance ledger. Every scoring,
// alerting, override, and feedback event lands here; every append
// invalidates the shared cache so no read path serves a pre-write view.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"decision-core/internal/common/cache"
	"decision-core/internal/common/errors"
	"decision-core/internal/common/logger"
	"decision-core/internal/common/metrics"

	"github.com/google/uuid"
)

const (
	defaultActor = "system"
	defaultLimit = 100
	maxLimit     = 1000
)

// Service persists and queries audit log entries.
type Service struct {
	db       *sql.DB
	cache    cache.Cache
	queryTTL time.Duration
	logger   logger.Logger
}

func NewService(db *sql.DB, c cache.Cache, queryTTL time.Duration, log logger.Logger) *Service {
	if queryTTL <= 0 {
		queryTTL = time.Minute
	}
	return &Service{
		db:       db,
		cache:    c,
		queryTTL: queryTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "audit"}),
	}
}

// Append validates, persists, and returns one audit entry, assigning the
// event id and server timestamp. The whole cache is invalidated afterwards:
// the ledger is the source of truth for every cached read path.
func (s *Service) Append(ctx context.Context, event Event) (*Entry, error) {
	if strings.TrimSpace(event.EventType) == "" {
		return nil, errors.NewInvalidAuditEventError("event_type is required")
	}
	if event.Decision == nil {
		return nil, errors.NewInvalidAuditEventError("decision payload is required")
	}

	actor := event.Actor
	if actor == "" {
		actor = defaultActor
	}

	entry := &Entry{
		EventID:           uuid.NewString(),
		EventType:         event.EventType,
		EntityType:        event.EntityType,
		EntityID:          event.EntityID,
		Actor:             actor,
		Persona:           event.Persona,
		Timestamp:         time.Now().UTC(),
		Inputs:            event.Inputs,
		Decision:          event.Decision,
		Confidence:        event.Confidence,
		ExplainabilityRef: event.ExplainabilityRef,
	}

	var inputsJSON []byte
	if entry.Inputs != nil {
		var err error
		inputsJSON, err = json.Marshal(entry.Inputs)
		if err != nil {
			return nil, errors.NewInvalidAuditEventError(fmt.Sprintf("inputs not serializable: %v", err))
		}
	}
	decisionJSON, err := json.Marshal(entry.Decision)
	if err != nil {
		return nil, errors.NewInvalidAuditEventError(fmt.Sprintf("decision not serializable: %v", err))
	}

	query := `INSERT INTO audit_logs
		(event_id, event_type, entity_type, entity_id, actor, persona, timestamp, inputs, decision, confidence, explainability_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	err = s.db.QueryRowContext(ctx, query,
		entry.EventID, entry.EventType, nullString(entry.EntityType), entry.EntityID,
		entry.Actor, nullString(entry.Persona), entry.Timestamp,
		nullBytes(inputsJSON), decisionJSON, entry.Confidence,
		nullString(entry.ExplainabilityRef),
	).Scan(&entry.ID)
	if err != nil {
		s.logger.Error("audit append failed", map[string]interface{}{
			"eventType": entry.EventType,
			"error":     err.Error(),
		})
		return nil, errors.NewDatabaseInsertFailedError("audit_logs", err)
	}

	if err := s.cache.Clear(ctx); err != nil {
		// The write committed; a stuck invalidation only delays freshness.
		s.logger.Warn("cache invalidation after audit append failed", map[string]interface{}{
			"eventId": entry.EventID,
			"error":   err.Error(),
		})
	}

	metrics.AuditEventsAppended.WithLabelValues(entry.EventType).Inc()
	return entry, nil
}

// Query retrieves audit entries newest-first under the given filter. This
// read path is cache-eligible: audit volume is read-heavy relative to write
// frequency, and every append clears the cache anyway.
func (s *Service) Query(ctx context.Context, filter Filter) ([]Entry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	key := cache.Key("audit.query",
		filter.EventType, filter.Persona, derefInt(filter.EntityID),
		derefTime(filter.StartTime), derefTime(filter.EndTime),
		filter.Offset, limit,
	)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached []Entry
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	query := strings.Builder{}
	query.WriteString(`SELECT id, event_id, event_type, entity_type, entity_id, actor, persona, timestamp, inputs, decision, confidence, explainability_ref, event_hash
		FROM audit_logs`)

	var (
		conditions []string
		args       []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.EventType != "" {
		conditions = append(conditions, "event_type = "+arg(filter.EventType))
	}
	if filter.Persona != "" {
		conditions = append(conditions, "persona = "+arg(filter.Persona))
	}
	if filter.EntityID != nil {
		conditions = append(conditions, "entity_id = "+arg(*filter.EntityID))
	}
	if filter.StartTime != nil {
		conditions = append(conditions, "timestamp >= "+arg(*filter.StartTime))
	}
	if filter.EndTime != nil {
		conditions = append(conditions, "timestamp <= "+arg(*filter.EndTime))
	}
	if len(conditions) > 0 {
		query.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	query.WriteString(" ORDER BY timestamp DESC")
	query.WriteString(" OFFSET " + arg(filter.Offset))
	query.WriteString(" LIMIT " + arg(limit))

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("audit_query", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			entry             Entry
			entityType        sql.NullString
			persona           sql.NullString
			inputsJSON        []byte
			decisionJSON      []byte
			explainabilityRef sql.NullString
			eventHash         sql.NullString
		)
		if err := rows.Scan(
			&entry.ID, &entry.EventID, &entry.EventType, &entityType, &entry.EntityID,
			&entry.Actor, &persona, &entry.Timestamp, &inputsJSON, &decisionJSON,
			&entry.Confidence, &explainabilityRef, &eventHash,
		); err != nil {
			return nil, errors.NewQueryExecutionFailedError("audit_query", err)
		}
		entry.EntityType = entityType.String
		entry.Persona = persona.String
		entry.ExplainabilityRef = explainabilityRef.String
		entry.EventHash = eventHash.String
		if len(inputsJSON) > 0 {
			if err := json.Unmarshal(inputsJSON, &entry.Inputs); err != nil {
				return nil, errors.NewQueryExecutionFailedError("audit_query", err)
			}
		}
		if err := json.Unmarshal(decisionJSON, &entry.Decision); err != nil {
			return nil, errors.NewQueryExecutionFailedError("audit_query", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("audit_query", err)
	}

	if raw, err := json.Marshal(entries); err == nil {
		s.cache.Set(ctx, key, raw, s.queryTTL)
	}

	return entries, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}

func derefInt(v *int64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func derefTime(t *time.Time) interface{} {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
