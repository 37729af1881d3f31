// internal/leads/store.go

// Package leads provides the lead store plus the read models derived from it:
// data quality analysis, pipeline key metrics, and per-lead SLA analytics.
package leads

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"decision-core/internal/common/cache"
	"decision-core/internal/common/errors"
	"decision-core/internal/common/logger"
	"decision-core/internal/models"
)

// Store reads the lead pipeline.
type Store interface {
	GetAll(ctx context.Context) ([]models.Lead, error)
}

// PostgresStore is the database-backed Store with a cache-aside read path.
type PostgresStore struct {
	db     *sql.DB
	cache  cache.Cache
	ttl    time.Duration
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, c cache.Cache, ttl time.Duration, log logger.Logger) *PostgresStore {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &PostgresStore{
		db:     db,
		cache:  c,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "leads"}),
	}
}

// GetAll returns every lead with its followups attached, newest lead first.
func (s *PostgresStore) GetAll(ctx context.Context) ([]models.Lead, error) {
	key := cache.Key("leads.all")
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached []models.Lead
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	leads, err := s.queryLeads(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.attachFollowups(ctx, leads); err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(leads); err == nil {
		s.cache.Set(ctx, key, raw, s.ttl)
	}
	return leads, nil
}

func (s *PostgresStore) queryLeads(ctx context.Context) ([]models.Lead, error) {
	query := `SELECT id, name, phone, email, source, budget, notes, status, created_at
		FROM leads
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("leads_all", err)
	}
	defer rows.Close()

	leads := make([]models.Lead, 0)
	for rows.Next() {
		var lead models.Lead
		if err := rows.Scan(
			&lead.ID, &lead.Name, &lead.Phone, &lead.Email, &lead.Source,
			&lead.Budget, &lead.Notes, &lead.Status, &lead.CreatedAt,
		); err != nil {
			return nil, errors.NewQueryExecutionFailedError("leads_all", err)
		}
		lead.Followups = make([]models.Followup, 0)
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("leads_all", err)
	}
	return leads, nil
}

func (s *PostgresStore) attachFollowups(ctx context.Context, leads []models.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	query := `SELECT id, lead_id, status, created_at
		FROM followups
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return errors.NewQueryExecutionFailedError("followups_all", err)
	}
	defer rows.Close()

	byLead := make(map[int64]int, len(leads))
	for i, lead := range leads {
		byLead[lead.ID] = i
	}

	for rows.Next() {
		var fu models.Followup
		if err := rows.Scan(&fu.ID, &fu.LeadID, &fu.Status, &fu.CreatedAt); err != nil {
			return errors.NewQueryExecutionFailedError("followups_all", err)
		}
		if i, ok := byLead[fu.LeadID]; ok {
			leads[i].Followups = append(leads[i].Followups, fu)
		}
	}
	return rows.Err()
}

// InvalidateCache drops cached lead reads. Mutation paths call this after
// any write to the leads or followups tables.
func (s *PostgresStore) InvalidateCache(ctx context.Context) {
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("lead cache invalidation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
