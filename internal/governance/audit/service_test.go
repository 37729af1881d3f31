// internal/governance/audit/service_test.go
package audit

import (
	"context"
	"testing"
	"time"

	"decision-core/internal/common/cache"
	"decision-core/internal/common/errors"
	"decision-core/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestService(t *testing.T) (*Service, sqlmock.Sqlmock, cache.Cache) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := cache.NewMemory()
	svc := NewService(db, store, time.Minute, logger.NewTestLogger(t))
	return svc, mock, store
}

func createTestEvent() Event {
	return Event{
		EventType:  EventRiskCalculation,
		EntityType: "pipeline",
		Persona:    "founder",
		Inputs:     map[string]interface{}{"lead_conversion_rate": 4.5},
		Decision:   map[string]interface{}{"risk_score": 62.0},
	}
}

func expectAuditInsert(mock sqlmock.Sqlmock, id int64) {
	mock.ExpectQuery(`INSERT INTO audit_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
}

func auditRowColumns() []string {
	return []string{
		"id", "event_id", "event_type", "entity_type", "entity_id", "actor",
		"persona", "timestamp", "inputs", "decision", "confidence",
		"explainability_ref", "event_hash",
	}
}

// ==========================
// Append Tests
// ==========================

func TestAppend_Success(t *testing.T) {
	svc, mock, _ := createTestService(t)
	expectAuditInsert(mock, 42)

	entry, err := svc.Append(context.Background(), createTestEvent())

	require.NoError(t, err)
	assert.Equal(t, int64(42), entry.ID)
	assert.Equal(t, EventRiskCalculation, entry.EventType)
	assert.Equal(t, "system", entry.Actor, "actor defaults to system")
	assert.WithinDuration(t, time.Now().UTC(), entry.Timestamp, 5*time.Second)

	_, err = uuid.Parse(entry.EventID)
	assert.NoError(t, err, "event id is a uuid")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_ExplicitActorPreserved(t *testing.T) {
	svc, mock, _ := createTestService(t)
	expectAuditInsert(mock, 1)

	event := createTestEvent()
	event.Actor = "reviewer-7"

	entry, err := svc.Append(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, "reviewer-7", entry.Actor)
}

func TestAppend_Validation(t *testing.T) {
	svc, _, _ := createTestService(t)

	tests := []struct {
		name  string
		event Event
	}{
		{name: "missing event type", event: Event{Decision: map[string]interface{}{"x": 1}}},
		{name: "blank event type", event: Event{EventType: "  ", Decision: map[string]interface{}{"x": 1}}},
		{name: "missing decision", event: Event{EventType: EventAlertCreation}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entry, err := svc.Append(context.Background(), tc.event)
			assert.Nil(t, entry)
			assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidAuditEvent))
			assert.True(t, errors.IsContractViolation(err))
		})
	}
}

func TestAppend_InvalidatesCache(t *testing.T) {
	svc, mock, store := createTestService(t)
	expectAuditInsert(mock, 1)

	ctx := context.Background()
	store.Set(ctx, cache.Key("audit.query", "stale"), []byte(`[]`), time.Minute)

	_, err := svc.Append(ctx, createTestEvent())
	require.NoError(t, err)

	_, found := store.Get(ctx, cache.Key("audit.query", "stale"))
	assert.False(t, found, "append clears every cached read")
}

func TestAppend_InsertFailure(t *testing.T) {
	svc, mock, _ := createTestService(t)
	mock.ExpectQuery(`INSERT INTO audit_logs`).WillReturnError(assert.AnError)

	entry, err := svc.Append(context.Background(), createTestEvent())

	assert.Nil(t, entry)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatabaseInsertFailed))
	assert.True(t, errors.IsRetryable(err))
}

// ==========================
// Query Tests
// ==========================

func TestQuery_Unfiltered(t *testing.T) {
	svc, mock, _ := createTestService(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(auditRowColumns()).
		AddRow(2, uuid.NewString(), EventDecisionGenerated, "recommendation_set", nil,
			"system", "founder", now, nil, []byte(`{"recommendation_count":2}`), nil, nil, nil).
		AddRow(1, uuid.NewString(), EventRiskCalculation, "pipeline", nil,
			"system", "founder", now.Add(-time.Minute), []byte(`{"response_rate":40}`),
			[]byte(`{"risk_score":62}`), 62.0, "dsc_1_abcd1234", nil)
	mock.ExpectQuery(`SELECT (.+) FROM audit_logs ORDER BY timestamp DESC OFFSET \$1 LIMIT \$2`).
		WithArgs(0, 100).
		WillReturnRows(rows)

	entries, err := svc.Query(context.Background(), Filter{})

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, EventDecisionGenerated, entries[0].EventType)
	assert.Equal(t, EventRiskCalculation, entries[1].EventType)
	assert.Equal(t, 62.0, entries[1].Decision["risk_score"])
	assert.Equal(t, "dsc_1_abcd1234", entries[1].ExplainabilityRef)
}

func TestQuery_AllFilters(t *testing.T) {
	svc, mock, _ := createTestService(t)

	entityID := int64(7)
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM audit_logs WHERE event_type = \$1 AND persona = \$2 AND entity_id = \$3 AND timestamp >= \$4 AND timestamp <= \$5 ORDER BY timestamp DESC OFFSET \$6 LIMIT \$7`).
		WithArgs(EventAlertCreation, "ops_crm", entityID, start, end, 10, 25).
		WillReturnRows(sqlmock.NewRows(auditRowColumns()))

	entries, err := svc.Query(context.Background(), Filter{
		EventType: EventAlertCreation,
		Persona:   "ops_crm",
		EntityID:  &entityID,
		StartTime: &start,
		EndTime:   &end,
		Offset:    10,
		Limit:     25,
	})

	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_SecondCallServedFromCache(t *testing.T) {
	svc, mock, _ := createTestService(t)

	rows := sqlmock.NewRows(auditRowColumns()).
		AddRow(1, uuid.NewString(), EventFeedbackRecorded, "feedback", nil,
			"system", "founder", time.Now().UTC(), nil, []byte(`{"decision":"approved"}`), nil, nil, nil)
	mock.ExpectQuery(`SELECT (.+) FROM audit_logs`).WillReturnRows(rows)

	ctx := context.Background()
	filter := Filter{EventType: EventFeedbackRecorded}

	first, err := svc.Query(ctx, filter)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// No second ExpectQuery is registered: a database round trip here fails.
	second, err := svc.Query(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, first[0].EventID, second[0].EventID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
