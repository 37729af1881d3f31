// Package errors provides standardized error handling for the decision core.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Not-found conditions: reported to the caller, never retried.
	ErrCodeSnapshotNotFound ErrorCode = "SNAPSHOT_NOT_FOUND"
	ErrCodeFeedbackNotFound ErrorCode = "FEEDBACK_NOT_FOUND"

	// Persistence failures: the audit trail's completeness is a correctness
	// property, so these must surface loudly.
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"

	// Contract violations: the caller supplied an out-of-domain value.
	ErrCodeInvalidAuditEvent      ErrorCode = "INVALID_AUDIT_EVENT"
	ErrCodeInvalidFeedbackAction  ErrorCode = "INVALID_FEEDBACK_ACTION"
	ErrCodeInvalidFeedbackOutcome ErrorCode = "INVALID_FEEDBACK_OUTCOME"

	ErrCodeCacheClearFailed ErrorCode = "CACHE_CLEAR_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewSnapshotNotFoundError creates a non-retryable not-found error for a
// missing decision trace id.
func NewSnapshotNotFoundError(traceID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSnapshotNotFound,
		Message:   "Decision snapshot not found",
		Details:   fmt.Sprintf("traceId: %s", traceID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFeedbackNotFoundError creates a non-retryable not-found error for a
// missing feedback record.
func NewFeedbackNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFeedbackNotFound,
		Message:   "Decision feedback not found",
		Details:   fmt.Sprintf("feedbackId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(table string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   fmt.Sprintf("table: %s, error: %s", table, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryKind string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("query: %s, error: %s", queryKind, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidAuditEventError creates a non-retryable contract-violation error
// for audit events missing required fields.
func NewInvalidAuditEventError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidAuditEvent,
		Message:   "Audit event failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFeedbackActionError creates a non-retryable contract-violation
// error for an unknown governance action.
func NewInvalidFeedbackActionError(action string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFeedbackAction,
		Message:   "Unknown feedback decision",
		Details:   fmt.Sprintf("decision: %s", action),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFeedbackOutcomeError creates a non-retryable contract-violation
// error for an unknown feedback outcome.
func NewInvalidFeedbackOutcomeError(outcome string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFeedbackOutcome,
		Message:   "Unknown feedback outcome",
		Details:   fmt.Sprintf("outcome: %s", outcome),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheClearFailedError creates a retryable cache invalidation error.
func NewCacheClearFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheClearFailed,
		Message:   "Cache invalidation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsCode reports whether err is (or wraps) a StandardError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// IsNotFound reports whether err represents a not-found condition.
func IsNotFound(err error) bool {
	return IsCode(err, ErrCodeSnapshotNotFound) || IsCode(err, ErrCodeFeedbackNotFound)
}

// IsContractViolation reports whether err represents a caller contract violation.
func IsContractViolation(err error) bool {
	return IsCode(err, ErrCodeInvalidAuditEvent) ||
		IsCode(err, ErrCodeInvalidFeedbackAction) ||
		IsCode(err, ErrCodeInvalidFeedbackOutcome)
}

// IsRetryable reports whether err is a retryable persistence-layer fault.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}
