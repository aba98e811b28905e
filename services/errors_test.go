package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Kind: KindUnavailable, Code: "DATABASE_UNAVAILABLE", Message: "The database is unavailable", Err: cause}

	assert.Contains(t, err.Error(), "The database is unavailable")
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("outer: %w", err)
	assert.Equal(t, KindUnavailable, KindOf(wrapped))
	assert.Equal(t, "DATABASE_UNAVAILABLE", CodeOf(wrapped))

	assert.Equal(t, ErrorKind(0), KindOf(cause))
	assert.Equal(t, "", CodeOf(cause))
}

func TestNotFoundErrorCode(t *testing.T) {
	err := notFoundError("request", 42)
	assert.Equal(t, KindNotFound, err.Kind)
	assert.Equal(t, "REQUEST_NOT_FOUND", err.Code)
	assert.Equal(t, "request 42 not found", err.Message)
}

func TestTranslateDBError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
		code string
	}{
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, KindPrecondition, "DUPLICATE_RECORD"},
		{"postgres foreign key violation", &pgconn.PgError{Code: "23503"}, KindPrecondition, "RECORD_IN_USE"},
		{"postgres check violation", &pgconn.PgError{Code: "23514"}, KindValidation, "VALIDATION_ERROR"},
		{"postgres not null violation", &pgconn.PgError{Code: "23502"}, KindValidation, "VALIDATION_ERROR"},
		{"sqlite unique", errors.New("UNIQUE constraint failed: payments.assignment_id"), KindPrecondition, "DUPLICATE_RECORD"},
		{"sqlite foreign key", errors.New("FOREIGN KEY constraint failed"), KindPrecondition, "RECORD_IN_USE"},
		{"sqlite check", errors.New("CHECK constraint failed: customer_rating"), KindValidation, "VALIDATION_ERROR"},
		{"bad connection", driver.ErrBadConn, KindUnavailable, "DATABASE_UNAVAILABLE"},
		{"deadline", context.DeadlineExceeded, KindUnavailable, "DATABASE_UNAVAILABLE"},
		{"network", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, KindUnavailable, "DATABASE_UNAVAILABLE"},
		{"service error passes through", preconditionError("TECHNICIAN_BUSY", "busy"), KindPrecondition, "TECHNICIAN_BUSY"},
		{"other", errors.New("syntax error"), 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateDBError("op", tt.err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, tt.code, CodeOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	assert.NoError(t, translateDBError("op", nil))
	assert.Contains(t, translateDBError("load request", errors.New("syntax error")).Error(), "load request: syntax error")
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(driver.ErrBadConn))
	assert.True(t, isRetryableError(fmt.Errorf("wrapped: %w", driver.ErrBadConn)))
	assert.False(t, isRetryableError(nil))
	assert.False(t, isRetryableError(errors.New("syntax error")))
	assert.False(t, isRetryableError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isRetryableError(context.DeadlineExceeded), "a timed out statement may have been applied")

	assert.True(t, isConnectivityError(context.DeadlineExceeded))
	assert.False(t, isConnectivityError(errors.New("syntax error")))
}
