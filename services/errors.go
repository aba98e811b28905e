package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorKind classifies service errors so callers can decide how to react
type ErrorKind int

const (
	// KindValidation is malformed or missing input, rejected before any write
	KindValidation ErrorKind = iota + 1
	// KindPrecondition means a business rule's required state does not hold
	KindPrecondition
	// KindNotFound means a referenced id does not exist
	KindNotFound
	// KindUnavailable means the data store (or another backend) could not be reached
	KindUnavailable
)

// Error is the error type returned by every service operation for expected failures
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a service error, or 0 for unexpected errors
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return 0
}

// CodeOf returns the code of a service error, or "" for unexpected errors
func CodeOf(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ""
}

func validationError(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func preconditionError(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindPrecondition, Code: code, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(entity string, id interface{}) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    strings.ToUpper(strings.ReplaceAll(entity, " ", "_")) + "_NOT_FOUND",
		Message: fmt.Sprintf("%s %v not found", entity, id),
	}
}

func unavailableError(code, message string, err error) *Error {
	return &Error{Kind: KindUnavailable, Code: code, Message: message, Err: err}
}

// translateDBError maps driver-level failures onto the service taxonomy.
// Errors that are already service errors pass through unchanged.
func translateDBError(op string, err error) error {
	if err == nil {
		return nil
	}

	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return &Error{Kind: KindPrecondition, Code: "DUPLICATE_RECORD", Message: "A record with these values already exists", Err: err}
		case "23503":
			return &Error{Kind: KindPrecondition, Code: "RECORD_IN_USE", Message: "This record is referenced by another record", Err: err}
		case "23514", "23502", "22P02":
			return &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: "The data violates a database constraint", Err: err}
		}
	}

	// SQLite reports constraint failures only through the message text
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "unique constraint failed"):
		return &Error{Kind: KindPrecondition, Code: "DUPLICATE_RECORD", Message: "A record with these values already exists", Err: err}
	case strings.Contains(lower, "foreign key constraint failed"):
		return &Error{Kind: KindPrecondition, Code: "RECORD_IN_USE", Message: "This record is referenced by another record", Err: err}
	case strings.Contains(lower, "check constraint failed"):
		return &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: "The data violates a database constraint", Err: err}
	}

	if isConnectivityError(err) {
		return unavailableError("DATABASE_UNAVAILABLE", "The database is unavailable", err)
	}

	return fmt.Errorf("%s: %w", op, err)
}

// isRetryableError reports connectivity failures that happened before the
// statement reached the server, so running it again cannot apply it twice.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	return pgconn.SafeToRetry(err)
}

// isConnectivityError reports any failure to talk to the data store
func isConnectivityError(err error) bool {
	if isRetryableError(err) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
