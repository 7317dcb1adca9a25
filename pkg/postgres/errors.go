package postgres

import (
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// SQLSTATE codes that get a dedicated error type.
const (
	codeInsufficientPrivilege = "42501"
	codeUndefinedTable        = "42P01"
	codeUndefinedColumn       = "42703"
)

type (
	// ConnectionError is returned when the connection pool cannot be
	// established.
	ConnectionError struct {
		cause error
	}

	// PermissionError is returned when the database rejects a query because
	// the role lacks the required privilege.
	PermissionError struct {
		cause error
	}

	// QueryError is returned for every other failure while running a query,
	// including references to undefined tables or columns.
	QueryError struct {
		// Code is the SQLSTATE reported by the server, or "" when the failure
		// happened on the client side.
		Code string

		cause error
	}
)

func (e *ConnectionError) Error() string {
	return "could not connect to database: " + e.cause.Error()
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error { return e.cause }

// Cause returns the underlying error for github.com/pkg/errors.
func (e *ConnectionError) Cause() error { return e.cause }

func (e *PermissionError) Error() string {
	return "access denied: " + e.cause.Error()
}

// Unwrap returns the underlying error.
func (e *PermissionError) Unwrap() error { return e.cause }

// Cause returns the underlying error for github.com/pkg/errors.
func (e *PermissionError) Cause() error { return e.cause }

func (e *QueryError) Error() string {
	return "query failed: " + e.cause.Error()
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error { return e.cause }

// Cause returns the underlying error for github.com/pkg/errors.
func (e *QueryError) Cause() error { return e.cause }

// IsSchemaError reports whether the query referenced a table or column that
// does not exist.
func (e *QueryError) IsSchemaError() bool {
	return e.Code == codeUndefinedTable || e.Code == codeUndefinedColumn
}

// classifyError maps a failure from pgx onto the error types above. Errors
// that are already classified are returned unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var (
		connErr  *ConnectionError
		permErr  *PermissionError
		queryErr *QueryError
	)
	if errors.As(err, &connErr) || errors.As(err, &permErr) || errors.As(err, &queryErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return &QueryError{cause: err}
	}

	if pgErr.Code == codeInsufficientPrivilege {
		return &PermissionError{cause: err}
	}

	return &QueryError{Code: pgErr.Code, cause: err}
}

// outcome is the metrics label for an error returned by classifyError.
func outcome(err error) string {
	var (
		connErr  *ConnectionError
		permErr  *PermissionError
		queryErr *QueryError
	)

	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &connErr):
		return "connection_error"
	case errors.As(err, &permErr):
		return "permission_error"
	case errors.As(err, &queryErr) && queryErr.IsSchemaError():
		return "schema_error"
	default:
		return "query_error"
	}
}
