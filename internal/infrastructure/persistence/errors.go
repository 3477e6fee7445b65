package persistence

import (
	"errors"

	"github.com/cuadre/backend/internal/domain/forms"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE codes the repositories care about
const (
	codeUndefinedColumn = "42703"
	codeUniqueViolation = "23505"
)

// toStoreError reduces a driver error to its SQLSTATE and message. pgx is
// the driver behind gorm; lib/pq errors come from migrate and raw sql.DB use.
func toStoreError(err error) error {
	if err == nil {
		return nil
	}
	var se *forms.StoreError
	if errors.As(err, &se) {
		return se
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &forms.StoreError{Code: pgErr.Code, Message: pgErr.Message, Err: err}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &forms.StoreError{Code: string(pqErr.Code), Message: pqErr.Message, Err: err}
	}
	return &forms.StoreError{Message: err.Error(), Err: err}
}

// sqlState returns the SQLSTATE of err, or "" when the driver gave none
func sqlState(err error) string {
	var se *forms.StoreError
	if errors.As(toStoreError(err), &se) {
		return se.Code
	}
	return ""
}

// IsExpectedError reports database errors that callers handle themselves.
// The GORM logger downgrades these to warnings: the Safe writer recovers
// from undefined_column and account creation maps unique_violation.
func IsExpectedError(err error) bool {
	switch sqlState(err) {
	case codeUndefinedColumn, codeUniqueViolation:
		return true
	}
	return false
}
