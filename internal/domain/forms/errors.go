package forms

import (
	"fmt"

	"github.com/cuadre/backend/internal/domain/shared"
)

// Validation error codes, checked in this order by the submission pipeline
const (
	CodeNotAuthenticated     = "NOT_AUTHENTICATED"
	CodeOrgRequired          = "ORG_REQUIRED"
	CodeDateRequired         = "DATE_REQUIRED"
	CodeEmployeeNameRequired = "EMPLOYEE_NAME_REQUIRED"
	CodeInvalidShift         = "INVALID_SHIFT"
	CodePersistence          = "PERSISTENCE_FAILED"
	CodeSchemaMismatch       = "SCHEMA_MISMATCH"
)

// ValidationError is a local precondition failure. It is never retried and
// no write is attempted.
type ValidationError struct {
	Code    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap exposes the error as a domain error for HTTP mapping
func (e *ValidationError) Unwrap() error {
	return shared.NewDomainError(e.Code, e.Message)
}

// NewValidationError creates a ValidationError
func NewValidationError(code, field, message string) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: message}
}

// Canonical validation failures
var (
	ErrNotLoggedIn          = NewValidationError(CodeNotAuthenticated, "", "Not logged in.")
	ErrNoOrgAssigned        = NewValidationError(CodeOrgRequired, "org_id", "Your profile has no org assigned. Admin must assign your org.")
	ErrDateRequired         = NewValidationError(CodeDateRequired, "date", "Date is required.")
	ErrEmployeeNameRequired = NewValidationError(CodeEmployeeNameRequired, "employee_name", "Employee name is required.")
	ErrInvalidShift         = NewValidationError(CodeInvalidShift, "shift", "Shift must be manana or noche.")
)

// SchemaMismatchError means the write targeted a column layout the table
// does not have. The pipeline answers it with exactly one retry using the
// other variant.
type SchemaMismatchError struct {
	Variant PersistenceSchemaVariant
	Column  string
	Err     error
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch (%s layout, column %s): %v", e.Variant, e.Column, e.Err)
}

func (e *SchemaMismatchError) Unwrap() error {
	return e.Err
}

// PersistenceError is a failed write. Message carries the storage error text
// verbatim so it can be shown to the employee.
type PersistenceError struct {
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	return e.Message
}

func (e *PersistenceError) Unwrap() []error {
	errs := []error{shared.NewDomainError(CodePersistence, e.Message)}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewPersistenceError wraps a storage error
func NewPersistenceError(err error) *PersistenceError {
	msg := "Save failed"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &PersistenceError{Message: msg, Err: err}
}
