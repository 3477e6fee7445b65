package forms

import (
	"errors"
	"strings"
)

// PersistenceSchemaVariant names one of the two column layouts a deployed
// form_safe table may have.
type PersistenceSchemaVariant int

const (
	// SchemaCurrent stores the entry date and time in form_date / form_time
	SchemaCurrent PersistenceSchemaVariant = iota
	// SchemaLegacy stores them in date / time
	SchemaLegacy
)

// SQLSTATE reported by Postgres for a reference to a missing column
const undefinedColumnCode = "42703"

// DateColumn returns the column holding the entry date
func (v PersistenceSchemaVariant) DateColumn() string {
	if v == SchemaLegacy {
		return "date"
	}
	return "form_date"
}

// TimeColumn returns the column holding the entry time
func (v PersistenceSchemaVariant) TimeColumn() string {
	if v == SchemaLegacy {
		return "time"
	}
	return "form_time"
}

// Other returns the alternate variant
func (v PersistenceSchemaVariant) Other() PersistenceSchemaVariant {
	if v == SchemaLegacy {
		return SchemaCurrent
	}
	return SchemaLegacy
}

func (v PersistenceSchemaVariant) String() string {
	if v == SchemaLegacy {
		return "legacy"
	}
	return "current"
}

// ParseSchemaVariant maps a config value to a variant. Unknown values select
// SchemaCurrent.
func ParseSchemaVariant(s string) PersistenceSchemaVariant {
	if strings.EqualFold(strings.TrimSpace(s), "legacy") {
		return SchemaLegacy
	}
	return SchemaCurrent
}

// StoreError is a storage failure as reported by the database, reduced to
// its SQLSTATE code and message. Persistence adapters translate driver errors
// into this type so the domain can classify them.
type StoreError struct {
	Code    string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsSchemaMismatch reports whether err means that variant's date or time
// column does not exist. A Postgres undefined_column code naming one of the
// columns is authoritative; otherwise the message must read
// `column ... <name> ... does not exist`.
func IsSchemaMismatch(err error, variant PersistenceSchemaVariant) bool {
	_, ok := MismatchedColumn(err, variant)
	return ok
}

// MismatchedColumn returns the missing column named by err, if err is a
// schema mismatch for variant.
func MismatchedColumn(err error, variant PersistenceSchemaVariant) (string, bool) {
	if err == nil {
		return "", false
	}
	msg := err.Error()
	var se *StoreError
	if errors.As(err, &se) {
		msg = se.Message
		if se.Code != "" && se.Code != undefinedColumnCode {
			return "", false
		}
	}
	lower := strings.ToLower(msg)
	for _, col := range []string{variant.DateColumn(), variant.TimeColumn()} {
		if !mentionsColumn(lower, col) {
			continue
		}
		if se != nil && se.Code == undefinedColumnCode {
			return col, true
		}
		if strings.Contains(lower, "column") && strings.Contains(lower, "does not exist") {
			return col, true
		}
	}
	return "", false
}

// mentionsColumn matches col as a whole identifier, optionally qualified or
// quoted, so that "date" does not match "form_date".
func mentionsColumn(msg, col string) bool {
	for i := 0; ; {
		j := strings.Index(msg[i:], col)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(col)
		if !identByte(msg, start-1) && !identByte(msg, end) {
			return true
		}
		i = start + 1
	}
}

func identByte(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
