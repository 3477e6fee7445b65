package forms

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CashCountEntry is one persisted Safe cuadre. It is written once and never
// updated.
type CashCountEntry struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	OrgID        *uuid.UUID
	SubmittedBy  uuid.UUID
	EntryDate    string
	EntryTime    *string
	EmployeeName string
	Counts       DenominationCounts
	Reg1Cents    int64
	Reg2Cents    int64
	Notes        *string
}

// Totals derives the entry's totals from its stored counts
func (e *CashCountEntry) Totals() Totals {
	return TotalsFrom(Ledger{}.Compute(e.Counts), e.Reg1Cents, e.Reg2Cents)
}

// InsertedRow is what the database hands back after a successful insert
type InsertedRow struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

// NullIfBlank trims s and returns nil when nothing is left
func NullIfBlank(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or ""
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
