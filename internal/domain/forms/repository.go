package forms

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SafeEntryWriter inserts Safe entries using one column layout per call.
// Implementations return *StoreError for database failures so callers can
// classify them with IsSchemaMismatch.
type SafeEntryWriter interface {
	Insert(ctx context.Context, entry *CashCountEntry, variant PersistenceSchemaVariant) (InsertedRow, error)
}

// SafeEntryReader reads Safe entries using one column layout per call
type SafeEntryReader interface {
	// Recent returns the newest entries, optionally restricted to one org
	Recent(ctx context.Context, orgID *uuid.UUID, limit int, variant PersistenceSchemaVariant) ([]RecentEntry, error)
	// FindByID loads one entry. orgID, when set, must match the entry's org.
	FindByID(ctx context.Context, id uuid.UUID, orgID *uuid.UUID, variant PersistenceSchemaVariant) (*CashCountEntry, error)
}

// SheetWriter persists the auxiliary sheets
type SheetWriter interface {
	InsertLoteria(ctx context.Context, e *LoteriaEntry) (InsertedRow, error)
	InsertCashPayment(ctx context.Context, e *CashPaymentEntry) (InsertedRow, error)
	InsertTransfer(ctx context.Context, e *TransferEntry) (InsertedRow, error)
	InsertDaily(ctx context.Context, e *DailyEntry) (InsertedRow, error)
}

// RecentEntryTypeSafe labels Safe rows in the recent entries list
const RecentEntryTypeSafe = "Cuadre del Safe"

// RecentEntry is the normalized row shown in the recent entries list
type RecentEntry struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Type         string    `json:"type"`
	FormDate     string    `json:"form_date"`
	EmployeeName string    `json:"employee_name"`
	Notes        *string   `json:"notes"`
}

// RecentEntryCache caches the recent entries list per scope. A miss is
// (nil, false, nil).
type RecentEntryCache interface {
	Get(ctx context.Context, scope string) ([]RecentEntry, bool, error)
	Set(ctx context.Context, scope string, entries []RecentEntry, ttl time.Duration) error
	Invalidate(ctx context.Context, scope string) error
}
