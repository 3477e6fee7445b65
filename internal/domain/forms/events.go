package forms

import (
	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EventTypeEntrySaved is published after any form entry is committed
const EventTypeEntrySaved = "forms.entry.saved"

// AggregateTypeFormEntry is the aggregate type of saved form entries
const AggregateTypeFormEntry = "FormEntry"

// FormType identifies which sheet produced an entry
type FormType string

const (
	FormSafe        FormType = "safe"
	FormLoteria     FormType = "loteria"
	FormCashPayment FormType = "cash_payment"
	FormTransfer    FormType = "transfer"
	FormDaily       FormType = "daily"
)

// EntrySavedEvent announces a committed form entry. Observers such as the
// recent entries list refresh on it.
type EntrySavedEvent struct {
	shared.BaseDomainEvent
	FormType    FormType  `json:"form_type"`
	EntryID     uuid.UUID `json:"entry_id"`
	SubmittedBy uuid.UUID `json:"submitted_by"`
}

// NewEntrySavedEvent creates the event for a committed entry. orgID may be nil
// for entries filed by an admin without an organization.
func NewEntrySavedEvent(formType FormType, entryID uuid.UUID, orgID *uuid.UUID, submittedBy uuid.UUID) *EntrySavedEvent {
	org := uuid.Nil
	if orgID != nil {
		org = *orgID
	}
	return &EntrySavedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEntrySaved, AggregateTypeFormEntry, entryID, org),
		FormType:        formType,
		EntryID:         entryID,
		SubmittedBy:     submittedBy,
	}
}
