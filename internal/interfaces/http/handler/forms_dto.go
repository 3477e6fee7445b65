package handler

import (
	"time"

	appforms "github.com/cuadre/backend/internal/application/forms"
	"github.com/google/uuid"
)

// SafeStateRequest carries the client-held state of one Safe form instance
type SafeStateRequest struct {
	State appforms.SafeState `json:"state"`
}

// SafeChangeRequest applies one field edit to a Safe form instance
type SafeChangeRequest struct {
	State appforms.SafeState   `json:"state"`
	Event appforms.ChangeEvent `json:"event"`
}

// SafeFormResponse is a Safe instance with its rendered totals
type SafeFormResponse struct {
	State appforms.SafeState `json:"state"`
	View  appforms.SafeView  `json:"view"`
}

// SafeSubmitResponse is a saved Safe entry
type SafeSubmitResponse struct {
	EntryID   uuid.UUID          `json:"entry_id"`
	CreatedAt time.Time          `json:"created_at"`
	Message   string             `json:"message" example:"Saved. Entry ID: 7d9f..."`
	Layout    string             `json:"layout" example:"current"`
	State     appforms.SafeState `json:"state"`
	View      appforms.SafeView  `json:"view"`
}
