package handler

import "github.com/cuadre/backend/internal/interfaces/http/dto"

// APIResponse documents the success envelope with a typed data field.
// Handlers write dto.Response; this type only exists for the swagger docs.
// @Description Envelope returned by every endpoint: {success, data, error}
type APIResponse[T any] struct {
	Success bool           `json:"success" example:"true"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// ErrorResponse documents the failure envelope.
// @Description Failure envelope. error.redirect is set when the session was ended and the client must sign in again.
type ErrorResponse struct {
	Success bool          `json:"success" example:"false"`
	Error   dto.ErrorInfo `json:"error"`
}
