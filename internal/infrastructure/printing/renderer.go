package printing

import (
	"context"
	"time"
)

// Paper sizes in millimetres.
const (
	ReceiptWidthMM  = 80.0
	LetterWidthMM   = 215.9
	LetterHeightMM  = 279.4
	receiptHeightMM = 600.0
)

// RenderRequest describes one HTML to PDF conversion.
type RenderRequest struct {
	HTML     string
	Title    string
	WidthMM  float64
	HeightMM float64
	MarginMM float64
	Timeout  time.Duration
}

// RenderResult carries the produced PDF.
type RenderResult struct {
	PDFData        []byte
	RenderDuration time.Duration
}

// PDFRenderer converts HTML documents to PDF.
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// Render error codes
const (
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeInvalidHTML   = "INVALID_HTML"
	ErrCodeTemplate      = "TEMPLATE_FAILED"
)

// RenderError is a failed template execution or PDF conversion.
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates a RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}
