package printing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cuadre/backend/internal/domain/forms"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry() *forms.CashCountEntry {
	notes := "<script>alert(1)</script>short <b>by</b> $5"
	at := "14:30"
	entry := &forms.CashCountEntry{
		ID:           uuid.MustParse("9b2f7c36-5f0b-4a7f-9d44-3c8f8f1e2a10"),
		EntryDate:    "2026-10-18",
		EntryTime:    &at,
		EmployeeName: "Ana <i>Ruiz</i>",
		Reg1Cents:    25000,
		Reg2Cents:    12345,
		Notes:        &notes,
	}
	entry.Counts.Set("bills_20_qty", 2)
	entry.Counts.Set("quarters_qty", 3)
	return entry
}

func TestReceiptTemplate_Render(t *testing.T) {
	tmpl := NewReceiptTemplate()
	tmpl.now = func() time.Time { return time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC) }

	out, err := tmpl.Render(sampleEntry())
	require.NoError(t, err)

	assert.Contains(t, out, "<title>Cuadre del Safe</title>")
	assert.Contains(t, out, "Date: 2026-10-18 14:30")
	assert.Contains(t, out, "Employee: Ana Ruiz")
	assert.Contains(t, out, "Grand Total")
	// 40.00 bills + 0.75 coins + 373.45 registers
	assert.Contains(t, out, "$414.20")
	assert.Contains(t, out, "$373.45")
	assert.Contains(t, out, "Printed: 2026-10-18 15:00")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "alert(1)")
	assert.NotContains(t, out, "<b>by</b>")
}

func TestReceiptTemplate_NilEntry(t *testing.T) {
	_, err := NewReceiptTemplate().Render(nil)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeTemplate, renderErr.Code)
}

func TestCompleteHTML(t *testing.T) {
	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, completeHTML(&RenderRequest{HTML: full}))

	wrapped := completeHTML(&RenderRequest{HTML: "<p>x</p>", Title: "A & B"})
	assert.True(t, strings.HasPrefix(wrapped, "<!DOCTYPE html>"))
	assert.Contains(t, wrapped, "<title>A &amp; B</title>")
	assert.Contains(t, wrapped, "<body><p>x</p></body>")
}

func TestPrintParamsFor(t *testing.T) {
	p := printParamsFor(&RenderRequest{MarginMM: 25.4})
	assert.InDelta(t, ReceiptWidthMM/25.4, p.PaperWidth, 1e-9)
	assert.InDelta(t, 1.0, p.MarginTop, 1e-9)
	assert.True(t, p.PrintBackground)

	letter := printParamsFor(&RenderRequest{WidthMM: LetterWidthMM, HeightMM: LetterHeightMM})
	assert.InDelta(t, 8.5, letter.PaperWidth, 1e-3)
	assert.InDelta(t, 11.0, letter.PaperHeight, 1e-3)
}

func TestChromedpRenderer_RejectsEmptyHTML(t *testing.T) {
	r := NewChromedpRenderer(ChromedpConfig{})
	defer r.Close()

	_, err := r.Render(context.Background(), &RenderRequest{HTML: "   "})
	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)

	_, err = r.Render(context.Background(), nil)
	assert.Error(t, err)
}
