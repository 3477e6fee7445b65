package forms

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryHeader carries the fields every sheet stores
type EntryHeader struct {
	ID        uuid.UUID
	CreatedAt time.Time
	OrgID     *uuid.UUID
	CreatedBy uuid.UUID
}

// LoteriaEntry is the lottery reconciliation sheet (form_loteria)
type LoteriaEntry struct {
	EntryHeader
	FormDate              string
	EmployeeName          *string
	StartingBalanceCents  int64
	Scratches10InCents    int64
	ScratchesOtherInCents int64
	DrawGameSalesCents    int64
	CashDepositCents      int64
	DrawGameCashesCents   int64
	DrawPromoPlaysCents   int64
	DrawGameCancelsCents  int64
	InstantCashesCents    int64
	ToDepositCents        int64
	RefundCents           int64
	CashInDrawerCents     int64
	BalanceCents          int64
	Notes                 *string
}

// CashPaymentEntry records cash handed out of the drawer (form_cash_payment)
type CashPaymentEntry struct {
	EntryHeader
	PayDate     string
	AmountCents int64
	GivenTo     *string
	Reason      *string
	GivenBy     *string
	ReceivedBy  *string
}

// TransferEntry is one line of an inter-department transfer (form_transfer)
type TransferEntry struct {
	EntryHeader
	TransferDate string
	DeptFrom     *string
	DeptTo       *string
	ItemCode     *string
	Description  *string
	Qty          *decimal.Decimal
	PriceCents   *int64
	TotalCents   *int64
}

// NewTransferLine computes the line total as round(qty * price). Zero
// quantities, prices and totals are stored as NULL, and so is a total
// beyond MaxAmountCents.
func NewTransferLine(header EntryHeader, date string, qty decimal.Decimal, priceCents int64) *TransferEntry {
	t := &TransferEntry{EntryHeader: header, TransferDate: date}
	if !qty.IsZero() {
		q := qty
		t.Qty = &q
	}
	if priceCents != 0 {
		p := priceCents
		t.PriceCents = &p
	}
	product := qty.Mul(decimal.NewFromInt(priceCents)).Round(0)
	if product.IsZero() || product.Abs().GreaterThan(maxAmountDec) {
		return t
	}
	total := product.IntPart()
	t.TotalCents = &total
	return t
}

// ParseQuantity reads a transfer quantity such as "1,250.5". Blank or
// unparseable input counts as zero.
func ParseQuantity(raw string) decimal.Decimal {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return decimal.Zero
	}
	q, ok := ParseNumber(raw)
	if !ok {
		return decimal.Zero
	}
	return q
}

// Shift is the daily sheet's work shift
type Shift string

const (
	ShiftManana Shift = "manana"
	ShiftNoche  Shift = "noche"
)

// ParseShift accepts "manana", "mañana" or "noche" in any case
func ParseShift(s string) (Shift, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manana", "mañana":
		return ShiftManana, true
	case "noche":
		return ShiftNoche, true
	}
	return "", false
}

// DailyEntry is the end-of-shift summary (form_daily)
type DailyEntry struct {
	EntryHeader
	FormDate            string
	Shift               Shift
	Responsible         *string
	BalanceInicialCents int64
	TotalEntradasCents  int64
	TotalSalidasCents   int64
	CashOnSafeCents     int64
	BalanceFinalCents   int64
	Notes               *string
}
