// Package forms holds the cash reconciliation forms: the Safe cuadre
// denomination count and the auxiliary Lotería, cash payment, transfer and
// daily sheets.
package forms

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DenominationKind separates paper bills from coins
type DenominationKind string

const (
	KindBill DenominationKind = "bill"
	KindCoin DenominationKind = "coin"
)

// Denomination is one row of the cash count
type Denomination struct {
	Key            string           `json:"key"`
	Label          string           `json:"label"`
	Kind           DenominationKind `json:"kind"`
	FaceValueCents int64            `json:"face_value_cents"`
}

// Bills lists paper denominations in display order
var Bills = []Denomination{
	{Key: "bills_100_qty", Label: "$100", Kind: KindBill, FaceValueCents: 10000},
	{Key: "bills_50_qty", Label: "$50", Kind: KindBill, FaceValueCents: 5000},
	{Key: "bills_20_qty", Label: "$20", Kind: KindBill, FaceValueCents: 2000},
	{Key: "bills_10_qty", Label: "$10", Kind: KindBill, FaceValueCents: 1000},
	{Key: "bills_5_qty", Label: "$5", Kind: KindBill, FaceValueCents: 500},
	{Key: "bills_1_qty", Label: "$1", Kind: KindBill, FaceValueCents: 100},
}

// Coins lists coin denominations in display order
var Coins = []Denomination{
	{Key: "quarters_qty", Label: "Quarters", Kind: KindCoin, FaceValueCents: 25},
	{Key: "dimes_qty", Label: "Dimes", Kind: KindCoin, FaceValueCents: 10},
	{Key: "nickels_qty", Label: "Nickels", Kind: KindCoin, FaceValueCents: 5},
	{Key: "pennies_qty", Label: "Pennies", Kind: KindCoin, FaceValueCents: 1},
}

// AllDenominations returns bills followed by coins
func AllDenominations() []Denomination {
	all := make([]Denomination, 0, len(Bills)+len(Coins))
	all = append(all, Bills...)
	return append(all, Coins...)
}

// LookupDenomination finds a denomination by its count key
func LookupDenomination(key string) (Denomination, bool) {
	for _, d := range AllDenominations() {
		if d.Key == key {
			return d, true
		}
	}
	return Denomination{}, false
}

// MaxCount bounds a single denomination quantity so that every total stays
// well inside int64 cents.
const MaxCount int64 = 1_000_000_000

// CoerceCount turns raw user input into a non-negative whole count.
// Blank, non-numeric, negative and out-of-range input yield 0; fractions are
// truncated.
func CoerceCount(raw string) int64 {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "+")
	if s == "" {
		return 0
	}
	d, ok := ParseNumber(s)
	if !ok || d.IsNegative() {
		return 0
	}
	whole := d.Truncate(0)
	if whole.GreaterThan(decimal.NewFromInt(MaxCount)) {
		return 0
	}
	return whole.IntPart()
}

// DenominationCounts holds the coerced quantity for every denomination
type DenominationCounts struct {
	Bills100 int64 `json:"bills_100_qty"`
	Bills50  int64 `json:"bills_50_qty"`
	Bills20  int64 `json:"bills_20_qty"`
	Bills10  int64 `json:"bills_10_qty"`
	Bills5   int64 `json:"bills_5_qty"`
	Bills1   int64 `json:"bills_1_qty"`
	Quarters int64 `json:"quarters_qty"`
	Dimes    int64 `json:"dimes_qty"`
	Nickels  int64 `json:"nickels_qty"`
	Pennies  int64 `json:"pennies_qty"`
}

// CountsFromRaw coerces a key to raw-input map. Unknown keys are ignored and
// missing keys count as zero.
func CountsFromRaw(raw map[string]string) DenominationCounts {
	var c DenominationCounts
	for key, v := range raw {
		c.Set(key, CoerceCount(v))
	}
	return c
}

// Get returns the quantity for a denomination key
func (c DenominationCounts) Get(key string) int64 {
	if p := c.field(key); p != nil {
		return *p
	}
	return 0
}

// Set stores a quantity for a denomination key; out-of-range values become 0
func (c *DenominationCounts) Set(key string, qty int64) {
	p := c.field(key)
	if p == nil {
		return
	}
	if qty < 0 || qty > MaxCount {
		qty = 0
	}
	*p = qty
}

// ToMap returns the counts keyed by column name
func (c DenominationCounts) ToMap() map[string]int64 {
	m := make(map[string]int64, len(Bills)+len(Coins))
	for _, d := range AllDenominations() {
		m[d.Key] = c.Get(d.Key)
	}
	return m
}

func (c *DenominationCounts) field(key string) *int64 {
	switch key {
	case "bills_100_qty":
		return &c.Bills100
	case "bills_50_qty":
		return &c.Bills50
	case "bills_20_qty":
		return &c.Bills20
	case "bills_10_qty":
		return &c.Bills10
	case "bills_5_qty":
		return &c.Bills5
	case "bills_1_qty":
		return &c.Bills1
	case "quarters_qty":
		return &c.Quarters
	case "dimes_qty":
		return &c.Dimes
	case "nickels_qty":
		return &c.Nickels
	case "pennies_qty":
		return &c.Pennies
	}
	return nil
}

// DenominationLine is the computed value of one row
type DenominationLine struct {
	Denomination
	Quantity    int64 `json:"quantity"`
	AmountCents int64 `json:"amount_cents"`
}

// LedgerResult is the output of Ledger.Compute
type LedgerResult struct {
	Lines              []DenominationLine `json:"lines"`
	BillsSubtotalCents int64              `json:"bills_subtotal_cents"`
	CoinsSubtotalCents int64              `json:"coins_subtotal_cents"`
}

// Amount returns the computed amount for a key, 0 if unknown
func (r LedgerResult) Amount(key string) int64 {
	for _, l := range r.Lines {
		if l.Key == key {
			return l.AmountCents
		}
	}
	return 0
}

// Ledger multiplies counts by face values
type Ledger struct{}

// Compute returns per-denomination amounts and the bill and coin subtotals
func (Ledger) Compute(counts DenominationCounts) LedgerResult {
	res := LedgerResult{Lines: make([]DenominationLine, 0, len(Bills)+len(Coins))}
	for _, d := range AllDenominations() {
		qty := counts.Get(d.Key)
		amount := qty * d.FaceValueCents
		res.Lines = append(res.Lines, DenominationLine{Denomination: d, Quantity: qty, AmountCents: amount})
		if d.Kind == KindBill {
			res.BillsSubtotalCents += amount
		} else {
			res.CoinsSubtotalCents += amount
		}
	}
	return res
}
