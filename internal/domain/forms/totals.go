package forms

// Totals is the live aggregate of a Safe count, all in integer cents
type Totals struct {
	BillsCents     int64 `json:"bills_cents"`
	CoinsCents     int64 `json:"coins_cents"`
	RegistersCents int64 `json:"registers_cents"`
	GrandCents     int64 `json:"grand_cents"`
}

// ComputeTotals derives every subtotal from the counts and the two raw
// register inputs. The result always satisfies
// GrandCents == BillsCents + RegistersCents + CoinsCents.
func ComputeTotals(counts DenominationCounts, reg1Raw, reg2Raw string) Totals {
	ledger := Ledger{}.Compute(counts)
	return TotalsFrom(ledger, RegisterCents(reg1Raw), RegisterCents(reg2Raw))
}

// TotalsFrom combines an already computed ledger with register cents
func TotalsFrom(ledger LedgerResult, reg1Cents, reg2Cents int64) Totals {
	t := Totals{
		BillsCents:     ledger.BillsSubtotalCents,
		CoinsCents:     ledger.CoinsSubtotalCents,
		RegistersCents: reg1Cents + reg2Cents,
	}
	t.GrandCents = t.BillsCents + t.RegistersCents + t.CoinsCents
	return t
}
