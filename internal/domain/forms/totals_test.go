package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	t.Run("example cuadre", func(t *testing.T) {
		counts := CountsFromRaw(map[string]string{"bills_100_qty": "2", "bills_50_qty": "1"})
		got := ComputeTotals(counts, "123.45", "")

		assert.Equal(t, int64(25000), got.BillsCents)
		assert.Equal(t, int64(12345), got.RegistersCents)
		assert.Equal(t, int64(0), got.CoinsCents)
		assert.Equal(t, int64(37345), got.GrandCents)
		assert.Equal(t, "$373.45", FormatCents(got.GrandCents))
	})

	t.Run("grand is always the sum of its parts", func(t *testing.T) {
		inputs := []map[string]string{
			{},
			{"pennies_qty": "99", "dimes_qty": "-1"},
			{"bills_1_qty": "3.7", "quarters_qty": "8", "nickels_qty": "junk"},
			{"bills_20_qty": "1000000", "bills_5_qty": "17"},
		}
		for _, raw := range inputs {
			got := ComputeTotals(CountsFromRaw(raw), "$1,000.01", "-4")
			assert.Equal(t, got.BillsCents+got.RegistersCents+got.CoinsCents, got.GrandCents)
		}
	})
}

func TestComputeTotals_RegisterBound(t *testing.T) {
	counts := CountsFromRaw(map[string]string{"bills_100_qty": "1"})
	got := ComputeTotals(counts, "90,000,000,000,000,000", "90,000,000,000,000,000")

	assert.Equal(t, int64(0), got.RegistersCents)
	assert.Equal(t, int64(10000), got.GrandCents)
	assert.Equal(t, got.BillsCents+got.RegistersCents+got.CoinsCents, got.GrandCents)

	got = ComputeTotals(counts, "10,000,000,000,000", "10,000,000,000,000")
	assert.Equal(t, 2*MaxAmountCents, got.RegistersCents)
	assert.Equal(t, got.BillsCents+got.RegistersCents+got.CoinsCents, got.GrandCents)
	assert.Positive(t, got.GrandCents)
}

func TestCashCountEntryTotals(t *testing.T) {
	e := &CashCountEntry{Counts: DenominationCounts{Bills20: 1, Dimes: 5}, Reg1Cents: 100, Reg2Cents: 200}
	got := e.Totals()
	assert.Equal(t, int64(2000+50+300), got.GrandCents)
}
