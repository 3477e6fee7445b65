package forms

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MaxAmountCents bounds every amount a form accepts or computes. Ten
// trillion dollars leaves room to add a handful of them without leaving
// int64.
const MaxAmountCents int64 = 1_000_000_000_000_000

const (
	maxNumberLen   = 40
	maxNumberScale = 20
)

var (
	hundred      = decimal.NewFromInt(100)
	maxAmountDec = decimal.NewFromInt(MaxAmountCents)
	looseCleaner = regexp.MustCompile(`[^0-9.\-]`)
)

// ParseNumber parses user input as a decimal, refusing long strings and
// exponents outside +/-20 before any arithmetic runs on the value.
func ParseNumber(s string) (decimal.Decimal, bool) {
	if len(s) > maxNumberLen {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > maxNumberScale || exp < -maxNumberScale {
		return decimal.Zero, false
	}
	return d, true
}

// ParseCents converts a dollar amount typed by a user ("$1,234.5",
// "2332.62", " 12 ") into integer cents, rounding half away from zero.
// Anything that does not parse as a finite number, or lands beyond
// MaxAmountCents either way, yields 0.
func ParseCents(s string) int64 {
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	return parseCleanCents(s)
}

// ParseLooseCents drops every character other than digits, dot and minus
// before parsing, so "USD 12.50" reads as 1250. Loteria, cash payment,
// transfer and daily sheets parse their money fields this way.
func ParseLooseCents(s string) int64 {
	return parseCleanCents(looseCleaner.ReplaceAllString(s, ""))
}

// RegisterCents parses a register amount. Registers never hold negative cash,
// so negative input is clamped to 0.
func RegisterCents(s string) int64 {
	c := ParseCents(s)
	if c < 0 {
		return 0
	}
	return c
}

func parseCleanCents(s string) int64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" {
		return 0
	}
	d, ok := ParseNumber(s)
	if !ok {
		return 0
	}
	cents := d.Mul(hundred).Round(0)
	if cents.Abs().GreaterThan(maxAmountDec) {
		return 0
	}
	return cents.IntPart()
}

// FormatCents renders cents as US dollars, e.g. 37345 -> "$373.45".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := message.NewPrinter(language.AmericanEnglish).Sprintf("%d", cents/100)
	return fmt.Sprintf("%s$%s.%02d", sign, whole, cents%100)
}
