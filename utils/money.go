package utils

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

var ErrCentsOutOfRange = errors.New("amount does not fit in cents")

// ToCents converts a dollar amount to integer cents, rounding half away
// from zero. Amounts whose cents overflow int64 are rejected.
func ToCents(amount decimal.Decimal) (int64, error) {
	cents := amount.Mul(hundred).Round(0).BigInt()
	if !cents.IsInt64() {
		return 0, ErrCentsOutOfRange
	}
	return cents.Int64(), nil
}

// FromCents converts integer cents back to a dollar amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatCurrency renders cents as US dollars, e.g. 123456 -> "$1,234.56".
func FormatCurrency(cents int64) string {
	fixed := FromCents(cents).Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if cents < 0 {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
