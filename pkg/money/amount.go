package money

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	maxQuantity = decimal.NewFromInt(math.MaxInt64)
	minQuantity = decimal.NewFromInt(math.MinInt64)
)

// StripThousands removes comma thousands separators from a broker-formatted
// number ("1,250,000.5" -> "1250000.5"). Other separators are left alone.
func StripThousands(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// ParseAmount parses an amount string, tolerating surrounding whitespace and
// comma thousands separators.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := StripThousands(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount format: %q", s)
	}

	return d, nil
}

// ParseQuantity parses a unit count. Fractional input is truncated toward
// zero, so "10.7" yields 10.
func ParseQuantity(s string) (int64, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return 0, err
	}
	q := d.Truncate(0)
	if q.GreaterThan(maxQuantity) || q.LessThan(minQuantity) {
		return 0, fmt.Errorf("quantity out of range: %q", s)
	}
	return q.IntPart(), nil
}
