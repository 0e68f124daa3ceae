package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in the smallest currency unit. All stored
// amounts are integer cents; decimals only appear at the parsing and
// presentation edges.
type Cents int64

var hundred = decimal.New(100, 0)

// Decimal returns the major-unit representation, e.g. 24999 -> 249.99.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats the amount with two fractional digits.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// ParseCents converts a major-unit price string ("249.99") into cents.
// Inputs with sub-cent precision are rejected rather than rounded.
func ParseCents(value string) (Cents, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	scaled := d.Mul(hundred)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has sub-cent precision", value)
	}
	return Cents(scaled.IntPart()), nil
}

// CentsFromDecimal converts a major-unit decimal into cents, rounding
// half away from zero.
func CentsFromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Mul(hundred).Round(0).IntPart())
}
