// Package money holds the decimal amount type used for every monetary field.
//
// Amounts are rupees with at most two fractional digits. Values are parsed from their
// textual form so comparisons such as amount > refundable never go through float64.
package money

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits an amount may carry.
const Scale = 2

var (
	// ErrInvalidAmount is returned when a value cannot be parsed as a decimal amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrTooPrecise is returned when a value carries more than two fractional digits.
	ErrTooPrecise = errors.New("amount has more than 2 decimal places")
)

// Amount is an exact decimal value. The zero value is 0.
type Amount struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// New builds an amount from a whole number of rupees.
func New(rupees int64) Amount {
	return Amount{d: decimal.NewFromInt(rupees)}
}

// FromMinor builds an amount from paise.
func FromMinor(paise int64) Amount {
	return Amount{d: decimal.New(paise, -Scale)}
}

// FromDecimal wraps an existing decimal value.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

// Parse reads a decimal string such as "1000", "399.50" or "-2.5".
func Parse(s string) (Amount, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Zero, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Amount{d: d}, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Decimal exposes the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal { return a.d }

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }
func (a Amount) Cmp(b Amount) int    { return a.d.Cmp(b.d) }

func (a Amount) Equal(b Amount) bool       { return a.d.Equal(b.d) }
func (a Amount) GreaterThan(b Amount) bool { return a.d.GreaterThan(b.d) }
func (a Amount) LessThan(b Amount) bool    { return a.d.LessThan(b.d) }
func (a Amount) IsZero() bool              { return a.d.IsZero() }
func (a Amount) IsPositive() bool          { return a.d.IsPositive() }
func (a Amount) IsNegative() bool          { return a.d.IsNegative() }

// ClampZero returns a, or zero when a is negative.
func (a Amount) ClampZero() Amount {
	if a.d.IsNegative() {
		return Zero
	}
	return a
}

// Max returns the larger of a and b.
func Max(a, b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Sum adds all amounts.
func Sum(amounts ...Amount) Amount {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// CheckScale reports ErrTooPrecise when a has more than two fractional digits.
func (a Amount) CheckScale() error {
	if !a.d.Equal(a.d.Truncate(Scale)) {
		return ErrTooPrecise
	}
	return nil
}

// Minor returns the amount in paise, rounding half away from zero.
func (a Amount) Minor() int64 {
	return a.d.Shift(Scale).Round(0).IntPart()
}

// String renders the amount with exactly two fractional digits.
func (a Amount) String() string {
	return a.d.StringFixed(Scale)
}

// MarshalJSON writes the amount as a JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.String()), nil
}

// UnmarshalJSON accepts a JSON number, a numeric string, or null (zero).
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		a.d = decimal.Zero
		return nil
	}
	if trimmed[0] == '"' {
		trimmed = bytes.Trim(trimmed, `"`)
	}
	d, err := decimal.NewFromString(string(trimmed))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, string(data))
	}
	a.d = d
	return nil
}
