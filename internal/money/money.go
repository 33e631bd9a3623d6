// Package money holds exact currency amounts with two fractional digits.
package money

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits of every amount.
const Scale = 2

var (
	// ErrTooPrecise is returned when a value carries more than two fractional digits.
	ErrTooPrecise = errors.New("amount has more than two decimal places")
	// ErrOutOfRange is returned when a value does not fit in an int64 count of cents.
	ErrOutOfRange = errors.New("amount out of range")
)

// Amount is a currency value in cents.
type Amount int64

// Cents returns a from a count of cents.
func Cents(c int64) Amount {
	return Amount(c)
}

// Parse converts a decimal string such as "100", "33.3" or "-0.01" into an Amount.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	return FromDecimal(d)
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return a
}

// FromDecimal converts d into an Amount, rejecting values that would need
// rounding or do not fit.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	if !d.Equal(d.Truncate(Scale)) {
		return 0, fmt.Errorf("%w: %s", ErrTooPrecise, d.String())
	}

	cents := d.Shift(Scale).BigInt()
	if !cents.IsInt64() {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, d.String())
	}

	return Amount(cents.Int64()), nil
}

// Decimal returns a as a decimal.Decimal.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Scale)
}

// String formats a with exactly two fractional digits.
func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

// Cents returns a as a count of cents.
func (a Amount) Cents() int64 { return int64(a) }

func (a Amount) IsPositive() bool { return a > 0 }
func (a Amount) IsNegative() bool { return a < 0 }

// Sum adds up amounts. A total that does not fit is ErrOutOfRange, never wrapped.
func Sum(amounts ...Amount) (Amount, error) {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Decimal())
	}

	return FromDecimal(total)
}

// MarshalJSON writes a as a JSON number with two fractional digits.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string. null is a no-op.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	raw := bytes.Trim(data, `"`)
	if len(raw) == 0 {
		return errors.New("empty amount")
	}

	parsed, err := Parse(string(raw))
	if err != nil {
		return err
	}

	*a = parsed

	return nil
}
