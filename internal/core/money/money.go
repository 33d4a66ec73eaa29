// Package money converts between the integer cents stored in the database and
// the decimal currency amounts exchanged over the API.
package money

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var ErrOutOfRange = errors.New("amount does not fit in int64 cents")

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// ToCents converts a currency amount to whole cents, rounding half away from zero.
func ToCents(amount decimal.Decimal) (int64, error) {
	cents := amount.Mul(hundred).Round(0)
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return 0, ErrOutOfRange
	}
	return cents.IntPart(), nil
}

// FromCents is exact: the result has at most two decimal places.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Amount is a currency value that encodes as a bare JSON number with two
// decimal places, e.g. 12.50.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

func AmountFromCents(cents int64) Amount {
	return Amount{Decimal: FromCents(cents)}
}

func (a Amount) Cents() (int64, error) {
	return ToCents(a.Decimal)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(2)), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}
