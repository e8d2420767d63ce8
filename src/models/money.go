package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits every stored amount carries.
const MoneyScale = 2

var ErrInvalidAmount = errors.New("invalid amount")

// Money is a fixed-point amount with two fractional digits. It is stored as
// NUMERIC(10,2) and rendered in JSON as a bare number such as 200.00.
type Money struct {
	decimal.Decimal
}

// NewMoney rounds d to the money scale.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(MoneyScale)}
}

// MoneyFromCents builds an amount from its smallest unit.
func MoneyFromCents(cents int64) Money {
	return Money{Decimal: decimal.New(cents, -MoneyScale)}
}

// ZeroMoney is 0.00.
func ZeroMoney() Money {
	return MoneyFromCents(0)
}

// ParseMoney parses a decimal string ("12", "12.3", "12.30"). Values that
// would lose precision at two fractional digits are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !d.Equal(d.Truncate(MoneyScale)) {
		return Money{}, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, MoneyScale)
	}
	return NewMoney(d), nil
}

// Add returns m + o without leaving fixed-point arithmetic.
func (m Money) Add(o Money) Money {
	return NewMoney(m.Decimal.Add(o.Decimal))
}

// String renders the amount with exactly two decimals.
func (m Money) String() string {
	return m.StringFixed(MoneyScale)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(MoneyScale)), nil
}

// UnmarshalJSON accepts both JSON numbers and numeric strings.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	v, err := ParseMoney(strings.Trim(s, `"`))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
