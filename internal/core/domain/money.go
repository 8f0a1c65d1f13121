package domain

import (
	"fmt"
	"math"
	"strings"
)

// Money holds an exact, non-negative amount in the smallest unit of its
// currency. Example: 1000 UGX is stored as 1000. Values are immutable;
// arithmetic returns new values.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// NewMoney creates a Money value. Negative amounts and blank currency
// codes are rejected.
func NewMoney(amount int64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, ErrNegativeAmount
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return Money{}, ErrBlankCurrency
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// Zero returns the zero value in the given currency.
func Zero(currency string) Money {
	return Money{Amount: 0, Currency: strings.ToUpper(strings.TrimSpace(currency))}
}

// Add adds two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Subtract subtracts other from m, flooring the result at zero. The
// signed difference is available through SignedDiff for callers that
// need to see how far below zero the raw result went.
func (m Money) Subtract(other Money) (Money, error) {
	diff, err := m.SignedDiff(other)
	if err != nil {
		return Money{}, err
	}
	if diff < 0 {
		diff = 0
	}
	return Money{Amount: diff, Currency: m.Currency}, nil
}

// SignedDiff returns m - other as a plain signed amount. Intermediate
// balance arithmetic is done on this value and clamped back into a Money
// only at the boundary.
func (m Money) SignedDiff(other Money) (int64, error) {
	if err := m.sameCurrency(other); err != nil {
		return 0, err
	}
	return m.Amount - other.Amount, nil
}

// Percent returns the given percentage of m, rounded to the nearest unit.
func (m Money) Percent(pct float64) Money {
	amount := int64(math.Round(float64(m.Amount) * pct / 100))
	return Money{Amount: amount, Currency: m.Currency}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// Equals reports structural equality (amount and currency).
func (m Money) Equals(other Money) bool {
	return m.Amount == other.Amount && m.Currency == other.Currency
}

// LessThan compares two amounts of the same currency.
func (m Money) LessThan(other Money) (bool, error) {
	if err := m.sameCurrency(other); err != nil {
		return false, err
	}
	return m.Amount < other.Amount, nil
}

// String renders the amount with its currency code, e.g. "100000 UGX".
func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.Amount, m.Currency)
}

func (m Money) sameCurrency(other Money) error {
	if m.Currency != other.Currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return nil
}
