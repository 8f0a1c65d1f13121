package domain

import (
	"errors"
	"testing"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		currency string
		wantErr  error
	}{
		{name: "valid amount", amount: 100000, currency: "UGX"},
		{name: "zero amount", amount: 0, currency: "UGX"},
		{name: "negative amount", amount: -1, currency: "UGX", wantErr: ErrNegativeAmount},
		{name: "blank currency", amount: 100, currency: "  ", wantErr: ErrBlankCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoney(tt.amount, tt.currency)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewMoney() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewMoney() unexpected error: %v", err)
			}
			if m.Amount < 0 {
				t.Errorf("NewMoney() produced negative amount %d", m.Amount)
			}
		})
	}
}

func TestMoneyNegativeAlwaysFails(t *testing.T) {
	for _, amount := range []int64{-1, -100, -100000} {
		if _, err := NewMoney(amount, "UGX"); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("NewMoney(%d) error = %v, want ErrInvalidArgument", amount, err)
		}
	}
}

func TestMoneyAdd(t *testing.T) {
	a, _ := NewMoney(100000, "UGX")
	b, _ := NewMoney(20000, "UGX")

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}
	if sum.Amount != 120000 || sum.Currency != "UGX" {
		t.Errorf("Add() = %v, want 120000 UGX", sum)
	}

	other, _ := NewMoney(50, "KES")
	if _, err := a.Add(other); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Add() cross-currency error = %v, want ErrCurrencyMismatch", err)
	}
}

func TestMoneySubtractFloorsAtZero(t *testing.T) {
	a, _ := NewMoney(20000, "UGX")
	b, _ := NewMoney(25000, "UGX")

	got, err := a.Subtract(b)
	if err != nil {
		t.Fatalf("Subtract() unexpected error: %v", err)
	}
	if got.Amount != 0 {
		t.Errorf("Subtract() = %d, want clamp at 0", got.Amount)
	}

	diff, err := a.SignedDiff(b)
	if err != nil {
		t.Fatalf("SignedDiff() unexpected error: %v", err)
	}
	if diff != -5000 {
		t.Errorf("SignedDiff() = %d, want -5000", diff)
	}
}

func TestMoneyPercent(t *testing.T) {
	tests := []struct {
		amount int64
		pct    float64
		want   int64
	}{
		{amount: 120000, pct: 50, want: 60000},
		{amount: 100000, pct: 100, want: 100000},
		{amount: 100000, pct: 0, want: 0},
		{amount: 333, pct: 33.3, want: 111},
		{amount: 101, pct: 50, want: 51}, // rounds half up
	}

	for _, tt := range tests {
		m, _ := NewMoney(tt.amount, "UGX")
		if got := m.Percent(tt.pct); got.Amount != tt.want {
			t.Errorf("Percent(%v) of %d = %d, want %d", tt.pct, tt.amount, got.Amount, tt.want)
		}
	}
}

func TestMoneyComparison(t *testing.T) {
	a, _ := NewMoney(100, "UGX")
	b, _ := NewMoney(100, "UGX")
	c, _ := NewMoney(100, "KES")

	if !a.Equals(b) {
		t.Error("Equals() same amount+currency should be true")
	}
	if a.Equals(c) {
		t.Error("Equals() different currency should be false")
	}
	if _, err := a.LessThan(c); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("LessThan() cross-currency error = %v, want ErrCurrencyMismatch", err)
	}
}
