package domain

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func newTestStructure(t *testing.T) *FeeStructure {
	t.Helper()
	fs, err := NewFeeStructure("fs-1", "P5 Term 1 2026", "", "class-p5", "UGX",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil, testNow)
	if err != nil {
		t.Fatalf("NewFeeStructure() unexpected error: %v", err)
	}
	return fs
}

func ugx(t *testing.T, amount int64) Money {
	t.Helper()
	m, err := NewMoney(amount, "UGX")
	if err != nil {
		t.Fatalf("NewMoney(%d) unexpected error: %v", amount, err)
	}
	return m
}

func TestNewFeeStructureValidation(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	badTo := from.AddDate(0, -1, 0)

	if _, err := NewFeeStructure("fs-2", " ", "", "class-p5", "UGX", from, nil, testNow); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("blank name error = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewFeeStructure("fs-2", "P5", "", "class-p5", "UGX", from, &badTo, testNow); !errors.Is(err, ErrBadEffectiveWindow) {
		t.Errorf("inverted window error = %v, want ErrBadEffectiveWindow", err)
	}
	if _, err := NewFeeStructure("fs-2", "P5", "", "class-p5", "UGX", from, &from, testNow); !errors.Is(err, ErrBadEffectiveWindow) {
		t.Errorf("effective_to == effective_from error = %v, want ErrBadEffectiveWindow", err)
	}
}

func TestFeeStructureAddDuplicateFeeItem(t *testing.T) {
	fs := newTestStructure(t)

	if err := fs.AddFeeItem("tuition", ugx(t, 100000), false, 1, testNow); err != nil {
		t.Fatalf("AddFeeItem() unexpected error: %v", err)
	}
	if err := fs.AddFeeItem("tuition", ugx(t, 90000), false, 2, testNow); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate AddFeeItem() error = %v, want ErrConflict", err)
	}
}

func TestFeeStructureRemoveIsIdempotent(t *testing.T) {
	fs := newTestStructure(t)
	if err := fs.AddFeeItem("tuition", ugx(t, 100000), false, 1, testNow); err != nil {
		t.Fatalf("AddFeeItem() unexpected error: %v", err)
	}

	fs.RemoveFeeItem("transport", testNow) // never attached, no-op
	fs.RemoveFeeItem("tuition", testNow)
	fs.RemoveFeeItem("tuition", testNow) // already gone, no-op

	if len(fs.Items) != 0 {
		t.Errorf("Items = %d, want 0", len(fs.Items))
	}
}

func TestFeeStructureTotals(t *testing.T) {
	fs := newTestStructure(t)
	mustAdd := func(id string, amount int64, optional bool, order int) {
		t.Helper()
		if err := fs.AddFeeItem(id, ugx(t, amount), optional, order, testNow); err != nil {
			t.Fatalf("AddFeeItem(%s) unexpected error: %v", id, err)
		}
	}
	mustAdd("tuition", 100000, false, 1)
	mustAdd("library", 15000, false, 2)
	mustAdd("transport", 20000, true, 3)

	if got := fs.TotalFees(); got.Amount != 115000 {
		t.Errorf("TotalFees() = %d, want 115000", got.Amount)
	}
	if got := fs.TotalWithOptionalFees(); got.Amount != 135000 {
		t.Errorf("TotalWithOptionalFees() = %d, want 135000", got.Amount)
	}

	// Mandatory total can never exceed the all-items total.
	mandatory := fs.TotalFees()
	all := fs.TotalWithOptionalFees()
	if less, _ := all.LessThan(mandatory); less {
		t.Error("TotalWithOptionalFees() < TotalFees()")
	}
}

func TestFeeStructureRepriceIsIdempotentOnAbsent(t *testing.T) {
	fs := newTestStructure(t)
	if err := fs.AddFeeItem("transport", ugx(t, 20000), true, 1, testNow); err != nil {
		t.Fatalf("AddFeeItem() unexpected error: %v", err)
	}

	if err := fs.UpdateFeeItemAmount("transport", ugx(t, 25000), testNow); err != nil {
		t.Fatalf("UpdateFeeItemAmount() unexpected error: %v", err)
	}
	if got := fs.Item("transport").Amount.Amount; got != 25000 {
		t.Errorf("re-priced amount = %d, want 25000", got)
	}

	// Absent item: no error, no change.
	if err := fs.UpdateFeeItemAmount("meals", ugx(t, 5000), testNow); err != nil {
		t.Errorf("UpdateFeeItemAmount() on absent item error = %v, want nil", err)
	}
}

func TestFeeStructureIsEffective(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	fs, err := NewFeeStructure("fs-3", "P5 Term 1", "", "class-p5", "UGX", from, &to, testNow)
	if err != nil {
		t.Fatalf("NewFeeStructure() unexpected error: %v", err)
	}

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{name: "before window", date: from.AddDate(0, 0, -1), want: false},
		{name: "window start", date: from, want: true},
		{name: "inside window", date: from.AddDate(0, 1, 0), want: true},
		{name: "window end", date: to, want: true},
		{name: "after window", date: to.AddDate(0, 0, 1), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fs.IsEffective(tt.date); got != tt.want {
				t.Errorf("IsEffective(%s) = %v, want %v", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}

	// Open-ended structure stays effective indefinitely.
	open := newTestStructure(t)
	if !open.IsEffective(from.AddDate(10, 0, 0)) {
		t.Error("open-ended structure should be effective far in the future")
	}
}

func TestFeeItemValidation(t *testing.T) {
	if _, err := NewFeeItem("fi-1", "  ", "", "ACADEMIC", "TUI", testNow); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("blank name error = %v, want ErrInvalidArgument", err)
	}

	item, err := NewFeeItem("fi-1", "Tuition", "Termly tuition", "ACADEMIC", "tui", testNow)
	if err != nil {
		t.Fatalf("NewFeeItem() unexpected error: %v", err)
	}
	if item.Code != "TUI" {
		t.Errorf("Code = %q, want normalized %q", item.Code, "TUI")
	}
	if !item.IsActive {
		t.Error("new fee item should be active")
	}

	if err := item.Update("", "", "ACADEMIC", true, testNow); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Update() blank name error = %v, want ErrInvalidArgument", err)
	}

	item.Deactivate(testNow)
	if item.IsActive {
		t.Error("Deactivate() should clear IsActive")
	}
}

func TestScholarshipPercentageBounds(t *testing.T) {
	for _, pct := range []float64{-0.1, 100.1, 250} {
		if _, err := NewScholarship("sch-1", "enr-1", ScholarshipPartial, pct, "", testNow); !errors.Is(err, ErrPercentageOutOfRange) {
			t.Errorf("NewScholarship(pct=%v) error = %v, want ErrPercentageOutOfRange", pct, err)
		}
	}

	s, err := NewScholarship("sch-1", "enr-1", ScholarshipPartial, 50, "half bursary", testNow)
	if err != nil {
		t.Fatalf("NewScholarship() unexpected error: %v", err)
	}
	if err := s.Update(101, "", testNow); !errors.Is(err, ErrPercentageOutOfRange) {
		t.Errorf("Update(101) error = %v, want ErrPercentageOutOfRange", err)
	}
	if err := s.Update(100, "full", testNow); err != nil {
		t.Errorf("Update(100) unexpected error: %v", err)
	}
}

func TestPaymentValidation(t *testing.T) {
	date := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	if _, err := NewPayment("pay-1", "enr-1", "bursar-1", Money{Amount: 0, Currency: "UGX"}, date, "CASH", "RCPT-001", "", testNow); !errors.Is(err, ErrNonPositivePayment) {
		t.Errorf("zero amount error = %v, want ErrNonPositivePayment", err)
	}
	if _, err := NewPayment("pay-1", "enr-1", "bursar-1", ugx(t, 40000), date, " ", "RCPT-001", "", testNow); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("blank method error = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewPayment("pay-1", "enr-1", "bursar-1", ugx(t, 40000), date, "CASH", "", "", testNow); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("blank reference error = %v, want ErrInvalidArgument", err)
	}

	p, err := NewPayment("pay-1", "enr-1", "bursar-1", ugx(t, 40000), date, "CASH", "RCPT-001", "term 1", testNow)
	if err != nil {
		t.Fatalf("NewPayment() unexpected error: %v", err)
	}
	if err := p.Update(Money{Amount: -5, Currency: "UGX"}, date, "CASH", "", testNow); !errors.Is(err, ErrNonPositivePayment) {
		t.Errorf("Update() negative amount error = %v, want ErrNonPositivePayment", err)
	}
	if err := p.Update(ugx(t, 45000), date, "MOBILE_MONEY", "corrected", testNow); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if p.Amount.Amount != 45000 || p.PaymentMethod != "MOBILE_MONEY" {
		t.Errorf("Update() not applied: %+v", p)
	}
}
