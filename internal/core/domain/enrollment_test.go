package domain

import (
	"errors"
	"testing"
	"time"
)

func newTestEnrollment(t *testing.T) *Enrollment {
	t.Helper()
	e, err := NewEnrollment("enr-1", "stu-1", "class-p5", "year-2026", "fs-1",
		time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), testNow)
	if err != nil {
		t.Fatalf("NewEnrollment() unexpected error: %v", err)
	}
	return e
}

// Structure with one mandatory item (tuition 100,000) and one optional
// item (transport 20,000).
func newBoundStructure(t *testing.T) *FeeStructure {
	t.Helper()
	fs := newTestStructure(t)
	if err := fs.AddFeeItem("tuition", ugx(t, 100000), false, 1, testNow); err != nil {
		t.Fatalf("AddFeeItem(tuition) unexpected error: %v", err)
	}
	if err := fs.AddFeeItem("transport", ugx(t, 20000), true, 2, testNow); err != nil {
		t.Fatalf("AddFeeItem(transport) unexpected error: %v", err)
	}
	return fs
}

func mustPay(t *testing.T, e *Enrollment, fs *FeeStructure, id string, amount int64, ref string) {
	t.Helper()
	p, err := NewPayment(id, e.ID, "bursar-1", ugx(t, amount),
		time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), "CASH", ref, "", testNow)
	if err != nil {
		t.Fatalf("NewPayment() unexpected error: %v", err)
	}
	if err := e.AddPayment(fs, p, testNow); err != nil {
		t.Fatalf("AddPayment() unexpected error: %v", err)
	}
}

func mustGrant(t *testing.T, e *Enrollment, id string, typ ScholarshipType, pct float64) {
	t.Helper()
	s, err := NewScholarship(id, e.ID, typ, pct, "", testNow)
	if err != nil {
		t.Fatalf("NewScholarship() unexpected error: %v", err)
	}
	if err := e.AddScholarship(s, testNow); err != nil {
		t.Fatalf("AddScholarship() unexpected error: %v", err)
	}
}

func balance(t *testing.T, e *Enrollment, fs *FeeStructure) *BalanceSummary {
	t.Helper()
	summary, err := e.CalculateBalance(fs)
	if err != nil {
		t.Fatalf("CalculateBalance() unexpected error: %v", err)
	}
	return summary
}

func TestNewEnrollmentRequiresIDs(t *testing.T) {
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	if _, err := NewEnrollment("enr-1", "", "class-p5", "year-2026", "fs-1", date, testNow); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("blank student id error = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewEnrollment("enr-1", "stu-1", "class-p5", "year-2026", " ", date, testNow); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("blank fee structure id error = %v, want ErrInvalidArgument", err)
	}

	e := newTestEnrollment(t)
	if !e.IsActive {
		t.Error("new enrollment should be active")
	}
}

// End-to-end scenario from the billing rules: enroll, pay, select the
// optional fee, grant a scholarship, overpay.
func TestEnrollmentBillingScenario(t *testing.T) {
	fs := newBoundStructure(t)
	e := newTestEnrollment(t)

	// No optional fee, no scholarship, one payment of 40,000.
	mustPay(t, e, fs, "pay-1", 40000, "RCPT-001")
	summary := balance(t, e, fs)
	if summary.TotalFees.Amount != 100000 {
		t.Errorf("TotalFees = %d, want 100000", summary.TotalFees.Amount)
	}
	if summary.TotalPaid.Amount != 40000 {
		t.Errorf("TotalPaid = %d, want 40000", summary.TotalPaid.Amount)
	}
	if summary.Balance.Amount != 60000 {
		t.Errorf("Balance = %d, want 60000", summary.Balance.Amount)
	}

	// Selecting transport raises total fees; the payment is unchanged.
	if err := e.SelectOptionalFee(fs, "transport", testNow); err != nil {
		t.Fatalf("SelectOptionalFee() unexpected error: %v", err)
	}
	summary = balance(t, e, fs)
	if summary.TotalFees.Amount != 120000 {
		t.Errorf("TotalFees = %d, want 120000", summary.TotalFees.Amount)
	}
	if summary.Balance.Amount != 80000 {
		t.Errorf("Balance = %d, want 80000", summary.Balance.Amount)
	}

	// A 50% partial scholarship discounts the current total, optional
	// fee included.
	mustGrant(t, e, "sch-1", ScholarshipPartial, 50)
	summary = balance(t, e, fs)
	if summary.ScholarshipDiscount.Amount != 60000 {
		t.Errorf("ScholarshipDiscount = %d, want 60000", summary.ScholarshipDiscount.Amount)
	}
	if summary.NetFees.Amount != 60000 {
		t.Errorf("NetFees = %d, want 60000", summary.NetFees.Amount)
	}
	if summary.Balance.Amount != 20000 {
		t.Errorf("Balance = %d, want 20000", summary.Balance.Amount)
	}

	// Overpayment clamps the balance at zero, never negative; the
	// surplus is reported as credit.
	mustPay(t, e, fs, "pay-2", 25000, "RCPT-002")
	summary = balance(t, e, fs)
	if summary.Balance.Amount != 0 {
		t.Errorf("Balance = %d, want 0 after overpayment", summary.Balance.Amount)
	}
	if summary.Credit.Amount != 5000 {
		t.Errorf("Credit = %d, want 5000", summary.Credit.Amount)
	}
}

func TestScholarshipStackingCapsAtHundredPercent(t *testing.T) {
	fs := newBoundStructure(t)
	e := newTestEnrollment(t)

	mustGrant(t, e, "sch-1", ScholarshipPartial, 60)
	mustGrant(t, e, "sch-2", ScholarshipBursary, 70)

	if pct := e.ActiveDiscountPercent(); pct != 100 {
		t.Errorf("ActiveDiscountPercent() = %v, want cap at 100", pct)
	}

	summary := balance(t, e, fs)
	if summary.ScholarshipDiscount.Amount != 100000 {
		t.Errorf("ScholarshipDiscount = %d, want exactly total fees (100000)", summary.ScholarshipDiscount.Amount)
	}
	if summary.Balance.Amount != 0 {
		t.Errorf("Balance = %d, want 0", summary.Balance.Amount)
	}
}

func TestBalanceNeverNegative(t *testing.T) {
	fs := newBoundStructure(t)
	e := newTestEnrollment(t)

	mustGrant(t, e, "sch-1", ScholarshipFull, 100)
	mustPay(t, e, fs, "pay-1", 500000, "RCPT-001") // wildly overpaid on a fully waived ledger

	summary := balance(t, e, fs)
	if summary.Balance.Amount < 0 {
		t.Fatalf("Balance = %d, must never be negative", summary.Balance.Amount)
	}
	if summary.Balance.Amount != 0 {
		t.Errorf("Balance = %d, want 0", summary.Balance.Amount)
	}
}

func TestAddScholarshipRejectsDuplicateActiveType(t *testing.T) {
	e := newTestEnrollment(t)
	mustGrant(t, e, "sch-1", ScholarshipPartial, 30)

	dup, err := NewScholarship("sch-2", e.ID, ScholarshipPartial, 20, "", testNow)
	if err != nil {
		t.Fatalf("NewScholarship() unexpected error: %v", err)
	}
	if err := e.AddScholarship(dup, testNow); !errors.Is(err, ErrConflict) {
		t.Errorf("AddScholarship() duplicate type error = %v, want ErrConflict", err)
	}

	// After revoking the first, the same type can be granted again.
	if err := e.RevokeScholarship("sch-1", testNow); err != nil {
		t.Fatalf("RevokeScholarship() unexpected error: %v", err)
	}
	if err := e.AddScholarship(dup, testNow); err != nil {
		t.Errorf("AddScholarship() after revoke error = %v, want nil", err)
	}

	if err := e.RevokeScholarship("missing", testNow); !errors.Is(err, ErrScholarshipNotFound) {
		t.Errorf("RevokeScholarship(missing) error = %v, want ErrScholarshipNotFound", err)
	}
}

func TestOptionalFeeSelectionRules(t *testing.T) {
	fs := newBoundStructure(t)
	e := newTestEnrollment(t)

	if err := e.SelectOptionalFee(fs, "tuition", testNow); !errors.Is(err, ErrFeeItemNotOptional) {
		t.Errorf("selecting mandatory item error = %v, want ErrFeeItemNotOptional", err)
	}
	if err := e.SelectOptionalFee(fs, "swimming", testNow); !errors.Is(err, ErrFeeItemNotInStructure) {
		t.Errorf("selecting unknown item error = %v, want ErrFeeItemNotInStructure", err)
	}

	if err := e.SelectOptionalFee(fs, "transport", testNow); err != nil {
		t.Fatalf("SelectOptionalFee() unexpected error: %v", err)
	}
	if err := e.SelectOptionalFee(fs, "transport", testNow); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate selection error = %v, want ErrConflict", err)
	}

	// Removing an unselected fee is a no-op, removing a selected one works.
	e.RemoveOptionalFee("swimming", testNow)
	e.RemoveOptionalFee("transport", testNow)
	e.RemoveOptionalFee("transport", testNow)
	if len(e.OptionalFees) != 0 {
		t.Errorf("OptionalFees = %d, want 0", len(e.OptionalFees))
	}
}

func TestOptionalFeeAmountFrozenAtSelection(t *testing.T) {
	fs := newBoundStructure(t)
	e := newTestEnrollment(t)

	if err := e.SelectOptionalFee(fs, "transport", testNow); err != nil {
		t.Fatalf("SelectOptionalFee() unexpected error: %v", err)
	}

	// Re-pricing the structure afterwards must not change the frozen
	// selection amount.
	if err := fs.UpdateFeeItemAmount("transport", ugx(t, 35000), testNow); err != nil {
		t.Fatalf("UpdateFeeItemAmount() unexpected error: %v", err)
	}

	summary := balance(t, e, fs)
	if summary.OptionalFees.Amount != 20000 {
		t.Errorf("OptionalFees = %d, want frozen 20000", summary.OptionalFees.Amount)
	}
}

func TestAddPaymentCurrencyAndStructureRules(t *testing.T) {
	fs := newBoundStructure(t)
	e := newTestEnrollment(t)
	date := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	// The ledger runs in the structure's currency, even for the very
	// first payment on a fresh enrollment.
	kes, err := NewMoney(40000, "KES")
	if err != nil {
		t.Fatalf("NewMoney() unexpected error: %v", err)
	}
	foreign, err := NewPayment("pay-1", e.ID, "bursar-1", kes, date, "CASH", "RCPT-001", "", testNow)
	if err != nil {
		t.Fatalf("NewPayment() unexpected error: %v", err)
	}
	if err := e.AddPayment(fs, foreign, testNow); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("AddPayment() foreign currency error = %v, want ErrCurrencyMismatch", err)
	}
	if len(e.Payments) != 0 {
		t.Fatalf("Payments = %d, want 0 after rejected payment", len(e.Payments))
	}

	// A structure other than the bound one is rejected outright.
	other, err := NewFeeStructure("fs-99", "P6 Term 1", "", "class-p6", "UGX",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil, testNow)
	if err != nil {
		t.Fatalf("NewFeeStructure() unexpected error: %v", err)
	}
	ok, err := NewPayment("pay-2", e.ID, "bursar-1", ugx(t, 40000), date, "CASH", "RCPT-002", "", testNow)
	if err != nil {
		t.Fatalf("NewPayment() unexpected error: %v", err)
	}
	if err := e.AddPayment(other, ok, testNow); !errors.Is(err, ErrStructureMismatch) {
		t.Errorf("AddPayment() wrong structure error = %v, want ErrStructureMismatch", err)
	}

	// The rejected payments never poison the balance.
	summary := balance(t, e, fs)
	if summary.Balance.Amount != 100000 {
		t.Errorf("Balance = %d, want 100000", summary.Balance.Amount)
	}
}

func TestTransferRules(t *testing.T) {
	e := newTestEnrollment(t)

	if err := e.Transfer("", "fs-2", testNow); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Transfer() blank class error = %v, want ErrInvalidArgument", err)
	}
	if err := e.Transfer("class-p6", "fs-2", testNow); err != nil {
		t.Fatalf("Transfer() unexpected error: %v", err)
	}
	if e.ClassID != "class-p6" || e.FeeStructureID != "fs-2" {
		t.Errorf("Transfer() not applied: class=%s structure=%s", e.ClassID, e.FeeStructureID)
	}
	if !e.IsActive {
		t.Error("Transfer() must keep the enrollment active")
	}

	e.MarkAsInactive(testNow)
	if err := e.Transfer("class-p7", "fs-3", testNow); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("Transfer() on inactive enrollment error = %v, want ErrInvalidOperation", err)
	}
}

func TestInactiveEnrollmentKeepsQueryableBalance(t *testing.T) {
	fs := newBoundStructure(t)
	e := newTestEnrollment(t)
	mustPay(t, e, fs, "pay-1", 40000, "RCPT-001")

	e.MarkAsInactive(testNow)

	summary := balance(t, e, fs)
	if summary.Balance.Amount != 60000 {
		t.Errorf("historical Balance = %d, want 60000", summary.Balance.Amount)
	}

	// Mutations that change what is owed are rejected once inactive.
	if err := e.SelectOptionalFee(fs, "transport", testNow); !errors.Is(err, ErrEnrollmentInactive) {
		t.Errorf("SelectOptionalFee() on inactive error = %v, want ErrEnrollmentInactive", err)
	}
	s, _ := NewScholarship("sch-1", e.ID, ScholarshipPartial, 10, "", testNow)
	if err := e.AddScholarship(s, testNow); !errors.Is(err, ErrEnrollmentInactive) {
		t.Errorf("AddScholarship() on inactive error = %v, want ErrEnrollmentInactive", err)
	}
}

func TestCalculateBalanceRequiresBoundStructure(t *testing.T) {
	e := newTestEnrollment(t)
	other, err := NewFeeStructure("fs-99", "P6 Term 1", "", "class-p6", "UGX",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil, testNow)
	if err != nil {
		t.Fatalf("NewFeeStructure() unexpected error: %v", err)
	}

	if _, err := e.CalculateBalance(other); !errors.Is(err, ErrStructureMismatch) {
		t.Errorf("CalculateBalance() wrong structure error = %v, want ErrStructureMismatch", err)
	}
	if _, err := e.CalculateBalance(nil); !errors.Is(err, ErrStructureMismatch) {
		t.Errorf("CalculateBalance(nil) error = %v, want ErrStructureMismatch", err)
	}
}
