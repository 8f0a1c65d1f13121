package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"svs-schoolpay/internal/adapters/persistence/models"
	"svs-schoolpay/internal/adapters/persistence/repositories"
	"svs-schoolpay/internal/core/domain"

	"gorm.io/gorm"
)

// In-memory fakes. Only the methods the billing service touches do real
// work; list projections are not exercised here.

type fakeStudentRepo struct {
	students map[string]*models.Student
}

func (r *fakeStudentRepo) Create(_ context.Context, s *models.Student) error {
	r.students[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id string) (*models.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeStudentRepo) List(_ context.Context, _, _ int) ([]*models.Student, int64, error) {
	return nil, 0, nil
}

func (r *fakeStudentRepo) ExistsByAdmissionNo(_ context.Context, _ string) (bool, error) {
	return false, nil
}

type fakeMasterRepo struct {
	classes map[string]*models.Class
	years   map[string]*models.AcademicYear
}

func (r *fakeMasterRepo) ListClasses(_ context.Context) ([]*models.Class, error) { return nil, nil }

func (r *fakeMasterRepo) GetClass(_ context.Context, id string) (*models.Class, error) {
	c, ok := r.classes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeMasterRepo) ListAcademicYears(_ context.Context) ([]*models.AcademicYear, error) {
	return nil, nil
}

func (r *fakeMasterRepo) GetAcademicYear(_ context.Context, id string) (*models.AcademicYear, error) {
	y, ok := r.years[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return y, nil
}

type fakeFeeStructureRepo struct {
	structures map[string]*domain.FeeStructure
}

func (r *fakeFeeStructureRepo) Create(_ context.Context, fs *domain.FeeStructure) error {
	r.structures[fs.ID] = fs
	return nil
}

func (r *fakeFeeStructureRepo) GetByID(_ context.Context, id string) (*domain.FeeStructure, error) {
	fs, ok := r.structures[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return fs, nil
}

func (r *fakeFeeStructureRepo) GetModelByID(_ context.Context, _ string) (*models.FeeStructure, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFeeStructureRepo) List(_ context.Context, _ string, _, _ int) ([]*models.FeeStructure, int64, error) {
	return nil, 0, nil
}

func (r *fakeFeeStructureRepo) Save(_ context.Context, fs *domain.FeeStructure) error {
	r.structures[fs.ID] = fs
	return nil
}

func (r *fakeFeeStructureRepo) DeactivateExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeEnrollmentRepo struct {
	enrollments map[string]*domain.Enrollment
}

func (r *fakeEnrollmentRepo) Create(_ context.Context, e *domain.Enrollment) error {
	r.enrollments[e.ID] = e
	return nil
}

func (r *fakeEnrollmentRepo) GetByID(_ context.Context, id string) (*domain.Enrollment, error) {
	e, ok := r.enrollments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *fakeEnrollmentRepo) GetModelByID(_ context.Context, _ string) (*models.Enrollment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEnrollmentRepo) List(_ context.Context, _ *repositories.EnrollmentFilter, _, _ int) ([]*models.Enrollment, int64, error) {
	return nil, 0, nil
}

func (r *fakeEnrollmentRepo) Save(_ context.Context, e *domain.Enrollment) error {
	r.enrollments[e.ID] = e
	return nil
}

func (r *fakeEnrollmentRepo) HasActiveEnrollment(_ context.Context, studentID, academicYearID string) (bool, error) {
	for _, e := range r.enrollments {
		if e.StudentID == studentID && e.AcademicYearID == academicYearID && e.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEnrollmentRepo) ExistsPaymentReference(_ context.Context, referenceNumber string) (bool, error) {
	for _, e := range r.enrollments {
		for _, p := range e.Payments {
			if p.ReferenceNumber == referenceNumber {
				return true, nil
			}
		}
	}
	return false, nil
}

type billingFixture struct {
	svc         *BillingService
	enrollments *fakeEnrollmentRepo
	structures  *fakeFeeStructureRepo
	structureID string
}

// newBillingFixture wires a billing service over the fakes with one
// student, two classes, two academic years and a P1 structure: tuition
// 100000 mandatory, transport 20000 optional, priced in UGX.
func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()

	now := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	students := &fakeStudentRepo{students: map[string]*models.Student{
		"student-1": {ID: "student-1", FirstName: "Amina", LastName: "Okello", AdmissionNo: "ADM-001", IsActive: true},
		"student-2": {ID: "student-2", FirstName: "Brian", LastName: "Ssali", AdmissionNo: "ADM-002", IsActive: false},
	}}
	master := &fakeMasterRepo{
		classes: map[string]*models.Class{
			"class-p1": {ID: "class-p1", Name: "P1", Level: 1, IsActive: true},
			"class-p2": {ID: "class-p2", Name: "P2", Level: 2, IsActive: true},
		},
		years: map[string]*models.AcademicYear{
			"year-2026": {ID: "year-2026", Name: "2026", IsActive: true},
			"year-2027": {ID: "year-2027", Name: "2027", IsActive: true},
		},
	}

	fs, err := domain.NewFeeStructure("fs-p1", "P1 Fees 2026", "", "class-p1", "UGX",
		now.AddDate(-1, 0, 0), nil, now)
	if err != nil {
		t.Fatalf("NewFeeStructure: %v", err)
	}
	tuition, _ := domain.NewMoney(100000, "UGX")
	transport, _ := domain.NewMoney(20000, "UGX")
	if err := fs.AddFeeItem("fee-tuition", tuition, false, 1, now); err != nil {
		t.Fatalf("AddFeeItem tuition: %v", err)
	}
	if err := fs.AddFeeItem("fee-transport", transport, true, 2, now); err != nil {
		t.Fatalf("AddFeeItem transport: %v", err)
	}

	structures := &fakeFeeStructureRepo{structures: map[string]*domain.FeeStructure{fs.ID: fs}}
	enrollments := &fakeEnrollmentRepo{enrollments: map[string]*domain.Enrollment{}}

	svc := NewBillingService(enrollments, structures, students, master, NewNotificationService())

	return &billingFixture{
		svc:         svc,
		enrollments: enrollments,
		structures:  structures,
		structureID: fs.ID,
	}
}

func (f *billingFixture) enroll(t *testing.T) *EnrollmentResult {
	t.Helper()
	result, err := f.svc.EnrollStudent(context.Background(), &EnrollStudentInput{
		StudentID:      "student-1",
		ClassID:        "class-p1",
		AcademicYearID: "year-2026",
		FeeStructureID: f.structureID,
	})
	if err != nil {
		t.Fatalf("EnrollStudent: %v", err)
	}
	return result
}

func TestEnrollStudent(t *testing.T) {
	f := newBillingFixture(t)

	result := f.enroll(t)
	if !result.Enrollment.IsActive {
		t.Error("expected new enrollment to be active")
	}
	if result.Balance.Balance.Amount != 100000 {
		t.Errorf("Balance = %d, want 100000", result.Balance.Balance.Amount)
	}

	// Second active enrollment in the same academic year is rejected
	_, err := f.svc.EnrollStudent(context.Background(), &EnrollStudentInput{
		StudentID:      "student-1",
		ClassID:        "class-p1",
		AcademicYearID: "year-2026",
		FeeStructureID: f.structureID,
	})
	if !errors.Is(err, domain.ErrActiveEnrollmentExists) {
		t.Errorf("expected ErrActiveEnrollmentExists, got %v", err)
	}
}

func TestEnrollStudentValidation(t *testing.T) {
	f := newBillingFixture(t)

	tests := []struct {
		name    string
		input   *EnrollStudentInput
		wantErr error
	}{
		{
			"unknown student",
			&EnrollStudentInput{StudentID: "nope", ClassID: "class-p1", AcademicYearID: "year-2026", FeeStructureID: f.structureID},
			ErrStudentNotFound,
		},
		{
			"inactive student",
			&EnrollStudentInput{StudentID: "student-2", ClassID: "class-p1", AcademicYearID: "year-2026", FeeStructureID: f.structureID},
			ErrStudentInactive,
		},
		{
			"unknown class",
			&EnrollStudentInput{StudentID: "student-1", ClassID: "nope", AcademicYearID: "year-2026", FeeStructureID: f.structureID},
			ErrClassNotFound,
		},
		{
			"unknown academic year",
			&EnrollStudentInput{StudentID: "student-1", ClassID: "class-p1", AcademicYearID: "nope", FeeStructureID: f.structureID},
			ErrAcademicYearNotFound,
		},
		{
			"structure bound to another class",
			&EnrollStudentInput{StudentID: "student-1", ClassID: "class-p2", AcademicYearID: "year-2026", FeeStructureID: f.structureID},
			ErrStructureWrongClass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.EnrollStudent(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("EnrollStudent error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBillingFlow(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()
	enrollmentID := f.enroll(t).Enrollment.ID

	// Select the optional transport fee: 100000 + 20000
	result, err := f.svc.SelectOptionalFee(ctx, enrollmentID, "fee-transport")
	if err != nil {
		t.Fatalf("SelectOptionalFee: %v", err)
	}
	if result.Balance.TotalFees.Amount != 120000 {
		t.Errorf("TotalFees = %d, want 120000", result.Balance.TotalFees.Amount)
	}

	// 50% scholarship halves the whole bill
	result, err = f.svc.GrantScholarship(ctx, enrollmentID, &GrantScholarshipInput{
		Type: "PARTIAL", Percentage: 50,
	})
	if err != nil {
		t.Fatalf("GrantScholarship: %v", err)
	}
	if result.Balance.NetFees.Amount != 60000 {
		t.Errorf("NetFees = %d, want 60000", result.Balance.NetFees.Amount)
	}

	// A second active scholarship of the same type is rejected
	_, err = f.svc.GrantScholarship(ctx, enrollmentID, &GrantScholarshipInput{
		Type: "PARTIAL", Percentage: 10,
	})
	if !errors.Is(err, domain.ErrDuplicateScholarship) {
		t.Errorf("expected ErrDuplicateScholarship, got %v", err)
	}

	// First payment
	payResult, err := f.svc.RecordPayment(ctx, enrollmentID, "bursar-1", &RecordPaymentInput{
		Amount: 40000, PaymentMethod: "CASH", ReferenceNumber: "rcpt-100",
	})
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if payResult.Balance.Balance.Amount != 20000 {
		t.Errorf("Balance after first payment = %d, want 20000", payResult.Balance.Balance.Amount)
	}
	if payResult.ReceiptNo == "" {
		t.Error("expected a receipt number")
	}

	// Reference numbers are unique across the whole ledger
	_, err = f.svc.RecordPayment(ctx, enrollmentID, "bursar-1", &RecordPaymentInput{
		Amount: 5000, PaymentMethod: "CASH", ReferenceNumber: "RCPT-100",
	})
	if !errors.Is(err, ErrPaymentReferenceTaken) {
		t.Errorf("expected ErrPaymentReferenceTaken, got %v", err)
	}

	// Overpayment clamps the balance at zero and surfaces credit
	payResult, err = f.svc.RecordPayment(ctx, enrollmentID, "bursar-1", &RecordPaymentInput{
		Amount: 25000, PaymentMethod: "MOBILE_MONEY", ReferenceNumber: "RCPT-101",
	})
	if err != nil {
		t.Fatalf("RecordPayment overpay: %v", err)
	}
	if payResult.Balance.Balance.Amount != 0 {
		t.Errorf("Balance after overpayment = %d, want 0", payResult.Balance.Balance.Amount)
	}
	if payResult.Balance.Credit.Amount != 5000 {
		t.Errorf("Credit = %d, want 5000", payResult.Balance.Credit.Amount)
	}
}

func TestPromote(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()
	oldID := f.enroll(t).Enrollment.ID

	// P2 structure, effective well before any promotion date
	now := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	fs2, err := domain.NewFeeStructure("fs-p2", "P2 Fees 2027", "", "class-p2", "UGX",
		now.AddDate(-1, 0, 0), nil, now)
	if err != nil {
		t.Fatalf("NewFeeStructure: %v", err)
	}
	tuition, _ := domain.NewMoney(110000, "UGX")
	if err := fs2.AddFeeItem("fee-tuition", tuition, false, 1, now); err != nil {
		t.Fatalf("AddFeeItem: %v", err)
	}
	f.structures.structures[fs2.ID] = fs2

	result, err := f.svc.Promote(ctx, oldID, &PromoteInput{
		ClassID:        "class-p2",
		AcademicYearID: "year-2027",
		FeeStructureID: "fs-p2",
	})
	if err != nil {
		t.Fatalf("Promote: %v", err)
	}

	if result.Enrollment.ID == oldID {
		t.Error("promotion must create a new enrollment")
	}
	if result.Enrollment.AcademicYearID != "year-2027" {
		t.Errorf("AcademicYearID = %s, want year-2027", result.Enrollment.AcademicYearID)
	}
	if f.enrollments.enrollments[oldID].IsActive {
		t.Error("old enrollment must be inactive after promotion")
	}
	if result.Balance.Balance.Amount != 110000 {
		t.Errorf("new balance = %d, want 110000", result.Balance.Balance.Amount)
	}

	// Promoting the now-inactive enrollment again fails
	_, err = f.svc.Promote(ctx, oldID, &PromoteInput{
		ClassID: "class-p2", AcademicYearID: "year-2027", FeeStructureID: "fs-p2",
	})
	if !errors.Is(err, domain.ErrEnrollmentInactive) {
		t.Errorf("expected ErrEnrollmentInactive, got %v", err)
	}
}

func TestRecordPaymentRejectsForeignCurrency(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()
	enrollmentID := f.enroll(t).Enrollment.ID

	// A first payment in a foreign currency must fail fast and leave
	// nothing on the ledger.
	_, err := f.svc.RecordPayment(ctx, enrollmentID, "bursar-1", &RecordPaymentInput{
		Amount: 40000, Currency: "KES", PaymentMethod: "CASH", ReferenceNumber: "RCPT-400",
	})
	if !errors.Is(err, domain.ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
	if got := len(f.enrollments.enrollments[enrollmentID].Payments); got != 0 {
		t.Errorf("persisted payments = %d, want 0 after rejection", got)
	}

	// The balance stays computable afterwards.
	summary, err := f.svc.GetBalance(ctx, enrollmentID)
	if err != nil {
		t.Fatalf("GetBalance after rejected payment: %v", err)
	}
	if summary.Balance.Amount != 100000 {
		t.Errorf("Balance = %d, want 100000", summary.Balance.Amount)
	}

	// The ledger currency is accepted regardless of casing
	result, err := f.svc.RecordPayment(ctx, enrollmentID, "bursar-1", &RecordPaymentInput{
		Amount: 40000, Currency: "ugx", PaymentMethod: "CASH", ReferenceNumber: "RCPT-401",
	})
	if err != nil {
		t.Fatalf("RecordPayment in ledger currency: %v", err)
	}
	if result.Balance.Balance.Amount != 60000 {
		t.Errorf("Balance = %d, want 60000", result.Balance.Balance.Amount)
	}
}

func TestPromoteRejectedTargetKeepsEnrollmentActive(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()
	enrollmentID := f.enroll(t).Enrollment.ID

	tests := []struct {
		name    string
		input   *PromoteInput
		wantErr error
	}{
		{
			"structure bound to another class",
			&PromoteInput{ClassID: "class-p2", AcademicYearID: "year-2027", FeeStructureID: f.structureID},
			ErrStructureWrongClass,
		},
		{
			"unknown academic year",
			&PromoteInput{ClassID: "class-p2", AcademicYearID: "nope", FeeStructureID: f.structureID},
			ErrAcademicYearNotFound,
		},
		{
			"unknown class",
			&PromoteInput{ClassID: "nope", AcademicYearID: "year-2027", FeeStructureID: f.structureID},
			ErrClassNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Promote(ctx, enrollmentID, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Promote error = %v, want %v", err, tt.wantErr)
			}
			if !f.enrollments.enrollments[enrollmentID].IsActive {
				t.Error("failed promotion must leave the current enrollment active")
			}
		})
	}
}

func TestRecordPaymentOnInactiveEnrollment(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()
	enrollmentID := f.enroll(t).Enrollment.ID

	if err := f.svc.Deactivate(ctx, enrollmentID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	// Old debt can still be settled
	result, err := f.svc.RecordPayment(ctx, enrollmentID, "bursar-1", &RecordPaymentInput{
		Amount: 100000, PaymentMethod: "BANK", ReferenceNumber: "RCPT-200",
	})
	if err != nil {
		t.Fatalf("RecordPayment on inactive enrollment: %v", err)
	}
	if result.Balance.Balance.Amount != 0 {
		t.Errorf("Balance = %d, want 0", result.Balance.Balance.Amount)
	}

	// But no new optional fees or scholarships
	if _, err := f.svc.SelectOptionalFee(ctx, enrollmentID, "fee-transport"); !errors.Is(err, domain.ErrEnrollmentInactive) {
		t.Errorf("expected ErrEnrollmentInactive, got %v", err)
	}
	if _, err := f.svc.GrantScholarship(ctx, enrollmentID, &GrantScholarshipInput{Type: "FULL", Percentage: 100}); !errors.Is(err, domain.ErrEnrollmentInactive) {
		t.Errorf("expected ErrEnrollmentInactive, got %v", err)
	}
}

func TestUpdatePayment(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()
	enrollmentID := f.enroll(t).Enrollment.ID

	payResult, err := f.svc.RecordPayment(ctx, enrollmentID, "bursar-1", &RecordPaymentInput{
		Amount: 30000, PaymentMethod: "CASH", ReferenceNumber: "RCPT-300",
	})
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	updated, err := f.svc.UpdatePayment(ctx, enrollmentID, payResult.Payment.ID, &UpdatePaymentInput{
		Amount: 35000, PaymentMethod: "BANK", Notes: "teller correction",
	})
	if err != nil {
		t.Fatalf("UpdatePayment: %v", err)
	}
	if updated.Payment.Amount.Amount != 35000 {
		t.Errorf("Amount = %d, want 35000", updated.Payment.Amount.Amount)
	}
	if updated.Payment.ReferenceNumber != "RCPT-300" {
		t.Errorf("reference number must not change, got %s", updated.Payment.ReferenceNumber)
	}
	if updated.Balance.Balance.Amount != 65000 {
		t.Errorf("Balance = %d, want 65000", updated.Balance.Balance.Amount)
	}

	if _, err := f.svc.UpdatePayment(ctx, enrollmentID, "nope", &UpdatePaymentInput{
		Amount: 1, PaymentMethod: "CASH",
	}); !errors.Is(err, ErrPaymentNotFound) {
		t.Errorf("expected ErrPaymentNotFound, got %v", err)
	}
}
