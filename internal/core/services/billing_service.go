package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"svs-schoolpay/internal/adapters/persistence/models"
	"svs-schoolpay/internal/adapters/persistence/repositories"
	"svs-schoolpay/internal/core/domain"
	"svs-schoolpay/internal/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Billing service errors
var (
	ErrEnrollmentNotFound     = errors.New("enrollment not found")
	ErrAcademicYearNotFound   = errors.New("academic year not found")
	ErrStudentInactive        = errors.New("student is not active")
	ErrStructureNotEffective  = errors.New("fee structure is not effective on the enrollment date")
	ErrStructureInactive      = errors.New("fee structure is not active")
	ErrStructureWrongClass    = errors.New("fee structure does not belong to the class")
	ErrPaymentReferenceTaken  = errors.New("payment reference number already recorded")
	ErrPaymentNotFound        = errors.New("payment not found")
)

// BillingService handles the enrollment billing business logic. All
// writes go through the enrollment aggregate so the billing invariants
// hold no matter which endpoint triggered them.
type BillingService struct {
	enrollmentRepo   repositories.EnrollmentRepository
	feeStructureRepo repositories.FeeStructureRepository
	studentRepo      repositories.StudentRepository
	masterRepo       repositories.MasterRepository
	notifyService    *NotificationService
}

// NewBillingService creates a new billing service
func NewBillingService(
	enrollmentRepo repositories.EnrollmentRepository,
	feeStructureRepo repositories.FeeStructureRepository,
	studentRepo repositories.StudentRepository,
	masterRepo repositories.MasterRepository,
	notifyService *NotificationService,
) *BillingService {
	return &BillingService{
		enrollmentRepo:   enrollmentRepo,
		feeStructureRepo: feeStructureRepo,
		studentRepo:      studentRepo,
		masterRepo:       masterRepo,
		notifyService:    notifyService,
	}
}

// EnrollStudentInput represents enroll student input
type EnrollStudentInput struct {
	StudentID      string     `json:"student_id" validate:"required"`
	ClassID        string     `json:"class_id" validate:"required"`
	AcademicYearID string     `json:"academic_year_id" validate:"required"`
	FeeStructureID string     `json:"fee_structure_id" validate:"required"`
	EnrollmentDate *time.Time `json:"enrollment_date,omitempty"`
}

// EnrollmentResult pairs an enrollment with its computed balance
type EnrollmentResult struct {
	Enrollment *domain.Enrollment     `json:"enrollment"`
	Balance    *domain.BalanceSummary `json:"balance"`
}

// EnrollStudent creates an active enrollment for a student in a class
// and academic year, bound to an effective fee structure.
func (s *BillingService) EnrollStudent(ctx context.Context, input *EnrollStudentInput) (*EnrollmentResult, error) {
	// 1. Validate student
	student, err := s.studentRepo.GetByID(ctx, input.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if !student.IsActive {
		return nil, ErrStudentInactive
	}

	// 2. Validate class and academic year
	if _, err := s.masterRepo.GetClass(ctx, input.ClassID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	if _, err := s.masterRepo.GetAcademicYear(ctx, input.AcademicYearID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAcademicYearNotFound
		}
		return nil, err
	}

	// 3. One active enrollment per student per academic year
	exists, err := s.enrollmentRepo.HasActiveEnrollment(ctx, input.StudentID, input.AcademicYearID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrActiveEnrollmentExists
	}

	// 4. Resolve and validate fee structure
	now := time.Now()
	enrollmentDate := now
	if input.EnrollmentDate != nil {
		enrollmentDate = *input.EnrollmentDate
	}
	fs, err := s.resolveStructure(ctx, input.FeeStructureID, input.ClassID, enrollmentDate)
	if err != nil {
		return nil, err
	}

	// 5. Create the aggregate
	enrollment, err := domain.NewEnrollment(
		uuid.New().String(),
		input.StudentID,
		input.ClassID,
		input.AcademicYearID,
		fs.ID,
		enrollmentDate,
		now,
	)
	if err != nil {
		return nil, err
	}

	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	balance, err := enrollment.CalculateBalance(fs)
	if err != nil {
		return nil, err
	}

	// 6. Dispatch events
	events := []domain.Event{
		domain.StudentEnrolledEvent{
			EnrollmentID:   enrollment.ID,
			StudentID:      enrollment.StudentID,
			ClassID:        enrollment.ClassID,
			AcademicYearID: enrollment.AcademicYearID,
			OccurredAt:     now,
		},
	}
	if balance.Balance.Amount > 0 {
		events = append(events, domain.DebtCreatedEvent{
			EnrollmentID: enrollment.ID,
			StudentID:    enrollment.StudentID,
			Balance:      balance.Balance,
			OccurredAt:   now,
		})
	}
	s.notifyService.DispatchAll(events)

	log.Printf("✅ Student %s enrolled in class %s (enrollment %s)", enrollment.StudentID, enrollment.ClassID, enrollment.ID)

	return &EnrollmentResult{Enrollment: enrollment, Balance: balance}, nil
}

// GetEnrollment gets an enrollment row with relations for presentation
func (s *BillingService) GetEnrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	row, err := s.enrollmentRepo.GetModelByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	return row, nil
}

// ListEnrollments lists enrollments matching the filter
func (s *BillingService) ListEnrollments(ctx context.Context, filter *repositories.EnrollmentFilter, params *pagination.Params) ([]*models.Enrollment, int64, error) {
	return s.enrollmentRepo.List(ctx, filter, params.Offset, params.Limit)
}

// GetBalance computes the current balance of an enrollment. Works on
// inactive enrollments too; billing history stays queryable forever.
func (s *BillingService) GetBalance(ctx context.Context, enrollmentID string) (*domain.BalanceSummary, error) {
	enrollment, fs, err := s.loadAggregate(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	return enrollment.CalculateBalance(fs)
}

// TransferInput represents a mid-year class transfer
type TransferInput struct {
	ClassID        string `json:"class_id" validate:"required"`
	FeeStructureID string `json:"fee_structure_id" validate:"required"`
}

// Transfer moves an active enrollment to a new class and fee structure
func (s *BillingService) Transfer(ctx context.Context, enrollmentID string, input *TransferInput) (*EnrollmentResult, error) {
	enrollment, _, err := s.loadAggregate(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	fs, err := s.resolveStructure(ctx, input.FeeStructureID, input.ClassID, enrollment.EnrollmentDate)
	if err != nil {
		return nil, err
	}

	if err := enrollment.Transfer(input.ClassID, fs.ID, time.Now()); err != nil {
		return nil, err
	}

	if err := s.enrollmentRepo.Save(ctx, enrollment); err != nil {
		return nil, err
	}

	balance, err := enrollment.CalculateBalance(fs)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Enrollment %s transferred to class %s", enrollment.ID, input.ClassID)
	return &EnrollmentResult{Enrollment: enrollment, Balance: balance}, nil
}

// PromoteInput represents promotion to a new academic year
type PromoteInput struct {
	ClassID        string `json:"class_id" validate:"required"`
	AcademicYearID string `json:"academic_year_id" validate:"required"`
	FeeStructureID string `json:"fee_structure_id" validate:"required"`
}

// Promote closes the current enrollment and opens a fresh one for the
// next academic year. The old ledger is untouched; scholarships and
// optional-fee selections do not carry over.
func (s *BillingService) Promote(ctx context.Context, enrollmentID string, input *PromoteInput) (*EnrollmentResult, error) {
	enrollment, _, err := s.loadAggregate(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if !enrollment.IsActive {
		return nil, domain.ErrEnrollmentInactive
	}

	// Validate the promotion target before touching the current
	// enrollment, so a rejected input never leaves the student without
	// an active one.
	now := time.Now()
	if _, err := s.masterRepo.GetClass(ctx, input.ClassID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	if _, err := s.masterRepo.GetAcademicYear(ctx, input.AcademicYearID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAcademicYearNotFound
		}
		return nil, err
	}
	if _, err := s.resolveStructure(ctx, input.FeeStructureID, input.ClassID, now); err != nil {
		return nil, err
	}

	enrollment.MarkAsInactive(now)
	if err := s.enrollmentRepo.Save(ctx, enrollment); err != nil {
		return nil, err
	}

	return s.EnrollStudent(ctx, &EnrollStudentInput{
		StudentID:      enrollment.StudentID,
		ClassID:        input.ClassID,
		AcademicYearID: input.AcademicYearID,
		FeeStructureID: input.FeeStructureID,
	})
}

// Deactivate terminates an enrollment for billing purposes
func (s *BillingService) Deactivate(ctx context.Context, enrollmentID string) error {
	enrollment, _, err := s.loadAggregate(ctx, enrollmentID)
	if err != nil {
		return err
	}

	enrollment.MarkAsInactive(time.Now())
	if err := s.enrollmentRepo.Save(ctx, enrollment); err != nil {
		return err
	}

	log.Printf("✅ Enrollment %s deactivated", enrollment.ID)
	return nil
}

// GrantScholarshipInput represents grant scholarship input
type GrantScholarshipInput struct {
	Type        string  `json:"type" validate:"required,oneof=FULL PARTIAL BURSARY"`
	Percentage  float64 `json:"percentage" validate:"gte=0,lte=100"`
	Description string  `json:"description,omitempty"`
}

// GrantScholarship attaches a scholarship to an active enrollment
func (s *BillingService) GrantScholarship(ctx context.Context, enrollmentID string, input *GrantScholarshipInput) (*EnrollmentResult, error) {
	enrollment, fs, err := s.loadAggregate(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	typ, err := domain.ParseScholarshipType(input.Type)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	scholarship, err := domain.NewScholarship(uuid.New().String(), enrollment.ID, typ, input.Percentage, input.Description, now)
	if err != nil {
		return nil, err
	}

	if err := enrollment.AddScholarship(scholarship, now); err != nil {
		return nil, err
	}

	if err := s.enrollmentRepo.Save(ctx, enrollment); err != nil {
		return nil, err
	}

	balance, err := enrollment.CalculateBalance(fs)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Scholarship %s (%s %.1f%%) granted on enrollment %s", scholarship.ID, typ, input.Percentage, enrollment.ID)
	return &EnrollmentResult{Enrollment: enrollment, Balance: balance}, nil
}

// RevokeScholarship deactivates a scholarship on an enrollment
func (s *BillingService) RevokeScholarship(ctx context.Context, enrollmentID, scholarshipID string) (*EnrollmentResult, error) {
	enrollment, fs, err := s.loadAggregate(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	if err := enrollment.RevokeScholarship(scholarshipID, time.Now()); err != nil {
		return nil, err
	}

	if err := s.enrollmentRepo.Save(ctx, enrollment); err != nil {
		return nil, err
	}

	balance, err := enrollment.CalculateBalance(fs)
	if err != nil {
		return nil, err
	}
	return &EnrollmentResult{Enrollment: enrollment, Balance: balance}, nil
}

// SelectOptionalFee opts an enrollment into an optional fee of its
// bound structure, freezing the current price
func (s *BillingService) SelectOptionalFee(ctx context.Context, enrollmentID, feeItemID string) (*EnrollmentResult, error) {
	enrollment, fs, err := s.loadAggregate(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	if err := enrollment.SelectOptionalFee(fs, feeItemID, time.Now()); err != nil {
		return nil, err
	}

	if err := s.enrollmentRepo.Save(ctx, enrollment); err != nil {
		return nil, err
	}

	balance, err := enrollment.CalculateBalance(fs)
	if err != nil {
		return nil, err
	}
	return &EnrollmentResult{Enrollment: enrollment, Balance: balance}, nil
}

// RemoveOptionalFee drops an optional fee selection
func (s *BillingService) RemoveOptionalFee(ctx context.Context, enrollmentID, feeItemID string) (*EnrollmentResult, error) {
	enrollment, fs, err := s.loadAggregate(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	enrollment.RemoveOptionalFee(feeItemID, time.Now())

	if err := s.enrollmentRepo.Save(ctx, enrollment); err != nil {
		return nil, err
	}

	balance, err := enrollment.CalculateBalance(fs)
	if err != nil {
		return nil, err
	}
	return &EnrollmentResult{Enrollment: enrollment, Balance: balance}, nil
}

// RecordPaymentInput represents record payment input
type RecordPaymentInput struct {
	Amount          int64      `json:"amount" validate:"required,gt=0"`
	Currency        string     `json:"currency,omitempty"`
	PaymentDate     *time.Time `json:"payment_date,omitempty"`
	PaymentMethod   string     `json:"payment_method" validate:"required,max=30"`
	ReferenceNumber string     `json:"reference_number" validate:"required,max=50"`
	Notes           string     `json:"notes,omitempty"`
}

// PaymentResult pairs a recorded payment with the resulting balance
type PaymentResult struct {
	Payment   *domain.Payment        `json:"payment"`
	ReceiptNo string                 `json:"receipt_no"`
	Balance   *domain.BalanceSummary `json:"balance"`
}

// RecordPayment applies a payment to an enrollment ledger. Payments on
// inactive enrollments are accepted; old debt can always be settled.
// Overpayment is allowed and surfaces as credit on the balance.
func (s *BillingService) RecordPayment(ctx context.Context, enrollmentID, bursarID string, input *RecordPaymentInput) (*PaymentResult, error) {
	enrollment, fs, err := s.loadAggregate(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	reference := strings.ToUpper(strings.TrimSpace(input.ReferenceNumber))
	taken, err := s.enrollmentRepo.ExistsPaymentReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrPaymentReferenceTaken
	}

	// The ledger runs in the bound structure's currency; reject foreign
	// amounts before anything touches the aggregate.
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = fs.Currency
	}
	if currency != fs.Currency {
		return nil, fmt.Errorf("%w: ledger is in %s", domain.ErrCurrencyMismatch, fs.Currency)
	}
	amount, err := domain.NewMoney(input.Amount, currency)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	paymentDate := now
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}

	payment, err := domain.NewPayment(
		uuid.New().String(),
		enrollment.ID,
		bursarID,
		amount,
		paymentDate,
		input.PaymentMethod,
		reference,
		input.Notes,
		now,
	)
	if err != nil {
		return nil, err
	}

	if err := enrollment.AddPayment(fs, payment, now); err != nil {
		return nil, err
	}

	if err := s.enrollmentRepo.Save(ctx, enrollment); err != nil {
		return nil, err
	}

	balance, err := enrollment.CalculateBalance(fs)
	if err != nil {
		return nil, err
	}

	s.notifyService.Dispatch(domain.PaymentAppliedEvent{
		EnrollmentID: enrollment.ID,
		PaymentID:    payment.ID,
		Amount:       payment.Amount,
		Balance:      balance.Balance,
		OccurredAt:   now,
	})

	receiptNo := fmt.Sprintf("RCT-%s", strings.ToUpper(payment.ID[:8]))
	log.Printf("✅ Payment %s of %s applied to enrollment %s (balance %s)", payment.ID, payment.Amount, enrollment.ID, balance.Balance)

	return &PaymentResult{Payment: payment, ReceiptNo: receiptNo, Balance: balance}, nil
}

// UpdatePaymentInput represents payment correction input
type UpdatePaymentInput struct {
	Amount        int64      `json:"amount" validate:"required,gt=0"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	PaymentMethod string     `json:"payment_method" validate:"required,max=30"`
	Notes         string     `json:"notes,omitempty"`
}

// UpdatePayment corrects a recorded payment. The reference number is
// immutable; corrections never remove a payment from the ledger.
func (s *BillingService) UpdatePayment(ctx context.Context, enrollmentID, paymentID string, input *UpdatePaymentInput) (*PaymentResult, error) {
	enrollment, fs, err := s.loadAggregate(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	payment := enrollment.Payment(paymentID)
	if payment == nil {
		return nil, ErrPaymentNotFound
	}

	amount, err := domain.NewMoney(input.Amount, payment.Amount.Currency)
	if err != nil {
		return nil, err
	}

	paymentDate := payment.PaymentDate
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}

	if err := payment.Update(amount, paymentDate, input.PaymentMethod, input.Notes, time.Now()); err != nil {
		return nil, err
	}

	if err := s.enrollmentRepo.Save(ctx, enrollment); err != nil {
		return nil, err
	}

	balance, err := enrollment.CalculateBalance(fs)
	if err != nil {
		return nil, err
	}
	return &PaymentResult{Payment: payment, Balance: balance}, nil
}

// loadAggregate loads an enrollment and its bound fee structure
func (s *BillingService) loadAggregate(ctx context.Context, enrollmentID string) (*domain.Enrollment, *domain.FeeStructure, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrEnrollmentNotFound
		}
		return nil, nil, err
	}

	fs, err := s.feeStructureRepo.GetByID(ctx, enrollment.FeeStructureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrFeeStructureNotFound
		}
		return nil, nil, err
	}

	return enrollment, fs, nil
}

// resolveStructure loads a fee structure and checks it can take new
// enrollments for the given class on the given date.
func (s *BillingService) resolveStructure(ctx context.Context, structureID, classID string, date time.Time) (*domain.FeeStructure, error) {
	fs, err := s.feeStructureRepo.GetByID(ctx, structureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeStructureNotFound
		}
		return nil, err
	}
	if !fs.IsActive {
		return nil, ErrStructureInactive
	}
	if fs.ClassID != classID {
		return nil, ErrStructureWrongClass
	}
	if !fs.IsEffective(date) {
		return nil, ErrStructureNotEffective
	}
	return fs, nil
}
