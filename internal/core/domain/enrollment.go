package domain

import (
	"fmt"
	"strings"
	"time"
)

// EnrollmentFeeItem records that an enrollment opted into an optional
// fee. The amount is frozen at selection time; later re-pricing of the
// structure does not change what the student owes for it.
type EnrollmentFeeItem struct {
	EnrollmentID string
	FeeItemID    string
	Amount       Money
	SelectedAt   time.Time
}

// Enrollment binds a student, class, academic year and fee structure
// together and is the unit at which the billing balance is computed. It
// owns its scholarships, payments and optional-fee selections; the fee
// structure itself is referenced by id and resolved by the caller.
type Enrollment struct {
	ID             string
	StudentID      string
	ClassID        string
	AcademicYearID string
	FeeStructureID string
	EnrollmentDate time.Time
	IsActive       bool
	Scholarships   []*Scholarship
	Payments       []*Payment
	OptionalFees   []EnrollmentFeeItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewEnrollment creates an active enrollment. All referenced ids must be
// non-empty. The one-active-enrollment-per-academic-year rule is checked
// by the caller against the student's other enrollments before this is
// invoked.
func NewEnrollment(id, studentID, classID, academicYearID, feeStructureID string, enrollmentDate time.Time, now time.Time) (*Enrollment, error) {
	for name, v := range map[string]string{
		"student":       studentID,
		"class":         classID,
		"academic year": academicYearID,
		"fee structure": feeStructureID,
	} {
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: %s id is required", ErrBlankField, name)
		}
	}
	return &Enrollment{
		ID:             id,
		StudentID:      studentID,
		ClassID:        classID,
		AcademicYearID: academicYearID,
		FeeStructureID: feeStructureID,
		EnrollmentDate: enrollmentDate,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// MarkAsInactive terminates the enrollment for billing purposes. The
// record and its balance stay queryable forever.
func (e *Enrollment) MarkAsInactive(now time.Time) {
	e.IsActive = false
	e.UpdatedAt = now
}

// Transfer rebinds the enrollment to a new class and fee structure, for
// example on a mid-year class move. The enrollment stays active.
func (e *Enrollment) Transfer(newClassID, newFeeStructureID string, now time.Time) error {
	if !e.IsActive {
		return ErrEnrollmentInactive
	}
	if strings.TrimSpace(newClassID) == "" || strings.TrimSpace(newFeeStructureID) == "" {
		return fmt.Errorf("%w: class and fee structure ids are required", ErrBlankField)
	}
	e.ClassID = newClassID
	e.FeeStructureID = newFeeStructureID
	e.UpdatedAt = now
	return nil
}

// AddScholarship attaches a scholarship. At most one active scholarship
// per type is allowed on an enrollment.
func (e *Enrollment) AddScholarship(s *Scholarship, now time.Time) error {
	if !e.IsActive {
		return ErrEnrollmentInactive
	}
	for _, existing := range e.Scholarships {
		if existing.IsActive && existing.Type == s.Type {
			return ErrDuplicateScholarship
		}
	}
	s.EnrollmentID = e.ID
	e.Scholarships = append(e.Scholarships, s)
	e.UpdatedAt = now
	return nil
}

// RevokeScholarship deactivates a scholarship by id.
func (e *Enrollment) RevokeScholarship(scholarshipID string, now time.Time) error {
	for _, s := range e.Scholarships {
		if s.ID == scholarshipID {
			s.Deactivate(now)
			e.UpdatedAt = now
			return nil
		}
	}
	return ErrScholarshipNotFound
}

// SelectOptionalFee opts the enrollment into an optional item of its
// bound fee structure, freezing the current amount. The structure must
// be the one the enrollment references.
func (e *Enrollment) SelectOptionalFee(fs *FeeStructure, feeItemID string, now time.Time) error {
	if !e.IsActive {
		return ErrEnrollmentInactive
	}
	if fs == nil || fs.ID != e.FeeStructureID {
		return ErrStructureMismatch
	}
	item := fs.Item(feeItemID)
	if item == nil {
		return ErrFeeItemNotInStructure
	}
	if !item.IsOptional {
		return ErrFeeItemNotOptional
	}
	for _, sel := range e.OptionalFees {
		if sel.FeeItemID == feeItemID {
			return ErrDuplicateOptionalFee
		}
	}
	e.OptionalFees = append(e.OptionalFees, EnrollmentFeeItem{
		EnrollmentID: e.ID,
		FeeItemID:    feeItemID,
		Amount:       item.Amount,
		SelectedAt:   now,
	})
	e.UpdatedAt = now
	return nil
}

// RemoveOptionalFee drops a selection. Removing a fee that was never
// selected is a no-op.
func (e *Enrollment) RemoveOptionalFee(feeItemID string, now time.Time) {
	for i, sel := range e.OptionalFees {
		if sel.FeeItemID == feeItemID {
			e.OptionalFees = append(e.OptionalFees[:i], e.OptionalFees[i+1:]...)
			e.UpdatedAt = now
			return
		}
	}
}

// AddPayment appends a payment to the ledger, in the currency of the
// bound fee structure. There is no upper bound check against the
// balance: overpayment is allowed and simply clamps the balance at
// zero.
func (e *Enrollment) AddPayment(fs *FeeStructure, p *Payment, now time.Time) error {
	if fs == nil || fs.ID != e.FeeStructureID {
		return ErrStructureMismatch
	}
	if err := p.Amount.sameCurrency(Zero(fs.Currency)); err != nil {
		return err
	}
	p.EnrollmentID = e.ID
	e.Payments = append(e.Payments, p)
	e.UpdatedAt = now
	return nil
}

// Payment returns a recorded payment by id, or nil.
func (e *Enrollment) Payment(paymentID string) *Payment {
	for _, p := range e.Payments {
		if p.ID == paymentID {
			return p
		}
	}
	return nil
}

// ActiveDiscountPercent sums the percentages of all active scholarships,
// capped at 100 so stacked partial scholarships can never drive the net
// fee negative.
func (e *Enrollment) ActiveDiscountPercent() float64 {
	var pct float64
	for _, s := range e.Scholarships {
		if s.IsActive {
			pct += s.Percentage
		}
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// BalanceSummary is the result of the balance calculation.
type BalanceSummary struct {
	TotalFees           Money   `json:"total_fees"`
	OptionalFees        Money   `json:"optional_fees"`
	DiscountPercent     float64 `json:"discount_percent"`
	ScholarshipDiscount Money   `json:"scholarship_discount"`
	NetFees             Money   `json:"net_fees"`
	TotalPaid           Money   `json:"total_paid"`
	Balance             Money   `json:"balance"`
	Credit              Money   `json:"credit"`
}

// CalculateBalance derives the enrollment's current financial position
// from the bound fee structure plus its own scholarships, payments and
// optional-fee selections:
//
//	totalFees = mandatory structure items + frozen optional selections
//	discount  = totalFees * min(sum of active scholarship %, 100) / 100
//	balance   = max(0, totalFees - discount - totalPaid)
//
// The discount is computed against the current total, so selecting or
// removing an optional fee after a scholarship grant rescales it. A
// surplus payment never yields a negative balance; it is surfaced as
// Credit instead.
func (e *Enrollment) CalculateBalance(fs *FeeStructure) (*BalanceSummary, error) {
	if fs == nil || fs.ID != e.FeeStructureID {
		return nil, ErrStructureMismatch
	}

	totalFees := fs.TotalFees()
	optionalTotal := Zero(fs.Currency)
	for _, sel := range e.OptionalFees {
		var err error
		if optionalTotal, err = optionalTotal.Add(sel.Amount); err != nil {
			return nil, err
		}
	}
	totalFees, err := totalFees.Add(optionalTotal)
	if err != nil {
		return nil, err
	}

	totalPaid := Zero(fs.Currency)
	for _, p := range e.Payments {
		if totalPaid, err = totalPaid.Add(p.Amount); err != nil {
			return nil, err
		}
	}

	discountPct := e.ActiveDiscountPercent()
	discount := totalFees.Percent(discountPct)

	netFees, err := totalFees.Subtract(discount)
	if err != nil {
		return nil, err
	}

	// Signed intermediate, clamped into Money at the boundary.
	outstanding, err := netFees.SignedDiff(totalPaid)
	if err != nil {
		return nil, err
	}
	balance := Zero(fs.Currency)
	credit := Zero(fs.Currency)
	if outstanding > 0 {
		balance.Amount = outstanding
	} else {
		credit.Amount = -outstanding
	}

	return &BalanceSummary{
		TotalFees:           totalFees,
		OptionalFees:        optionalTotal,
		DiscountPercent:     discountPct,
		ScholarshipDiscount: discount,
		NetFees:             netFees,
		TotalPaid:           totalPaid,
		Balance:             balance,
		Credit:              credit,
	}, nil
}
