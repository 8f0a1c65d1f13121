package domain

import (
	"fmt"
	"strings"
	"time"
)

// Payment is an amount applied against an enrollment's ledger. Payments
// are never deleted; a bounded set of fields may be corrected through
// Update.
type Payment struct {
	ID              string
	EnrollmentID    string
	BursarID        string
	Amount          Money
	PaymentDate     time.Time
	PaymentMethod   string
	ReferenceNumber string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewPayment records a payment. The amount must be strictly positive and
// method and reference number non-blank.
func NewPayment(id, enrollmentID, bursarID string, amount Money, paymentDate time.Time, method, referenceNumber, notes string, now time.Time) (*Payment, error) {
	if amount.Amount <= 0 {
		return nil, ErrNonPositivePayment
	}
	method = strings.TrimSpace(method)
	referenceNumber = strings.TrimSpace(referenceNumber)
	if method == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrBlankField)
	}
	if referenceNumber == "" {
		return nil, fmt.Errorf("%w: reference number is required", ErrBlankField)
	}
	return &Payment{
		ID:              id,
		EnrollmentID:    enrollmentID,
		BursarID:        bursarID,
		Amount:          amount,
		PaymentDate:     paymentDate,
		PaymentMethod:   method,
		ReferenceNumber: referenceNumber,
		Notes:           strings.TrimSpace(notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Update corrects the amount, date, method and notes of a recorded
// payment with the same validation as creation. The reference number is
// immutable.
func (p *Payment) Update(amount Money, paymentDate time.Time, method, notes string, now time.Time) error {
	if amount.Amount <= 0 {
		return ErrNonPositivePayment
	}
	method = strings.TrimSpace(method)
	if method == "" {
		return fmt.Errorf("%w: payment method is required", ErrBlankField)
	}
	p.Amount = amount
	p.PaymentDate = paymentDate
	p.PaymentMethod = method
	p.Notes = strings.TrimSpace(notes)
	p.UpdatedAt = now
	return nil
}
