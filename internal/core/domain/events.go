package domain

import "time"

// Event is an informational notification emitted after a successful
// state change. Events are returned to the caller alongside the
// mutation's result; dispatch and ordering are the messaging layer's
// problem, not the aggregate's.
type Event interface {
	EventName() string
}

// StudentEnrolledEvent signals that a new enrollment was created.
type StudentEnrolledEvent struct {
	EnrollmentID   string    `json:"enrollment_id"`
	StudentID      string    `json:"student_id"`
	ClassID        string    `json:"class_id"`
	AcademicYearID string    `json:"academic_year_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func (StudentEnrolledEvent) EventName() string { return "student.enrolled" }

// PaymentAppliedEvent signals that a payment was applied to an
// enrollment ledger.
type PaymentAppliedEvent struct {
	EnrollmentID string    `json:"enrollment_id"`
	PaymentID    string    `json:"payment_id"`
	Amount       Money     `json:"amount"`
	Balance      Money     `json:"balance"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (PaymentAppliedEvent) EventName() string { return "payment.applied" }

// DebtCreatedEvent signals that an enrollment came into existence owing
// a positive balance.
type DebtCreatedEvent struct {
	EnrollmentID string    `json:"enrollment_id"`
	StudentID    string    `json:"student_id"`
	Balance      Money     `json:"balance"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (DebtCreatedEvent) EventName() string { return "debt.created" }
