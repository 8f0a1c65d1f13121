package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error wraps exactly one of these so callers
// can classify failures with errors.Is without inspecting messages.
var (
	// ErrInvalidArgument marks malformed or out-of-range input to a
	// constructor or mutator.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict marks a violation of a uniqueness or one-active-per-key
	// invariant.
	ErrConflict = errors.New("conflict")

	// ErrInvalidOperation marks an operation that is not permitted given
	// the current state of the aggregate.
	ErrInvalidOperation = errors.New("invalid operation")
)

// Money errors
var (
	ErrNegativeAmount   = fmt.Errorf("%w: amount must not be negative", ErrInvalidArgument)
	ErrBlankCurrency    = fmt.Errorf("%w: currency code is required", ErrInvalidArgument)
	ErrCurrencyMismatch = fmt.Errorf("%w: currency mismatch", ErrInvalidArgument)
)

// Fee catalog and fee structure errors
var (
	ErrBlankField            = fmt.Errorf("%w: required field is blank", ErrInvalidArgument)
	ErrBadEffectiveWindow    = fmt.Errorf("%w: effective_to must be after effective_from", ErrInvalidArgument)
	ErrDuplicateFeeItem      = fmt.Errorf("%w: fee item already attached to structure", ErrConflict)
	ErrFeeItemNotInStructure = fmt.Errorf("%w: fee item not part of the bound fee structure", ErrInvalidOperation)
	ErrFeeItemNotOptional    = fmt.Errorf("%w: fee item is not optional", ErrInvalidOperation)
)

// Scholarship errors
var (
	ErrPercentageOutOfRange   = fmt.Errorf("%w: percentage must be between 0 and 100", ErrInvalidArgument)
	ErrDuplicateScholarship   = fmt.Errorf("%w: an active scholarship of this type already exists", ErrConflict)
	ErrScholarshipNotFound    = fmt.Errorf("%w: scholarship not found on enrollment", ErrInvalidOperation)
	ErrUnknownScholarshipType = fmt.Errorf("%w: unknown scholarship type", ErrInvalidArgument)
)

// Payment errors
var (
	ErrNonPositivePayment = fmt.Errorf("%w: payment amount must be greater than zero", ErrInvalidArgument)
)

// Enrollment errors
var (
	ErrDuplicateOptionalFee   = fmt.Errorf("%w: optional fee already selected", ErrConflict)
	ErrEnrollmentInactive     = fmt.Errorf("%w: enrollment is inactive", ErrInvalidOperation)
	ErrStructureMismatch      = fmt.Errorf("%w: fee structure is not bound to this enrollment", ErrInvalidOperation)
	ErrActiveEnrollmentExists = fmt.Errorf("%w: student already has an active enrollment for this academic year", ErrConflict)
)
