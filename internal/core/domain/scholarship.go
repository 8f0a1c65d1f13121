package domain

import (
	"strings"
	"time"
)

// ScholarshipType classifies a scholarship grant.
type ScholarshipType string

const (
	ScholarshipFull    ScholarshipType = "FULL"
	ScholarshipPartial ScholarshipType = "PARTIAL"
	ScholarshipBursary ScholarshipType = "BURSARY"
)

// ParseScholarshipType validates a raw type string.
func ParseScholarshipType(raw string) (ScholarshipType, error) {
	switch ScholarshipType(strings.ToUpper(strings.TrimSpace(raw))) {
	case ScholarshipFull:
		return ScholarshipFull, nil
	case ScholarshipPartial:
		return ScholarshipPartial, nil
	case ScholarshipBursary:
		return ScholarshipBursary, nil
	default:
		return "", ErrUnknownScholarshipType
	}
}

// Scholarship is a percentage discount granted to one enrollment. All
// discount arithmetic lives on the enrollment; the scholarship only
// carries state.
type Scholarship struct {
	ID           string
	EnrollmentID string
	Type         ScholarshipType
	Percentage   float64
	Description  string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewScholarship creates an active scholarship. The percentage must lie
// in [0,100].
func NewScholarship(id, enrollmentID string, typ ScholarshipType, percentage float64, description string, now time.Time) (*Scholarship, error) {
	if percentage < 0 || percentage > 100 {
		return nil, ErrPercentageOutOfRange
	}
	return &Scholarship{
		ID:           id,
		EnrollmentID: enrollmentID,
		Type:         typ,
		Percentage:   percentage,
		Description:  strings.TrimSpace(description),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Update re-validates and changes the percentage and description.
func (s *Scholarship) Update(percentage float64, description string, now time.Time) error {
	if percentage < 0 || percentage > 100 {
		return ErrPercentageOutOfRange
	}
	s.Percentage = percentage
	s.Description = strings.TrimSpace(description)
	s.UpdatedAt = now
	return nil
}

// Deactivate revokes the scholarship without removing the record.
func (s *Scholarship) Deactivate(now time.Time) {
	s.IsActive = false
	s.UpdatedAt = now
}
