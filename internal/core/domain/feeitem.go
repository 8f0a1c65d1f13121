package domain

import (
	"fmt"
	"strings"
	"time"
)

// FeeItem is a catalog entry describing a billable concept (tuition,
// transport, meals, ...). Catalog entries are never deleted, only
// deactivated; historical fee structures keep referencing them by id.
type FeeItem struct {
	ID          string
	Name        string
	Description string
	Category    string
	Code        string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewFeeItem creates an active catalog entry. Name, category and code
// must be non-blank.
func NewFeeItem(id, name, description, category, code string, now time.Time) (*FeeItem, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	code = strings.TrimSpace(code)
	if name == "" || category == "" || code == "" {
		return nil, fmt.Errorf("%w: name, category and code are required", ErrBlankField)
	}
	return &FeeItem{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(description),
		Category:    category,
		Code:        strings.ToUpper(code),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update changes the mutable catalog fields with the same validation as
// creation. The code is fixed for the lifetime of the entry.
func (f *FeeItem) Update(name, description, category string, isActive bool, now time.Time) error {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	if name == "" || category == "" {
		return fmt.Errorf("%w: name and category are required", ErrBlankField)
	}
	f.Name = name
	f.Description = strings.TrimSpace(description)
	f.Category = category
	f.IsActive = isActive
	f.UpdatedAt = now
	return nil
}

// Deactivate retires the entry from future catalog use. Fee structures
// already pricing this item are not touched.
func (f *FeeItem) Deactivate(now time.Time) {
	f.IsActive = false
	f.UpdatedAt = now
}
