package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FeeStructureItem is a priced attachment of a catalog fee item to a fee
// structure. Items are owned exclusively by their structure.
type FeeStructureItem struct {
	FeeStructureID string
	FeeItemID      string
	Amount         Money
	IsOptional     bool
	DisplayOrder   int
}

// FeeStructure is a versioned, time-bounded bundle of priced fee items
// for one class. Structures are deactivated when superseded, never
// hard-deleted, because enrollments reference them by id forever.
type FeeStructure struct {
	ID            string
	Name          string
	Description   string
	ClassID       string
	Currency      string
	IsActive      bool
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	Items         []FeeStructureItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewFeeStructure creates an active structure with no items. If an end
// of the effective window is given it must come after the start.
func NewFeeStructure(id, name, description, classID, currency string, effectiveFrom time.Time, effectiveTo *time.Time, now time.Time) (*FeeStructure, error) {
	name = strings.TrimSpace(name)
	classID = strings.TrimSpace(classID)
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if name == "" || classID == "" {
		return nil, fmt.Errorf("%w: name and class are required", ErrBlankField)
	}
	if currency == "" {
		return nil, ErrBlankCurrency
	}
	if effectiveTo != nil && !effectiveFrom.Before(*effectiveTo) {
		return nil, ErrBadEffectiveWindow
	}
	return &FeeStructure{
		ID:            id,
		Name:          name,
		Description:   strings.TrimSpace(description),
		ClassID:       classID,
		Currency:      currency,
		IsActive:      true,
		EffectiveFrom: effectiveFrom,
		EffectiveTo:   effectiveTo,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// AddFeeItem attaches a catalog item at the given price. A fee item may
// appear at most once per structure.
func (fs *FeeStructure) AddFeeItem(feeItemID string, amount Money, isOptional bool, displayOrder int, now time.Time) error {
	if strings.TrimSpace(feeItemID) == "" {
		return fmt.Errorf("%w: fee item id is required", ErrBlankField)
	}
	if amount.Currency != fs.Currency {
		return fmt.Errorf("%w: structure is priced in %s", ErrCurrencyMismatch, fs.Currency)
	}
	if fs.findItem(feeItemID) != nil {
		return ErrDuplicateFeeItem
	}
	fs.Items = append(fs.Items, FeeStructureItem{
		FeeStructureID: fs.ID,
		FeeItemID:      feeItemID,
		Amount:         amount,
		IsOptional:     isOptional,
		DisplayOrder:   displayOrder,
	})
	sort.SliceStable(fs.Items, func(i, j int) bool {
		return fs.Items[i].DisplayOrder < fs.Items[j].DisplayOrder
	})
	fs.UpdatedAt = now
	return nil
}

// RemoveFeeItem detaches a fee item. Removing an item that is not
// attached is a no-op, not an error.
func (fs *FeeStructure) RemoveFeeItem(feeItemID string, now time.Time) {
	for i, item := range fs.Items {
		if item.FeeItemID == feeItemID {
			fs.Items = append(fs.Items[:i], fs.Items[i+1:]...)
			fs.UpdatedAt = now
			return
		}
	}
}

// UpdateFeeItemAmount re-prices an attached item. A no-op if the item is
// absent. Enrollments that already selected the item keep the amount
// frozen at selection time.
func (fs *FeeStructure) UpdateFeeItemAmount(feeItemID string, amount Money, now time.Time) error {
	if amount.Currency != fs.Currency {
		return fmt.Errorf("%w: structure is priced in %s", ErrCurrencyMismatch, fs.Currency)
	}
	for i := range fs.Items {
		if fs.Items[i].FeeItemID == feeItemID {
			fs.Items[i].Amount = amount
			fs.UpdatedAt = now
			return nil
		}
	}
	return nil
}

// TotalFees sums the mandatory items.
func (fs *FeeStructure) TotalFees() Money {
	total := Zero(fs.Currency)
	for _, item := range fs.Items {
		if !item.IsOptional {
			total.Amount += item.Amount.Amount
		}
	}
	return total
}

// TotalWithOptionalFees sums all items, optional included.
func (fs *FeeStructure) TotalWithOptionalFees() Money {
	total := Zero(fs.Currency)
	for _, item := range fs.Items {
		total.Amount += item.Amount.Amount
	}
	return total
}

// IsEffective reports whether the structure applies on the given date.
func (fs *FeeStructure) IsEffective(date time.Time) bool {
	if date.Before(fs.EffectiveFrom) {
		return false
	}
	if fs.EffectiveTo != nil && date.After(*fs.EffectiveTo) {
		return false
	}
	return true
}

// Deactivate marks the structure as superseded.
func (fs *FeeStructure) Deactivate(now time.Time) {
	fs.IsActive = false
	fs.UpdatedAt = now
}

// Item returns the attached item for a fee item id, or nil.
func (fs *FeeStructure) Item(feeItemID string) *FeeStructureItem {
	return fs.findItem(feeItemID)
}

func (fs *FeeStructure) findItem(feeItemID string) *FeeStructureItem {
	for i := range fs.Items {
		if fs.Items[i].FeeItemID == feeItemID {
			return &fs.Items[i]
		}
	}
	return nil
}
