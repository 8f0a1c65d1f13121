package services

import (
	"context"
	"errors"
	"log"
	"time"

	"svs-schoolpay/internal/adapters/persistence/models"
	"svs-schoolpay/internal/adapters/persistence/repositories"
	"svs-schoolpay/internal/config"
	"svs-schoolpay/internal/core/domain"
	"svs-schoolpay/internal/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Catalog service errors
var (
	ErrFeeItemNotFound      = errors.New("fee item not found")
	ErrFeeItemCodeTaken     = errors.New("fee item code already in use")
	ErrFeeStructureNotFound = errors.New("fee structure not found")
	ErrClassNotFound        = errors.New("class not found")
)

// CatalogService handles the fee catalog and fee structure business logic
type CatalogService struct {
	feeItemRepo      repositories.FeeItemRepository
	feeStructureRepo repositories.FeeStructureRepository
	masterRepo       repositories.MasterRepository
	cfg              *config.Config
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	feeItemRepo repositories.FeeItemRepository,
	feeStructureRepo repositories.FeeStructureRepository,
	masterRepo repositories.MasterRepository,
	cfg *config.Config,
) *CatalogService {
	return &CatalogService{
		feeItemRepo:      feeItemRepo,
		feeStructureRepo: feeStructureRepo,
		masterRepo:       masterRepo,
		cfg:              cfg,
	}
}

// CreateFeeItemInput represents create fee item input
type CreateFeeItemInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category" validate:"required,max=50"`
	Code        string `json:"code" validate:"required,max=20"`
}

// UpdateFeeItemInput represents update fee item input
type UpdateFeeItemInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category" validate:"required,max=50"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// CreateFeeItem adds an entry to the fee catalog
func (s *CatalogService) CreateFeeItem(ctx context.Context, input *CreateFeeItemInput) (*domain.FeeItem, error) {
	item, err := domain.NewFeeItem(uuid.New().String(), input.Name, input.Description, input.Category, input.Code, time.Now())
	if err != nil {
		return nil, err
	}

	exists, err := s.feeItemRepo.ExistsByCode(ctx, item.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrFeeItemCodeTaken
	}

	if err := s.feeItemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	log.Printf("✅ Fee item created: %s (%s)", item.Name, item.Code)
	return item, nil
}

// GetFeeItem gets a fee item by ID
func (s *CatalogService) GetFeeItem(ctx context.Context, id string) (*domain.FeeItem, error) {
	item, err := s.feeItemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// ListFeeItems lists catalog entries with pagination
func (s *CatalogService) ListFeeItems(ctx context.Context, params *pagination.Params, activeOnly bool) ([]*models.FeeItem, int64, error) {
	return s.feeItemRepo.List(ctx, params.Offset, params.Limit, activeOnly)
}

// UpdateFeeItem updates the mutable catalog fields
func (s *CatalogService) UpdateFeeItem(ctx context.Context, id string, input *UpdateFeeItemInput) (*domain.FeeItem, error) {
	item, err := s.GetFeeItem(ctx, id)
	if err != nil {
		return nil, err
	}

	isActive := item.IsActive
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	if err := item.Update(input.Name, input.Description, input.Category, isActive, time.Now()); err != nil {
		return nil, err
	}

	if err := s.feeItemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeactivateFeeItem retires a catalog entry
func (s *CatalogService) DeactivateFeeItem(ctx context.Context, id string) error {
	item, err := s.GetFeeItem(ctx, id)
	if err != nil {
		return err
	}

	item.Deactivate(time.Now())
	return s.feeItemRepo.Save(ctx, item)
}

// StructureItemInput represents one priced item inside a structure
type StructureItemInput struct {
	FeeItemID    string `json:"fee_item_id" validate:"required"`
	Amount       int64  `json:"amount" validate:"required,gte=0"`
	IsOptional   bool   `json:"is_optional"`
	DisplayOrder int    `json:"display_order"`
}

// CreateFeeStructureInput represents create fee structure input
type CreateFeeStructureInput struct {
	Name          string               `json:"name" validate:"required,max=100"`
	Description   string               `json:"description,omitempty"`
	ClassID       string               `json:"class_id" validate:"required"`
	Currency      string               `json:"currency,omitempty"`
	EffectiveFrom time.Time            `json:"effective_from" validate:"required"`
	EffectiveTo   *time.Time           `json:"effective_to,omitempty"`
	Items         []StructureItemInput `json:"items,omitempty"`
}

// CreateFeeStructure creates a structure and attaches its initial items
func (s *CatalogService) CreateFeeStructure(ctx context.Context, input *CreateFeeStructureInput) (*domain.FeeStructure, error) {
	// Validate class exists
	if _, err := s.masterRepo.GetClass(ctx, input.ClassID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = s.cfg.Billing.LedgerCurrency
	}

	now := time.Now()
	fs, err := domain.NewFeeStructure(
		uuid.New().String(),
		input.Name,
		input.Description,
		input.ClassID,
		currency,
		input.EffectiveFrom,
		input.EffectiveTo,
		now,
	)
	if err != nil {
		return nil, err
	}

	for _, item := range input.Items {
		amount, err := domain.NewMoney(item.Amount, fs.Currency)
		if err != nil {
			return nil, err
		}
		if err := s.attachItem(ctx, fs, item.FeeItemID, amount, item.IsOptional, item.DisplayOrder, now); err != nil {
			return nil, err
		}
	}

	if err := s.feeStructureRepo.Create(ctx, fs); err != nil {
		return nil, err
	}

	log.Printf("✅ Fee structure created: %s (class %s)", fs.Name, fs.ClassID)
	return fs, nil
}

// GetFeeStructure gets a fee structure row with items for presentation
func (s *CatalogService) GetFeeStructure(ctx context.Context, id string) (*models.FeeStructure, error) {
	row, err := s.feeStructureRepo.GetModelByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeStructureNotFound
		}
		return nil, err
	}
	return row, nil
}

// ListFeeStructures lists structures, optionally filtered by class
func (s *CatalogService) ListFeeStructures(ctx context.Context, classID string, params *pagination.Params) ([]*models.FeeStructure, int64, error) {
	return s.feeStructureRepo.List(ctx, classID, params.Offset, params.Limit)
}

// AddStructureItem attaches a catalog item to an existing structure
func (s *CatalogService) AddStructureItem(ctx context.Context, structureID string, input *StructureItemInput) (*domain.FeeStructure, error) {
	fs, err := s.getDomainStructure(ctx, structureID)
	if err != nil {
		return nil, err
	}

	amount, err := domain.NewMoney(input.Amount, fs.Currency)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.attachItem(ctx, fs, input.FeeItemID, amount, input.IsOptional, input.DisplayOrder, now); err != nil {
		return nil, err
	}

	if err := s.feeStructureRepo.Save(ctx, fs); err != nil {
		return nil, err
	}
	return fs, nil
}

// RemoveStructureItem detaches a catalog item from a structure
func (s *CatalogService) RemoveStructureItem(ctx context.Context, structureID, feeItemID string) (*domain.FeeStructure, error) {
	fs, err := s.getDomainStructure(ctx, structureID)
	if err != nil {
		return nil, err
	}

	fs.RemoveFeeItem(feeItemID, time.Now())

	if err := s.feeStructureRepo.Save(ctx, fs); err != nil {
		return nil, err
	}
	return fs, nil
}

// RepriceStructureItem changes the amount of an attached item. Existing
// optional-fee selections keep the amount frozen when they were made.
func (s *CatalogService) RepriceStructureItem(ctx context.Context, structureID, feeItemID string, newAmount int64) (*domain.FeeStructure, error) {
	fs, err := s.getDomainStructure(ctx, structureID)
	if err != nil {
		return nil, err
	}

	amount, err := domain.NewMoney(newAmount, fs.Currency)
	if err != nil {
		return nil, err
	}

	if err := fs.UpdateFeeItemAmount(feeItemID, amount, time.Now()); err != nil {
		return nil, err
	}

	if err := s.feeStructureRepo.Save(ctx, fs); err != nil {
		return nil, err
	}
	return fs, nil
}

// DeactivateFeeStructure marks a structure as superseded
func (s *CatalogService) DeactivateFeeStructure(ctx context.Context, id string) error {
	fs, err := s.getDomainStructure(ctx, id)
	if err != nil {
		return err
	}

	fs.Deactivate(time.Now())
	return s.feeStructureRepo.Save(ctx, fs)
}

func (s *CatalogService) getDomainStructure(ctx context.Context, id string) (*domain.FeeStructure, error) {
	fs, err := s.feeStructureRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeStructureNotFound
		}
		return nil, err
	}
	return fs, nil
}

// attachItem validates the fee item exists in the catalog before
// attaching it to the structure.
func (s *CatalogService) attachItem(ctx context.Context, fs *domain.FeeStructure, feeItemID string, amount domain.Money, isOptional bool, displayOrder int, now time.Time) error {
	if _, err := s.feeItemRepo.GetByID(ctx, feeItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFeeItemNotFound
		}
		return err
	}
	return fs.AddFeeItem(feeItemID, amount, isOptional, displayOrder, now)
}
