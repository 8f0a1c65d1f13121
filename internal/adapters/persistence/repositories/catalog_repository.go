package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"svs-schoolpay/internal/adapters/persistence/models"
	"svs-schoolpay/internal/core/domain"
)

// GormFeeItemRepository handles fee catalog data access
type GormFeeItemRepository struct {
	db *gorm.DB
}

// NewFeeItemRepository creates a new fee item repository
func NewFeeItemRepository(db *gorm.DB) *GormFeeItemRepository {
	return &GormFeeItemRepository{db: db}
}

// Create stores a new fee item
func (r *GormFeeItemRepository) Create(ctx context.Context, item *domain.FeeItem) error {
	return r.db.WithContext(ctx).Create(models.FeeItemFromDomain(item)).Error
}

// GetByID loads a fee item as a domain entity
func (r *GormFeeItemRepository) GetByID(ctx context.Context, id string) (*domain.FeeItem, error) {
	var row models.FeeItem
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

// List lists fee items with pagination
func (r *GormFeeItemRepository) List(ctx context.Context, offset, limit int, activeOnly bool) ([]*models.FeeItem, int64, error) {
	var items []*models.FeeItem
	var total int64

	query := r.db.WithContext(ctx).Model(&models.FeeItem{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("code ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ExistsByCode checks if a catalog code is taken
func (r *GormFeeItemRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FeeItem{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// Save persists changes to a fee item
func (r *GormFeeItemRepository) Save(ctx context.Context, item *domain.FeeItem) error {
	return r.db.WithContext(ctx).Save(models.FeeItemFromDomain(item)).Error
}

// GormFeeStructureRepository handles fee structure data access
type GormFeeStructureRepository struct {
	db *gorm.DB
}

// NewFeeStructureRepository creates a new fee structure repository
func NewFeeStructureRepository(db *gorm.DB) *GormFeeStructureRepository {
	return &GormFeeStructureRepository{db: db}
}

// Create stores a new fee structure with its items
func (r *GormFeeStructureRepository) Create(ctx context.Context, fs *domain.FeeStructure) error {
	return r.db.WithContext(ctx).Create(models.FeeStructureFromDomain(fs)).Error
}

// GetByID loads a fee structure aggregate
func (r *GormFeeStructureRepository) GetByID(ctx context.Context, id string) (*domain.FeeStructure, error) {
	row, err := r.GetModelByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

// GetModelByID loads a fee structure row with its items and class
func (r *GormFeeStructureRepository) GetModelByID(ctx context.Context, id string) (*models.FeeStructure, error) {
	var row models.FeeStructure
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Items.FeeItem").
		Preload("Class").
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List lists fee structures, optionally filtered by class
func (r *GormFeeStructureRepository) List(ctx context.Context, classID string, offset, limit int) ([]*models.FeeStructure, int64, error) {
	var rows []*models.FeeStructure
	var total int64

	query := r.db.WithContext(ctx).Model(&models.FeeStructure{})
	if classID != "" {
		query = query.Where("class_id = ?", classID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Items.FeeItem").
		Preload("Class").
		Order("effective_from DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// Save persists a fee structure aggregate. Line items are replaced
// wholesale so the stored rows always mirror the aggregate.
func (r *GormFeeStructureRepository) Save(ctx context.Context, fs *domain.FeeStructure) error {
	row := models.FeeStructureFromDomain(fs)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(row).Error; err != nil {
			return err
		}
		if err := tx.Where("fee_structure_id = ?", fs.ID).
			Delete(&models.FeeStructureItem{}).Error; err != nil {
			return err
		}
		if len(row.Items) == 0 {
			return nil
		}
		return tx.Create(&row.Items).Error
	})
}

// DeactivateExpired deactivates structures whose effective window has
// closed. Returns the number of rows affected.
func (r *GormFeeStructureRepository) DeactivateExpired(ctx context.Context, asOf time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.FeeStructure{}).
		Where("is_active = ? AND effective_to IS NOT NULL AND effective_to < ?", true, asOf).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
