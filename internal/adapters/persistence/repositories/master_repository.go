package repositories

import (
	"context"

	"gorm.io/gorm"

	"svs-schoolpay/internal/adapters/persistence/models"
)

// GormMasterRepository handles school master data access
type GormMasterRepository struct {
	db *gorm.DB
}

// NewMasterRepository creates a new master data repository
func NewMasterRepository(db *gorm.DB) *GormMasterRepository {
	return &GormMasterRepository{db: db}
}

// ListClasses lists all classes ordered by level
func (r *GormMasterRepository) ListClasses(ctx context.Context) ([]*models.Class, error) {
	var classes []*models.Class
	err := r.db.WithContext(ctx).Order("level ASC").Find(&classes).Error
	return classes, err
}

// GetClass gets a class by ID
func (r *GormMasterRepository) GetClass(ctx context.Context, id string) (*models.Class, error) {
	var class models.Class
	err := r.db.WithContext(ctx).First(&class, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

// ListAcademicYears lists all academic years, most recent first
func (r *GormMasterRepository) ListAcademicYears(ctx context.Context) ([]*models.AcademicYear, error) {
	var years []*models.AcademicYear
	err := r.db.WithContext(ctx).Order("starts_on DESC").Find(&years).Error
	return years, err
}

// GetAcademicYear gets an academic year by ID
func (r *GormMasterRepository) GetAcademicYear(ctx context.Context, id string) (*models.AcademicYear, error) {
	var year models.AcademicYear
	err := r.db.WithContext(ctx).First(&year, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}
