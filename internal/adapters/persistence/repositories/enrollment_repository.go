package repositories

import (
	"context"

	"gorm.io/gorm"

	"svs-schoolpay/internal/adapters/persistence/models"
	"svs-schoolpay/internal/core/domain"
)

// GormEnrollmentRepository handles enrollment aggregate data access
type GormEnrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *gorm.DB) *GormEnrollmentRepository {
	return &GormEnrollmentRepository{db: db}
}

// Create stores a new enrollment with its children
func (r *GormEnrollmentRepository) Create(ctx context.Context, e *domain.Enrollment) error {
	return r.db.WithContext(ctx).Create(models.EnrollmentFromDomain(e)).Error
}

// GetByID loads an enrollment aggregate
func (r *GormEnrollmentRepository) GetByID(ctx context.Context, id string) (*domain.Enrollment, error) {
	row, err := r.GetModelByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

// GetModelByID loads an enrollment row with its children and relations
func (r *GormEnrollmentRepository) GetModelByID(ctx context.Context, id string) (*models.Enrollment, error) {
	var row models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Scholarships").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC, created_at ASC")
		}).
		Preload("OptionalFees").
		Preload("OptionalFees.FeeItem").
		Preload("Student").
		Preload("Class").
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List lists enrollments matching the filter
func (r *GormEnrollmentRepository) List(ctx context.Context, filter *EnrollmentFilter, offset, limit int) ([]*models.Enrollment, int64, error) {
	var rows []*models.Enrollment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Enrollment{})
	if filter != nil {
		if filter.StudentID != "" {
			query = query.Where("student_id = ?", filter.StudentID)
		}
		if filter.ClassID != "" {
			query = query.Where("class_id = ?", filter.ClassID)
		}
		if filter.AcademicYearID != "" {
			query = query.Where("academic_year_id = ?", filter.AcademicYearID)
		}
		if filter.ActiveOnly {
			query = query.Where("is_active = ?", true)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Student").
		Preload("Class").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// Save persists an enrollment aggregate. Scholarships and payments are
// upserted by primary key; optional fee selections are replaced
// wholesale to mirror the aggregate.
func (r *GormEnrollmentRepository) Save(ctx context.Context, e *domain.Enrollment) error {
	row := models.EnrollmentFromDomain(e)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Scholarships", "Payments", "OptionalFees").Save(row).Error; err != nil {
			return err
		}
		for i := range row.Scholarships {
			if err := tx.Save(&row.Scholarships[i]).Error; err != nil {
				return err
			}
		}
		for i := range row.Payments {
			if err := tx.Save(&row.Payments[i]).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("enrollment_id = ?", e.ID).
			Delete(&models.EnrollmentFeeItem{}).Error; err != nil {
			return err
		}
		if len(row.OptionalFees) == 0 {
			return nil
		}
		return tx.Create(&row.OptionalFees).Error
	})
}

// HasActiveEnrollment checks whether a student already has an active
// enrollment for an academic year
func (r *GormEnrollmentRepository) HasActiveEnrollment(ctx context.Context, studentID, academicYearID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ? AND academic_year_id = ? AND is_active = ?", studentID, academicYearID, true).
		Count(&count).Error
	return count > 0, err
}

// ExistsPaymentReference checks whether a payment reference number is
// already recorded anywhere in the ledger
func (r *GormEnrollmentRepository) ExistsPaymentReference(ctx context.Context, referenceNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("reference_number = ?", referenceNumber).
		Count(&count).Error
	return count > 0, err
}
