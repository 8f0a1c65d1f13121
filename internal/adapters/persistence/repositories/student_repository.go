package repositories

import (
	"context"

	"gorm.io/gorm"

	"svs-schoolpay/internal/adapters/persistence/models"
)

// GormStudentRepository handles student registry data access
type GormStudentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

// Create registers a student
func (r *GormStudentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

// GetByID gets a student by ID
func (r *GormStudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).First(&student, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// List lists students with pagination
func (r *GormStudentRepository) List(ctx context.Context, offset, limit int) ([]*models.Student, int64, error) {
	var students []*models.Student
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Student{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("admission_no ASC").
		Offset(offset).
		Limit(limit).
		Find(&students).Error
	if err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

// ExistsByAdmissionNo checks if an admission number is taken
func (r *GormStudentRepository) ExistsByAdmissionNo(ctx context.Context, admissionNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("admission_no = ?", admissionNo).
		Count(&count).Error
	return count > 0, err
}
