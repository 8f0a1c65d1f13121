package repositories

import (
	"context"
	"time"

	"svs-schoolpay/internal/adapters/persistence/models"
	"svs-schoolpay/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) error
}

// StudentRepository defines student registry access
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context, offset, limit int) ([]*models.Student, int64, error)
	ExistsByAdmissionNo(ctx context.Context, admissionNo string) (bool, error)
}

// FeeItemRepository defines fee catalog access
type FeeItemRepository interface {
	Create(ctx context.Context, item *domain.FeeItem) error
	GetByID(ctx context.Context, id string) (*domain.FeeItem, error)
	List(ctx context.Context, offset, limit int, activeOnly bool) ([]*models.FeeItem, int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, item *domain.FeeItem) error
}

// FeeStructureRepository defines fee structure access. Writes go through
// the domain aggregate; list reads return rows for projection.
type FeeStructureRepository interface {
	Create(ctx context.Context, fs *domain.FeeStructure) error
	GetByID(ctx context.Context, id string) (*domain.FeeStructure, error)
	GetModelByID(ctx context.Context, id string) (*models.FeeStructure, error)
	List(ctx context.Context, classID string, offset, limit int) ([]*models.FeeStructure, int64, error)
	Save(ctx context.Context, fs *domain.FeeStructure) error
	DeactivateExpired(ctx context.Context, asOf time.Time) (int64, error)
}

// EnrollmentRepository defines enrollment aggregate access
type EnrollmentRepository interface {
	Create(ctx context.Context, e *domain.Enrollment) error
	GetByID(ctx context.Context, id string) (*domain.Enrollment, error)
	GetModelByID(ctx context.Context, id string) (*models.Enrollment, error)
	List(ctx context.Context, filter *EnrollmentFilter, offset, limit int) ([]*models.Enrollment, int64, error)
	Save(ctx context.Context, e *domain.Enrollment) error
	HasActiveEnrollment(ctx context.Context, studentID, academicYearID string) (bool, error)
	ExistsPaymentReference(ctx context.Context, referenceNumber string) (bool, error)
}

// MasterRepository defines school master data access
type MasterRepository interface {
	ListClasses(ctx context.Context) ([]*models.Class, error)
	GetClass(ctx context.Context, id string) (*models.Class, error)
	ListAcademicYears(ctx context.Context) ([]*models.AcademicYear, error)
	GetAcademicYear(ctx context.Context, id string) (*models.AcademicYear, error)
}

// EnrollmentFilter narrows enrollment listings
type EnrollmentFilter struct {
	StudentID      string
	ClassID        string
	AcademicYearID string
	ActiveOnly     bool
}
