package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"svs-schoolpay/internal/adapters/persistence/models"
	"svs-schoolpay/internal/adapters/persistence/repositories"
	"svs-schoolpay/internal/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student service errors
var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrAdmissionNoTaken    = errors.New("admission number already registered")
	ErrStudentFieldMissing = errors.New("first name, last name and admission number are required")
)

// StudentService handles the student registry business logic
type StudentService struct {
	studentRepo repositories.StudentRepository
}

// NewStudentService creates a new student service
func NewStudentService(studentRepo repositories.StudentRepository) *StudentService {
	return &StudentService{studentRepo: studentRepo}
}

// RegisterStudentInput represents student registration input
type RegisterStudentInput struct {
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	AdmissionNo string `json:"admission_no" validate:"required,max=30"`
}

// Register adds a student to the registry
func (s *StudentService) Register(ctx context.Context, input *RegisterStudentInput) (*models.Student, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	admissionNo := strings.ToUpper(strings.TrimSpace(input.AdmissionNo))
	if firstName == "" || lastName == "" || admissionNo == "" {
		return nil, ErrStudentFieldMissing
	}

	exists, err := s.studentRepo.ExistsByAdmissionNo(ctx, admissionNo)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAdmissionNoTaken
	}

	student := &models.Student{
		ID:          uuid.New().String(),
		FirstName:   firstName,
		LastName:    lastName,
		AdmissionNo: admissionNo,
		IsActive:    true,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	log.Printf("✅ Student registered: %s %s (%s)", student.FirstName, student.LastName, student.AdmissionNo)
	return student, nil
}

// GetByID gets a student by ID
func (s *StudentService) GetByID(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// List lists students with pagination
func (s *StudentService) List(ctx context.Context, params *pagination.Params) ([]*models.Student, int64, error) {
	return s.studentRepo.List(ctx, params.Offset, params.Limit)
}
