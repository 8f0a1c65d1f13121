package config

import (
	"log"
	"strconv"
	"time"

	"svs-schoolpay/internal/adapters/persistence/models"
	"svs-schoolpay/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedClasses(); err != nil {
		log.Printf("⚠️ Class seeder skipped: %v", err)
	}
	if err := s.seedAcademicYears(); err != nil {
		log.Printf("⚠️ Academic year seeder skipped: %v", err)
	}
	if err := s.seedFeeItems(); err != nil {
		log.Printf("⚠️ Fee item seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		ID:       uuid.New().String(),
		Username: "admin",
		Email:    "admin@svs.ac.ug",
		Password: hashedPassword,
		Role:     models.RoleAdmin,
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}

// seedClasses seeds the standard class ladder
func (s *Seeder) seedClasses() error {
	var count int64
	s.db.Model(&models.Class{}).Count(&count)
	if count > 0 {
		return nil
	}

	names := []string{"P1", "P2", "P3", "P4", "P5", "P6", "P7"}
	classes := make([]models.Class, 0, len(names))
	for i, name := range names {
		classes = append(classes, models.Class{
			ID:       uuid.New().String(),
			Name:     name,
			Level:    i + 1,
			IsActive: true,
		})
	}

	if err := s.db.Create(&classes).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d classes", len(classes))
	return nil
}

// seedAcademicYears seeds the current academic year
func (s *Seeder) seedAcademicYears() error {
	var count int64
	s.db.Model(&models.AcademicYear{}).Count(&count)
	if count > 0 {
		return nil
	}

	year := time.Now().Year()
	ay := &models.AcademicYear{
		ID:       uuid.New().String(),
		Name:     strconv.Itoa(year),
		StartsOn: time.Date(year, time.February, 1, 0, 0, 0, 0, time.UTC),
		EndsOn:   time.Date(year, time.December, 1, 0, 0, 0, 0, time.UTC),
		IsActive: true,
	}

	if err := s.db.Create(ay).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded academic year %s", ay.Name)
	return nil
}

// seedFeeItems seeds a starter fee catalog
func (s *Seeder) seedFeeItems() error {
	var count int64
	s.db.Model(&models.FeeItem{}).Count(&count)
	if count > 0 {
		return nil
	}

	items := []models.FeeItem{
		{ID: uuid.New().String(), Name: "Tuition", Category: "ACADEMIC", Code: "TUITION", IsActive: true},
		{ID: uuid.New().String(), Name: "Transport", Category: "SERVICES", Code: "TRANSPORT", IsActive: true},
		{ID: uuid.New().String(), Name: "Meals", Category: "SERVICES", Code: "MEALS", IsActive: true},
		{ID: uuid.New().String(), Name: "Boarding", Category: "SERVICES", Code: "BOARDING", IsActive: true},
		{ID: uuid.New().String(), Name: "Development Fund", Category: "ADMINISTRATIVE", Code: "DEVFUND", IsActive: true},
	}

	if err := s.db.Create(&items).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d fee items", len(items))
	return nil
}
