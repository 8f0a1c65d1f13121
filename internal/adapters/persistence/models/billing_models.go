package models

import (
	"time"

	"gorm.io/gorm"

	"svs-schoolpay/internal/core/domain"
)

// ============================================================
// Billing Tables
//
// Rows are plain storage shapes; all invariants live on the
// domain aggregates. Conversions between the two sit here so
// repositories stay thin.
// ============================================================

// FeeItem represents the fee_items catalog table
type FeeItem struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"size:50;not null" json:"category"`
	Code        string         `gorm:"size:20;uniqueIndex;not null" json:"code"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (FeeItem) TableName() string {
	return "fee_items"
}

func (m *FeeItem) ToDomain() *domain.FeeItem {
	return &domain.FeeItem{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		Code:        m.Code,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FeeItemFromDomain(f *domain.FeeItem) *FeeItem {
	return &FeeItem{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Category:    f.Category,
		Code:        f.Code,
		IsActive:    f.IsActive,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// FeeStructure represents the fee_structures table
type FeeStructure struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	Name          string         `gorm:"size:100;not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	ClassID       string         `gorm:"size:36;not null;index" json:"class_id"`
	Currency      string         `gorm:"size:3;not null" json:"currency"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	EffectiveFrom time.Time      `gorm:"type:date;not null" json:"effective_from"`
	EffectiveTo   *time.Time     `gorm:"type:date" json:"effective_to"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Items []FeeStructureItem `gorm:"foreignKey:FeeStructureID" json:"items,omitempty"`
	Class *Class             `gorm:"foreignKey:ClassID" json:"class,omitempty"`
}

func (FeeStructure) TableName() string {
	return "fee_structures"
}

func (m *FeeStructure) ToDomain() *domain.FeeStructure {
	fs := &domain.FeeStructure{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		ClassID:       m.ClassID,
		Currency:      m.Currency,
		IsActive:      m.IsActive,
		EffectiveFrom: m.EffectiveFrom,
		EffectiveTo:   m.EffectiveTo,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	for _, item := range m.Items {
		fs.Items = append(fs.Items, domain.FeeStructureItem{
			FeeStructureID: item.FeeStructureID,
			FeeItemID:      item.FeeItemID,
			Amount:         domain.Money{Amount: item.Amount, Currency: m.Currency},
			IsOptional:     item.IsOptional,
			DisplayOrder:   item.DisplayOrder,
		})
	}
	return fs
}

func FeeStructureFromDomain(fs *domain.FeeStructure) *FeeStructure {
	m := &FeeStructure{
		ID:            fs.ID,
		Name:          fs.Name,
		Description:   fs.Description,
		ClassID:       fs.ClassID,
		Currency:      fs.Currency,
		IsActive:      fs.IsActive,
		EffectiveFrom: fs.EffectiveFrom,
		EffectiveTo:   fs.EffectiveTo,
		CreatedAt:     fs.CreatedAt,
		UpdatedAt:     fs.UpdatedAt,
	}
	for _, item := range fs.Items {
		m.Items = append(m.Items, FeeStructureItem{
			FeeStructureID: fs.ID,
			FeeItemID:      item.FeeItemID,
			Amount:         item.Amount.Amount,
			IsOptional:     item.IsOptional,
			DisplayOrder:   item.DisplayOrder,
		})
	}
	return m
}

// FeeStructureItem represents the fee_structure_items table. One row per
// (structure, fee item) pair.
type FeeStructureItem struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FeeStructureID string    `gorm:"size:36;not null;uniqueIndex:idx_structure_fee_item" json:"fee_structure_id"`
	FeeItemID      string    `gorm:"size:36;not null;uniqueIndex:idx_structure_fee_item" json:"fee_item_id"`
	Amount         int64     `gorm:"not null" json:"amount"`
	IsOptional     bool      `gorm:"default:false" json:"is_optional"`
	DisplayOrder   int       `gorm:"default:0" json:"display_order"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	FeeItem *FeeItem `gorm:"foreignKey:FeeItemID" json:"fee_item,omitempty"`
}

func (FeeStructureItem) TableName() string {
	return "fee_structure_items"
}

// Enrollment represents the enrollments table
type Enrollment struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	StudentID      string         `gorm:"size:36;not null;index" json:"student_id"`
	ClassID        string         `gorm:"size:36;not null;index" json:"class_id"`
	AcademicYearID string         `gorm:"size:36;not null;index" json:"academic_year_id"`
	FeeStructureID string         `gorm:"size:36;not null" json:"fee_structure_id"`
	EnrollmentDate time.Time      `gorm:"type:date;not null" json:"enrollment_date"`
	IsActive       bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Scholarships []Scholarship       `gorm:"foreignKey:EnrollmentID" json:"scholarships,omitempty"`
	Payments     []Payment           `gorm:"foreignKey:EnrollmentID" json:"payments,omitempty"`
	OptionalFees []EnrollmentFeeItem `gorm:"foreignKey:EnrollmentID" json:"optional_fees,omitempty"`
	Student      *Student            `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Class        *Class              `gorm:"foreignKey:ClassID" json:"class,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (m *Enrollment) ToDomain() *domain.Enrollment {
	e := &domain.Enrollment{
		ID:             m.ID,
		StudentID:      m.StudentID,
		ClassID:        m.ClassID,
		AcademicYearID: m.AcademicYearID,
		FeeStructureID: m.FeeStructureID,
		EnrollmentDate: m.EnrollmentDate,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	for i := range m.Scholarships {
		e.Scholarships = append(e.Scholarships, m.Scholarships[i].ToDomain())
	}
	for i := range m.Payments {
		e.Payments = append(e.Payments, m.Payments[i].ToDomain())
	}
	for _, sel := range m.OptionalFees {
		e.OptionalFees = append(e.OptionalFees, domain.EnrollmentFeeItem{
			EnrollmentID: sel.EnrollmentID,
			FeeItemID:    sel.FeeItemID,
			Amount:       domain.Money{Amount: sel.Amount, Currency: sel.Currency},
			SelectedAt:   sel.SelectedAt,
		})
	}
	return e
}

func EnrollmentFromDomain(e *domain.Enrollment) *Enrollment {
	m := &Enrollment{
		ID:             e.ID,
		StudentID:      e.StudentID,
		ClassID:        e.ClassID,
		AcademicYearID: e.AcademicYearID,
		FeeStructureID: e.FeeStructureID,
		EnrollmentDate: e.EnrollmentDate,
		IsActive:       e.IsActive,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	for _, s := range e.Scholarships {
		m.Scholarships = append(m.Scholarships, *ScholarshipFromDomain(s))
	}
	for _, p := range e.Payments {
		m.Payments = append(m.Payments, *PaymentFromDomain(p))
	}
	for _, sel := range e.OptionalFees {
		m.OptionalFees = append(m.OptionalFees, EnrollmentFeeItem{
			EnrollmentID: e.ID,
			FeeItemID:    sel.FeeItemID,
			Amount:       sel.Amount.Amount,
			Currency:     sel.Amount.Currency,
			SelectedAt:   sel.SelectedAt,
		})
	}
	return m
}

// Scholarship represents the scholarships table
type Scholarship struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	EnrollmentID string    `gorm:"size:36;not null;index" json:"enrollment_id"`
	Type         string    `gorm:"size:20;not null" json:"type"`
	Percentage   float64   `gorm:"type:decimal(5,2);not null" json:"percentage"`
	Description  string    `gorm:"type:text" json:"description"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Scholarship) TableName() string {
	return "scholarships"
}

func (m *Scholarship) ToDomain() *domain.Scholarship {
	return &domain.Scholarship{
		ID:           m.ID,
		EnrollmentID: m.EnrollmentID,
		Type:         domain.ScholarshipType(m.Type),
		Percentage:   m.Percentage,
		Description:  m.Description,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ScholarshipFromDomain(s *domain.Scholarship) *Scholarship {
	return &Scholarship{
		ID:           s.ID,
		EnrollmentID: s.EnrollmentID,
		Type:         string(s.Type),
		Percentage:   s.Percentage,
		Description:  s.Description,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// Payment represents the payments table
type Payment struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	EnrollmentID    string    `gorm:"size:36;not null;index" json:"enrollment_id"`
	BursarID        string    `gorm:"size:36;not null" json:"bursar_id"`
	Amount          int64     `gorm:"not null" json:"amount"`
	Currency        string    `gorm:"size:3;not null" json:"currency"`
	PaymentDate     time.Time `gorm:"type:date;not null;index" json:"payment_date"`
	PaymentMethod   string    `gorm:"size:30;not null" json:"payment_method"`
	ReferenceNumber string    `gorm:"size:50;uniqueIndex;not null" json:"reference_number"`
	Notes           string    `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Bursar *User `gorm:"foreignKey:BursarID" json:"bursar,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

func (m *Payment) ToDomain() *domain.Payment {
	return &domain.Payment{
		ID:              m.ID,
		EnrollmentID:    m.EnrollmentID,
		BursarID:        m.BursarID,
		Amount:          domain.Money{Amount: m.Amount, Currency: m.Currency},
		PaymentDate:     m.PaymentDate,
		PaymentMethod:   m.PaymentMethod,
		ReferenceNumber: m.ReferenceNumber,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func PaymentFromDomain(p *domain.Payment) *Payment {
	return &Payment{
		ID:              p.ID,
		EnrollmentID:    p.EnrollmentID,
		BursarID:        p.BursarID,
		Amount:          p.Amount.Amount,
		Currency:        p.Amount.Currency,
		PaymentDate:     p.PaymentDate,
		PaymentMethod:   p.PaymentMethod,
		ReferenceNumber: p.ReferenceNumber,
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// EnrollmentFeeItem represents the enrollment_fee_items table. One row
// per (enrollment, fee item) selection; the amount is the price frozen
// at selection time.
type EnrollmentFeeItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EnrollmentID string    `gorm:"size:36;not null;uniqueIndex:idx_enrollment_fee_item" json:"enrollment_id"`
	FeeItemID    string    `gorm:"size:36;not null;uniqueIndex:idx_enrollment_fee_item" json:"fee_item_id"`
	Amount       int64     `gorm:"not null" json:"amount"`
	Currency     string    `gorm:"size:3;not null" json:"currency"`
	SelectedAt   time.Time `gorm:"not null" json:"selected_at"`
	CreatedAt    time.Time `json:"created_at"`

	FeeItem *FeeItem `gorm:"foreignKey:FeeItemID" json:"fee_item,omitempty"`
}

func (EnrollmentFeeItem) TableName() string {
	return "enrollment_fee_items"
}

// ============================================================
// Response DTOs
// ============================================================

// EnrollmentResponse DTO
type EnrollmentResponse struct {
	ID             string                 `json:"id"`
	StudentID      string                 `json:"student_id"`
	StudentName    string                 `json:"student_name,omitempty"`
	ClassID        string                 `json:"class_id"`
	ClassName      string                 `json:"class_name,omitempty"`
	AcademicYearID string                 `json:"academic_year_id"`
	FeeStructureID string                 `json:"fee_structure_id"`
	EnrollmentDate time.Time              `json:"enrollment_date"`
	IsActive       bool                   `json:"is_active"`
	Scholarships   []Scholarship          `json:"scholarships,omitempty"`
	OptionalFees   []EnrollmentFeeItem    `json:"optional_fees,omitempty"`
	Balance        *domain.BalanceSummary `json:"balance,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

func (m *Enrollment) ToResponse() *EnrollmentResponse {
	resp := &EnrollmentResponse{
		ID:             m.ID,
		StudentID:      m.StudentID,
		ClassID:        m.ClassID,
		AcademicYearID: m.AcademicYearID,
		FeeStructureID: m.FeeStructureID,
		EnrollmentDate: m.EnrollmentDate,
		IsActive:       m.IsActive,
		Scholarships:   m.Scholarships,
		OptionalFees:   m.OptionalFees,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Student != nil {
		resp.StudentName = m.Student.FirstName + " " + m.Student.LastName
	}
	if m.Class != nil {
		resp.ClassName = m.Class.Name
	}
	return resp
}

// FeeStructureResponse DTO
type FeeStructureResponse struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	ClassID       string             `json:"class_id"`
	ClassName     string             `json:"class_name,omitempty"`
	Currency      string             `json:"currency"`
	IsActive      bool               `json:"is_active"`
	EffectiveFrom time.Time          `json:"effective_from"`
	EffectiveTo   *time.Time         `json:"effective_to"`
	Items         []FeeStructureItem `json:"items"`
	TotalFees     int64              `json:"total_fees"`
	TotalAll      int64              `json:"total_with_optional_fees"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func (m *FeeStructure) ToResponse() *FeeStructureResponse {
	fs := m.ToDomain()
	resp := &FeeStructureResponse{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		ClassID:       m.ClassID,
		Currency:      m.Currency,
		IsActive:      m.IsActive,
		EffectiveFrom: m.EffectiveFrom,
		EffectiveTo:   m.EffectiveTo,
		Items:         m.Items,
		TotalFees:     fs.TotalFees().Amount,
		TotalAll:      fs.TotalWithOptionalFees().Amount,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Class != nil {
		resp.ClassName = m.Class.Name
	}
	return resp
}
