package handlers

import (
	"errors"

	"svs-schoolpay/internal/adapters/persistence/repositories"
	"svs-schoolpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MasterHandler handles school master data endpoints
type MasterHandler struct {
	masterRepo repositories.MasterRepository
}

// NewMasterHandler creates a new master data handler
func NewMasterHandler(masterRepo repositories.MasterRepository) *MasterHandler {
	return &MasterHandler{masterRepo: masterRepo}
}

// ListClasses lists all classes
func (h *MasterHandler) ListClasses(c *fiber.Ctx) error {
	classes, err := h.masterRepo.ListClasses(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list classes")
	}

	return response.Success(c, "Classes retrieved successfully", classes)
}

// GetClass gets a class by ID
func (h *MasterHandler) GetClass(c *fiber.Ctx) error {
	class, err := h.masterRepo.GetClass(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Class not found")
		}
		return response.InternalServerError(c, "Failed to get class")
	}

	return response.Success(c, "Class retrieved successfully", class)
}

// ListAcademicYears lists all academic years
func (h *MasterHandler) ListAcademicYears(c *fiber.Ctx) error {
	years, err := h.masterRepo.ListAcademicYears(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list academic years")
	}

	return response.Success(c, "Academic years retrieved successfully", years)
}

// GetAcademicYear gets an academic year by ID
func (h *MasterHandler) GetAcademicYear(c *fiber.Ctx) error {
	year, err := h.masterRepo.GetAcademicYear(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Academic year not found")
		}
		return response.InternalServerError(c, "Failed to get academic year")
	}

	return response.Success(c, "Academic year retrieved successfully", year)
}
