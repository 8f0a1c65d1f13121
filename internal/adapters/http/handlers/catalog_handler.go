package handlers

import (
	"errors"

	"svs-schoolpay/internal/adapters/persistence/models"
	"svs-schoolpay/internal/core/services"
	"svs-schoolpay/internal/pkg/pagination"
	"svs-schoolpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles fee catalog and fee structure endpoints
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// CreateFeeItem creates a fee catalog entry
func (h *CatalogHandler) CreateFeeItem(c *fiber.Ctx) error {
	var input services.CreateFeeItemInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	item, err := h.catalogService.CreateFeeItem(c.Context(), &input)
	if err != nil {
		if errors.Is(err, services.ErrFeeItemCodeTaken) {
			return response.Conflict(c, "Fee item code already in use")
		}
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return response.InternalServerError(c, "Failed to create fee item")
	}

	return response.Created(c, "Fee item created successfully", item)
}

// ListFeeItems lists fee catalog entries
func (h *CatalogHandler) ListFeeItems(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	activeOnly := c.QueryBool("active_only", false)

	items, total, err := h.catalogService.ListFeeItems(c.Context(), params, activeOnly)
	if err != nil {
		return response.InternalServerError(c, "Failed to list fee items")
	}

	return response.Success(c, "Fee items retrieved successfully", pagination.NewResponse(items, params, total))
}

// GetFeeItem gets a fee catalog entry by ID
func (h *CatalogHandler) GetFeeItem(c *fiber.Ctx) error {
	item, err := h.catalogService.GetFeeItem(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrFeeItemNotFound) {
			return response.NotFound(c, "Fee item not found")
		}
		return response.InternalServerError(c, "Failed to get fee item")
	}

	return response.Success(c, "Fee item retrieved successfully", item)
}

// UpdateFeeItem updates a fee catalog entry
func (h *CatalogHandler) UpdateFeeItem(c *fiber.Ctx) error {
	var input services.UpdateFeeItemInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	item, err := h.catalogService.UpdateFeeItem(c.Context(), c.Params("id"), &input)
	if err != nil {
		if errors.Is(err, services.ErrFeeItemNotFound) {
			return response.NotFound(c, "Fee item not found")
		}
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return response.InternalServerError(c, "Failed to update fee item")
	}

	return response.Success(c, "Fee item updated successfully", item)
}

// DeactivateFeeItem retires a fee catalog entry
func (h *CatalogHandler) DeactivateFeeItem(c *fiber.Ctx) error {
	if err := h.catalogService.DeactivateFeeItem(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, services.ErrFeeItemNotFound) {
			return response.NotFound(c, "Fee item not found")
		}
		return response.InternalServerError(c, "Failed to deactivate fee item")
	}

	return response.Success(c, "Fee item deactivated successfully", nil)
}

// CreateFeeStructure creates a fee structure with its items
func (h *CatalogHandler) CreateFeeStructure(c *fiber.Ctx) error {
	var input services.CreateFeeStructureInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	fs, err := h.catalogService.CreateFeeStructure(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClassNotFound):
			return response.NotFound(c, "Class not found")
		case errors.Is(err, services.ErrFeeItemNotFound):
			return response.NotFound(c, "Fee item not found")
		}
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return response.InternalServerError(c, "Failed to create fee structure")
	}

	return response.Created(c, "Fee structure created successfully", fs)
}

// ListFeeStructures lists fee structures
func (h *CatalogHandler) ListFeeStructures(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	classID := c.Query("class_id")

	rows, total, err := h.catalogService.ListFeeStructures(c.Context(), classID, params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list fee structures")
	}

	structures := make([]*models.FeeStructureResponse, 0, len(rows))
	for _, row := range rows {
		structures = append(structures, row.ToResponse())
	}

	return response.Success(c, "Fee structures retrieved successfully", pagination.NewResponse(structures, params, total))
}

// GetFeeStructure gets a fee structure by ID
func (h *CatalogHandler) GetFeeStructure(c *fiber.Ctx) error {
	row, err := h.catalogService.GetFeeStructure(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrFeeStructureNotFound) {
			return response.NotFound(c, "Fee structure not found")
		}
		return response.InternalServerError(c, "Failed to get fee structure")
	}

	return response.Success(c, "Fee structure retrieved successfully", row.ToResponse())
}

// AddStructureItem attaches a fee item to a structure
func (h *CatalogHandler) AddStructureItem(c *fiber.Ctx) error {
	var input services.StructureItemInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	fs, err := h.catalogService.AddStructureItem(c.Context(), c.Params("id"), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFeeStructureNotFound):
			return response.NotFound(c, "Fee structure not found")
		case errors.Is(err, services.ErrFeeItemNotFound):
			return response.NotFound(c, "Fee item not found")
		}
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return response.InternalServerError(c, "Failed to add fee item to structure")
	}

	return response.Success(c, "Fee item added to structure", fs)
}

// RemoveStructureItem detaches a fee item from a structure
func (h *CatalogHandler) RemoveStructureItem(c *fiber.Ctx) error {
	fs, err := h.catalogService.RemoveStructureItem(c.Context(), c.Params("id"), c.Params("fee_item_id"))
	if err != nil {
		if errors.Is(err, services.ErrFeeStructureNotFound) {
			return response.NotFound(c, "Fee structure not found")
		}
		return response.InternalServerError(c, "Failed to remove fee item from structure")
	}

	return response.Success(c, "Fee item removed from structure", fs)
}

// RepriceRequest represents reprice structure item request
type RepriceRequest struct {
	Amount int64 `json:"amount"`
}

// RepriceStructureItem changes the price of an attached item
func (h *CatalogHandler) RepriceStructureItem(c *fiber.Ctx) error {
	var req RepriceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	fs, err := h.catalogService.RepriceStructureItem(c.Context(), c.Params("id"), c.Params("fee_item_id"), req.Amount)
	if err != nil {
		if errors.Is(err, services.ErrFeeStructureNotFound) {
			return response.NotFound(c, "Fee structure not found")
		}
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return response.InternalServerError(c, "Failed to reprice fee item")
	}

	return response.Success(c, "Fee item repriced successfully", fs)
}

// DeactivateFeeStructure marks a structure as superseded
func (h *CatalogHandler) DeactivateFeeStructure(c *fiber.Ctx) error {
	if err := h.catalogService.DeactivateFeeStructure(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, services.ErrFeeStructureNotFound) {
			return response.NotFound(c, "Fee structure not found")
		}
		return response.InternalServerError(c, "Failed to deactivate fee structure")
	}

	return response.Success(c, "Fee structure deactivated successfully", nil)
}
