package handlers

import (
	"errors"

	"svs-schoolpay/internal/adapters/persistence/models"
	"svs-schoolpay/internal/adapters/persistence/repositories"
	"svs-schoolpay/internal/core/services"
	"svs-schoolpay/internal/pkg/pagination"
	"svs-schoolpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EnrollmentHandler handles enrollment billing endpoints
type EnrollmentHandler struct {
	billingService *services.BillingService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(billingService *services.BillingService) *EnrollmentHandler {
	return &EnrollmentHandler{billingService: billingService}
}

// notFound maps the billing lookup errors to 404 responses. Returns
// false when the error is something else.
func (h *EnrollmentHandler) notFound(c *fiber.Ctx, err error) (error, bool) {
	switch {
	case errors.Is(err, services.ErrEnrollmentNotFound):
		return response.NotFound(c, "Enrollment not found"), true
	case errors.Is(err, services.ErrStudentNotFound):
		return response.NotFound(c, "Student not found"), true
	case errors.Is(err, services.ErrClassNotFound):
		return response.NotFound(c, "Class not found"), true
	case errors.Is(err, services.ErrAcademicYearNotFound):
		return response.NotFound(c, "Academic year not found"), true
	case errors.Is(err, services.ErrFeeStructureNotFound):
		return response.NotFound(c, "Fee structure not found"), true
	default:
		return nil, false
	}
}

// Enroll enrolls a student for an academic year
func (h *EnrollmentHandler) Enroll(c *fiber.Ctx) error {
	var input services.EnrollStudentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.billingService.EnrollStudent(c.Context(), &input)
	if err != nil {
		if resp, ok := h.notFound(c, err); ok {
			return resp
		}
		switch {
		case errors.Is(err, services.ErrStudentInactive):
			return response.UnprocessableEntity(c, err.Error())
		case errors.Is(err, services.ErrStructureInactive),
			errors.Is(err, services.ErrStructureNotEffective),
			errors.Is(err, services.ErrStructureWrongClass):
			return response.UnprocessableEntity(c, err.Error())
		}
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return response.InternalServerError(c, "Failed to enroll student")
	}

	return response.Created(c, "Student enrolled successfully", result)
}

// List lists enrollments
func (h *EnrollmentHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	filter := &repositories.EnrollmentFilter{
		StudentID:      c.Query("student_id"),
		ClassID:        c.Query("class_id"),
		AcademicYearID: c.Query("academic_year_id"),
		ActiveOnly:     c.QueryBool("active_only", false),
	}

	rows, total, err := h.billingService.ListEnrollments(c.Context(), filter, params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list enrollments")
	}

	enrollments := make([]*models.EnrollmentResponse, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, row.ToResponse())
	}

	return response.Success(c, "Enrollments retrieved successfully", pagination.NewResponse(enrollments, params, total))
}

// GetByID gets an enrollment with its computed balance
func (h *EnrollmentHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")

	row, err := h.billingService.GetEnrollment(c.Context(), id)
	if err != nil {
		if resp, ok := h.notFound(c, err); ok {
			return resp
		}
		return response.InternalServerError(c, "Failed to get enrollment")
	}

	resp := row.ToResponse()
	if balance, err := h.billingService.GetBalance(c.Context(), id); err == nil {
		resp.Balance = balance
	}

	return response.Success(c, "Enrollment retrieved successfully", resp)
}

// GetBalance returns the current balance of an enrollment
func (h *EnrollmentHandler) GetBalance(c *fiber.Ctx) error {
	balance, err := h.billingService.GetBalance(c.Context(), c.Params("id"))
	if err != nil {
		if resp, ok := h.notFound(c, err); ok {
			return resp
		}
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return response.InternalServerError(c, "Failed to compute balance")
	}

	return response.Success(c, "Balance computed successfully", balance)
}

// Transfer moves an enrollment to a new class mid-year
func (h *EnrollmentHandler) Transfer(c *fiber.Ctx) error {
	var input services.TransferInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.billingService.Transfer(c.Context(), c.Params("id"), &input)
	if err != nil {
		if resp, ok := h.notFound(c, err); ok {
			return resp
		}
		switch {
		case errors.Is(err, services.ErrStructureInactive),
			errors.Is(err, services.ErrStructureNotEffective),
			errors.Is(err, services.ErrStructureWrongClass):
			return response.UnprocessableEntity(c, err.Error())
		}
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return response.InternalServerError(c, "Failed to transfer enrollment")
	}

	return response.Success(c, "Enrollment transferred successfully", result)
}

// Promote closes an enrollment and opens one for the next academic year
func (h *EnrollmentHandler) Promote(c *fiber.Ctx) error {
	var input services.PromoteInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.billingService.Promote(c.Context(), c.Params("id"), &input)
	if err != nil {
		if resp, ok := h.notFound(c, err); ok {
			return resp
		}
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return response.InternalServerError(c, "Failed to promote enrollment")
	}

	return response.Created(c, "Student promoted successfully", result)
}

// Deactivate terminates an enrollment
func (h *EnrollmentHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.billingService.Deactivate(c.Context(), c.Params("id")); err != nil {
		if resp, ok := h.notFound(c, err); ok {
			return resp
		}
		return response.InternalServerError(c, "Failed to deactivate enrollment")
	}

	return response.Success(c, "Enrollment deactivated successfully", nil)
}

// GrantScholarship grants a scholarship on an enrollment
func (h *EnrollmentHandler) GrantScholarship(c *fiber.Ctx) error {
	var input services.GrantScholarshipInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.billingService.GrantScholarship(c.Context(), c.Params("id"), &input)
	if err != nil {
		if resp, ok := h.notFound(c, err); ok {
			return resp
		}
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return response.InternalServerError(c, "Failed to grant scholarship")
	}

	return response.Created(c, "Scholarship granted successfully", result)
}

// RevokeScholarship revokes a scholarship on an enrollment
func (h *EnrollmentHandler) RevokeScholarship(c *fiber.Ctx) error {
	result, err := h.billingService.RevokeScholarship(c.Context(), c.Params("id"), c.Params("scholarship_id"))
	if err != nil {
		if resp, ok := h.notFound(c, err); ok {
			return resp
		}
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return response.InternalServerError(c, "Failed to revoke scholarship")
	}

	return response.Success(c, "Scholarship revoked successfully", result)
}

// SelectOptionalFee opts the enrollment into an optional fee
func (h *EnrollmentHandler) SelectOptionalFee(c *fiber.Ctx) error {
	result, err := h.billingService.SelectOptionalFee(c.Context(), c.Params("id"), c.Params("fee_item_id"))
	if err != nil {
		if resp, ok := h.notFound(c, err); ok {
			return resp
		}
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return response.InternalServerError(c, "Failed to select optional fee")
	}

	return response.Created(c, "Optional fee selected successfully", result)
}

// RemoveOptionalFee drops an optional fee selection
func (h *EnrollmentHandler) RemoveOptionalFee(c *fiber.Ctx) error {
	result, err := h.billingService.RemoveOptionalFee(c.Context(), c.Params("id"), c.Params("fee_item_id"))
	if err != nil {
		if resp, ok := h.notFound(c, err); ok {
			return resp
		}
		return response.InternalServerError(c, "Failed to remove optional fee")
	}

	return response.Success(c, "Optional fee removed successfully", result)
}

// RecordPayment applies a payment to an enrollment
func (h *EnrollmentHandler) RecordPayment(c *fiber.Ctx) error {
	var input services.RecordPaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	bursarID, _ := c.Locals("userID").(string)
	if bursarID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.billingService.RecordPayment(c.Context(), c.Params("id"), bursarID, &input)
	if err != nil {
		if resp, ok := h.notFound(c, err); ok {
			return resp
		}
		if errors.Is(err, services.ErrPaymentReferenceTaken) {
			return response.Conflict(c, "Payment reference number already recorded")
		}
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return response.InternalServerError(c, "Failed to record payment")
	}

	return response.Created(c, "Payment recorded successfully", result)
}

// UpdatePayment corrects a recorded payment
func (h *EnrollmentHandler) UpdatePayment(c *fiber.Ctx) error {
	var input services.UpdatePaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.billingService.UpdatePayment(c.Context(), c.Params("id"), c.Params("payment_id"), &input)
	if err != nil {
		if resp, ok := h.notFound(c, err); ok {
			return resp
		}
		if errors.Is(err, services.ErrPaymentNotFound) {
			return response.NotFound(c, "Payment not found")
		}
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return response.InternalServerError(c, "Failed to update payment")
	}

	return response.Success(c, "Payment updated successfully", result)
}
