package handlers

import (
	"errors"

	"svs-schoolpay/internal/core/services"
	"svs-schoolpay/internal/pkg/pagination"
	"svs-schoolpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// StudentHandler handles student registry endpoints
type StudentHandler struct {
	studentService *services.StudentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentService *services.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// Register registers a new student
func (h *StudentHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterStudentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	student, err := h.studentService.Register(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStudentFieldMissing):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrAdmissionNoTaken):
			return response.Conflict(c, "Admission number already registered")
		default:
			return response.InternalServerError(c, "Failed to register student")
		}
	}

	return response.Created(c, "Student registered successfully", student)
}

// List lists students
func (h *StudentHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	students, total, err := h.studentService.List(c.Context(), params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list students")
	}

	return response.Success(c, "Students retrieved successfully", pagination.NewResponse(students, params, total))
}

// GetByID gets a student by ID
func (h *StudentHandler) GetByID(c *fiber.Ctx) error {
	student, err := h.studentService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to get student")
	}

	return response.Success(c, "Student retrieved successfully", student)
}
