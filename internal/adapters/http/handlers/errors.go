package handlers

import (
	"errors"

	"svs-schoolpay/internal/core/domain"
	"svs-schoolpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// domainError maps a billing domain error to an HTTP response by its
// kind: bad input is 400, uniqueness conflicts are 409 and operations
// disallowed in the current state are 422. Returns false when the error
// is not a domain error so the caller can keep matching.
func domainError(c *fiber.Ctx, err error) (error, bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return response.BadRequest(c, err.Error()), true
	case errors.Is(err, domain.ErrConflict):
		return response.Conflict(c, err.Error()), true
	case errors.Is(err, domain.ErrInvalidOperation):
		return response.UnprocessableEntity(c, err.Error()), true
	default:
		return nil, false
	}
}
