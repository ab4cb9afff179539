package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tryon-service/internal/api/dto"
	"github.com/spec-kit/tryon-service/internal/auth"
	apperrors "github.com/spec-kit/tryon-service/pkg/util"
)

// UsersHandler exposes account info for the authenticated caller.
type UsersHandler struct{}

// NewUsersHandler constructs handler.
func NewUsersHandler() *UsersHandler {
	return &UsersHandler{}
}

// Info handles GET /api/user/info.
func (h *UsersHandler) Info(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{
		"ok":   true,
		"user": dto.NewUserResponse(principal.User),
	})
}
