package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tryon-service/internal/api/dto"
	"github.com/spec-kit/tryon-service/internal/auth"
	"github.com/spec-kit/tryon-service/internal/service"
	apperrors "github.com/spec-kit/tryon-service/pkg/util"
)

// OrdersHandler serves the caller's order history.
type OrdersHandler struct {
	tryon *service.TryOnService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(tryonService *service.TryOnService) *OrdersHandler {
	return &OrdersHandler{tryon: tryonService}
}

// List handles GET /api/orders.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	orders, err := h.tryon.ListOrders(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"ok":     true,
		"orders": dto.NewOrderListResponse(orders),
	})
}
