package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sachi-ghani/storefront-service/internal/api/dto"
	"github.com/sachi-ghani/storefront-service/internal/auth"
	"github.com/sachi-ghani/storefront-service/internal/service"
	apperrors "github.com/sachi-ghani/storefront-service/pkg/util"
)

// CartHandler exposes the per-user cart endpoints.
type CartHandler struct {
	cart *service.CartService
}

// NewCartHandler constructs handler.
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cart: cartService}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	items, err := h.cart.Get(c.Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// Put handles PUT /api/cart, replacing the stored cart wholesale.
func (h *CartHandler) Put(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CartPutRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	items, err := h.cart.Replace(c.Context(), user.ID, req.Cart)
	if err != nil {
		return err
	}
	return c.JSON(items)
}
