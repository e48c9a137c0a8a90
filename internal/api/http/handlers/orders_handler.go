package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sachi-ghani/storefront-service/internal/api/dto"
	"github.com/sachi-ghani/storefront-service/internal/auth"
	"github.com/sachi-ghani/storefront-service/internal/domain"
	"github.com/sachi-ghani/storefront-service/internal/service"
	apperrors "github.com/sachi-ghani/storefront-service/pkg/util"
)

// OrdersHandler exposes checkout and order listings.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orderService}
}

// Place handles POST /api/orders.
func (h *OrdersHandler) Place(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	order, err := h.orders.Place(c.Context(), user.ID, service.PlaceOrderInput{
		Items:           req.Items,
		Total:           req.Total,
		CustomerDetails: req.CustomerDetails,
		DeliveryMethod:  domain.DeliveryMethod(req.DeliveryMethod),
		PaymentProof:    req.PaymentProof,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.NewOrderView(order))
}

// Mine handles GET /api/orders/me.
func (h *OrdersHandler) Mine(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	orders, err := h.orders.ListMine(c.Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewOrderViews(orders))
}

// All handles GET /api/orders (admin only).
func (h *OrdersHandler) All(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	orders, total, err := h.orders.ListAll(c.Context(), user.IsAdmin)
	if err != nil {
		return err
	}
	return c.JSON(dto.AdminOrdersResponse{
		TotalOrders: total,
		Orders:      dto.NewOrderViews(orders),
	})
}
