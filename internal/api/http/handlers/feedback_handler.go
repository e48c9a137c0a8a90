package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sachi-ghani/storefront-service/internal/api/dto"
	"github.com/sachi-ghani/storefront-service/internal/service"
	apperrors "github.com/sachi-ghani/storefront-service/pkg/util"
)

// FeedbackHandler exposes the public review CRUD.
type FeedbackHandler struct {
	feedback *service.FeedbackService
}

// NewFeedbackHandler constructs handler.
func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedbackService}
}

// List handles GET /api/feedback.
func (h *FeedbackHandler) List(c *fiber.Ctx) error {
	items, err := h.feedback.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFeedbackViews(items))
}

// Create handles POST /api/feedback.
func (h *FeedbackHandler) Create(c *fiber.Ctx) error {
	var req dto.FeedbackCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	feedback, err := h.feedback.Create(c.Context(), req.Name, req.Message, req.Rating)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewFeedbackView(feedback))
}

// Update handles PUT /api/feedback/:id.
func (h *FeedbackHandler) Update(c *fiber.Ctx) error {
	var req dto.FeedbackUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	feedback, err := h.feedback.Update(c.Context(), c.Params("id"), service.FeedbackUpdate{
		Name:    req.Name,
		Message: req.Message,
		Rating:  req.Rating,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFeedbackView(feedback))
}

// Delete handles DELETE /api/feedback/:id.
func (h *FeedbackHandler) Delete(c *fiber.Ctx) error {
	if err := h.feedback.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "feedback deleted"})
}
