package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sachi-ghani/storefront-service/internal/storage"
	apperrors "github.com/sachi-ghani/storefront-service/pkg/util"
)

// UploadHandler forwards payment-proof images to the external image host.
type UploadHandler struct {
	uploader *storage.ImageUploader
}

// NewUploadHandler constructs handler.
func NewUploadHandler(uploader *storage.ImageUploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// Upload handles POST /api/upload. The request carries a multipart "file"
// field; the response is the hosted URL.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("no file uploaded", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, uploadErr := h.uploader.Upload(c.Context(), fileHeader.Filename, contentType, fileHeader.Size, file)
	if uploadErr != nil {
		if errors.Is(uploadErr, storage.ErrUnsupportedType) || errors.Is(uploadErr, storage.ErrTooLarge) {
			return apperrors.NewValidationError(uploadErr.Error(), nil)
		}
		return apperrors.NewInternalError(uploadErr)
	}

	return c.JSON(fiber.Map{"url": url})
}
