package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sachi-ghani/storefront-service/internal/config"
)

var (
	// ErrNotConfigured is returned when no upload endpoint is set.
	ErrNotConfigured = errors.New("image upload endpoint not configured")
	// ErrUnsupportedType is returned for non-image uploads.
	ErrUnsupportedType = errors.New("only jpeg and png uploads are accepted")
	// ErrTooLarge is returned when the file exceeds the configured limit.
	ErrTooLarge = errors.New("file exceeds upload size limit")
)

var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

// ImageUploader forwards payment-proof images to the external image host and
// returns the hosted URL. The host is an unsigned Cloudinary-style REST
// endpoint: multipart POST with "file" and "upload_preset" fields.
type ImageUploader struct {
	uploadURL  string
	preset     string
	maxBytes   int64
	httpClient *http.Client
	logger     *zap.Logger
}

// NewImageUploader builds the uploader from config.
func NewImageUploader(cfg config.StorageConfig, logger *zap.Logger) *ImageUploader {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ImageUploader{
		uploadURL: cfg.UploadURL,
		preset:    cfg.UploadPreset,
		maxBytes:  cfg.MaxUploadBytes,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
}

// Upload streams the file to the image host and returns its public URL.
func (u *ImageUploader) Upload(ctx context.Context, filename, contentType string, size int64, file io.Reader) (string, error) {
	if u.uploadURL == "" {
		return "", ErrNotConfigured
	}
	if _, ok := allowedContentTypes[contentType]; !ok {
		return "", ErrUnsupportedType
	}
	if u.maxBytes > 0 && size > u.maxBytes {
		return "", ErrTooLarge
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if u.preset != "" {
		if err := writer.WriteField("upload_preset", u.preset); err != nil {
			return "", err
		}
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		u.logger.Error("image host rejected upload",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", payload))
		return "", fmt.Errorf("image host returned status %d", resp.StatusCode)
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.SecureURL != "" {
		return parsed.SecureURL, nil
	}
	if parsed.URL != "" {
		return parsed.URL, nil
	}
	return "", errors.New("image host response missing url")
}
