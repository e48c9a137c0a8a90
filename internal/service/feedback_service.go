package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sachi-ghani/storefront-service/internal/domain"
	"github.com/sachi-ghani/storefront-service/internal/events"
	"github.com/sachi-ghani/storefront-service/internal/repository"
	apperrors "github.com/sachi-ghani/storefront-service/pkg/util"
)

const (
	defaultRating    = 5
	feedbackPageSize = 50
)

// FeedbackUpdate carries optional fields for partial updates.
type FeedbackUpdate struct {
	Name    *string
	Message *string
	Rating  *int
}

// FeedbackService is public CRUD over customer reviews.
type FeedbackService struct {
	feedback   repository.FeedbackRepository
	dispatcher events.Dispatcher
}

// NewFeedbackService builds the service.
func NewFeedbackService(feedback repository.FeedbackRepository, dispatcher events.Dispatcher) *FeedbackService {
	return &FeedbackService{feedback: feedback, dispatcher: dispatcher}
}

// List returns the newest reviews, capped to a fixed page size.
func (s *FeedbackService) List(ctx context.Context) ([]domain.Feedback, error) {
	items, err := s.feedback.List(ctx, feedbackPageSize)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if items == nil {
		items = []domain.Feedback{}
	}
	return items, nil
}

// Create stores a review. A missing rating defaults to 5; out-of-range
// ratings are clamped to 1..5.
func (s *FeedbackService) Create(ctx context.Context, name, message string, rating int) (*domain.Feedback, error) {
	name = strings.TrimSpace(name)
	message = strings.TrimSpace(message)
	if name == "" || message == "" {
		return nil, apperrors.NewValidationError("name and message are required", nil)
	}
	if rating == 0 {
		rating = defaultRating
	}
	rating = clampRating(rating)

	feedback := &domain.Feedback{Name: name, Message: message, Rating: rating}
	if err := s.feedback.Create(ctx, feedback); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventFeedbackCreated,
			Timestamp: time.Now(),
			Payload:   events.FeedbackCreatedPayload{FeedbackID: feedback.ID, Rating: feedback.Rating},
		})
	}
	return feedback, nil
}

// Update applies a partial update to an existing review.
func (s *FeedbackService) Update(ctx context.Context, id string, update FeedbackUpdate) (*domain.Feedback, error) {
	feedback, err := s.feedback.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("feedback", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, apperrors.NewValidationError("name must not be empty", nil)
		}
		feedback.Name = strings.TrimSpace(*update.Name)
	}
	if update.Message != nil {
		if strings.TrimSpace(*update.Message) == "" {
			return nil, apperrors.NewValidationError("message must not be empty", nil)
		}
		feedback.Message = strings.TrimSpace(*update.Message)
	}
	if update.Rating != nil {
		feedback.Rating = clampRating(*update.Rating)
	}

	if err := s.feedback.Update(ctx, feedback); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("feedback", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return feedback, nil
}

// Delete removes a review by id.
func (s *FeedbackService) Delete(ctx context.Context, id string) error {
	if err := s.feedback.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("feedback", nil)
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

func clampRating(rating int) int {
	if rating < 1 {
		return 1
	}
	if rating > 5 {
		return 5
	}
	return rating
}
