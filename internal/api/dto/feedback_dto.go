package dto

import (
	"time"

	"github.com/sachi-ghani/storefront-service/internal/domain"
)

// FeedbackCreateRequest payload for new reviews.
type FeedbackCreateRequest struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Rating  int    `json:"rating"`
}

// FeedbackUpdateRequest carries optional fields for partial updates.
type FeedbackUpdateRequest struct {
	Name    *string `json:"name"`
	Message *string `json:"message"`
	Rating  *int    `json:"rating"`
}

// FeedbackView is the API shape of a review.
type FeedbackView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewFeedbackView maps a domain review.
func NewFeedbackView(feedback *domain.Feedback) FeedbackView {
	return FeedbackView{
		ID:        feedback.ID,
		Name:      feedback.Name,
		Message:   feedback.Message,
		Rating:    feedback.Rating,
		CreatedAt: feedback.CreatedAt,
	}
}

// NewFeedbackViews maps a slice of reviews.
func NewFeedbackViews(items []domain.Feedback) []FeedbackView {
	views := make([]FeedbackView, 0, len(items))
	for i := range items {
		views = append(views, NewFeedbackView(&items[i]))
	}
	return views
}
