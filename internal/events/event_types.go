package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered         EventType = "user_registered"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventOrderPlaced            EventType = "order_placed"
	EventFeedbackCreated        EventType = "feedback_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OrderPlacedPayload payload.
type OrderPlacedPayload struct {
	OrderID   string  `json:"order_id"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}

// FeedbackCreatedPayload payload.
type FeedbackCreatedPayload struct {
	FeedbackID string `json:"feedback_id"`
	Rating     int    `json:"rating"`
}
