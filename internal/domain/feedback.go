package domain

import "time"

// Feedback is a public customer review. It has no ownership relation to User.
type Feedback struct {
	ID        string
	Name      string
	Message   string
	Rating    int
	CreatedAt time.Time
	UpdatedAt time.Time
}
