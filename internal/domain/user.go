package domain

import "time"

// User is the domain model for storefront customers. The admin flag gates
// access to the all-orders listing.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
