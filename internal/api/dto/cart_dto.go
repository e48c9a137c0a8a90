package dto

import "github.com/sachi-ghani/storefront-service/internal/domain"

// CartPutRequest fully replaces the stored cart.
type CartPutRequest struct {
	Cart []domain.CartItem `json:"cart"`
}
