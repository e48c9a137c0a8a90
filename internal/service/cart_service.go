package service

import (
	"context"
	"strings"

	"github.com/sachi-ghani/storefront-service/internal/domain"
	"github.com/sachi-ghani/storefront-service/internal/repository"
	apperrors "github.com/sachi-ghani/storefront-service/pkg/util"
)

// CartService reads and replaces a user's pre-checkout cart.
type CartService struct {
	users repository.UserRepository
}

// NewCartService builds the service.
func NewCartService(users repository.UserRepository) *CartService {
	return &CartService{users: users}
}

// Get returns the user's current cart, empty slice when none.
func (s *CartService) Get(ctx context.Context, userID string) ([]domain.CartItem, error) {
	items, err := s.users.GetCart(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items, nil
}

// Replace fully overwrites the stored cart. No merge, no catalog check: the
// client owns the contents, the server owns durability.
func (s *CartService) Replace(ctx context.Context, userID string, items []domain.CartItem) ([]domain.CartItem, error) {
	for _, item := range items {
		if strings.TrimSpace(item.ProductID) == "" {
			return nil, apperrors.NewValidationError("cart item missing productId", nil)
		}
		if item.Qty <= 0 {
			return nil, apperrors.NewValidationError("cart item qty must be positive", nil)
		}
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	if err := s.users.ReplaceCart(ctx, userID, items); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return items, nil
}
