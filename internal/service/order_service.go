package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/sachi-ghani/storefront-service/internal/domain"
	"github.com/sachi-ghani/storefront-service/internal/events"
	"github.com/sachi-ghani/storefront-service/internal/repository"
	apperrors "github.com/sachi-ghani/storefront-service/pkg/util"
)

// orderIDAttempts bounds retries when a generated order id collides with the
// unique index.
const orderIDAttempts = 3

// PlaceOrderInput carries the checkout payload. Total is trusted as supplied;
// there is no server-side catalog to recompute it from.
type PlaceOrderInput struct {
	Items           []domain.CartItem
	Total           float64
	CustomerDetails domain.CustomerDetails
	DeliveryMethod  domain.DeliveryMethod
	PaymentProof    string
}

// OrderService converts cart snapshots into persisted orders.
type OrderService struct {
	orders     repository.OrderRepository
	dispatcher events.Dispatcher
}

// NewOrderService builds the service.
func NewOrderService(orders repository.OrderRepository, dispatcher events.Dispatcher) *OrderService {
	return &OrderService{orders: orders, dispatcher: dispatcher}
}

// Place persists an order snapshot with status "placed" and clears the
// caller's cart in the same transaction.
func (s *OrderService) Place(ctx context.Context, userID string, input PlaceOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, apperrors.NewValidationError("order must contain at least one item", nil)
	}
	for _, item := range input.Items {
		if item.Qty <= 0 {
			return nil, apperrors.NewValidationError("order item qty must be positive", nil)
		}
	}
	if input.Total <= 0 {
		return nil, apperrors.NewValidationError("order total must be positive", nil)
	}

	method := input.DeliveryMethod
	switch method {
	case "":
		method = domain.DeliveryMethodDelivery
	case domain.DeliveryMethodDelivery, domain.DeliveryMethodPickup:
	default:
		return nil, apperrors.NewValidationError("deliveryMethod must be delivery or pickup", nil)
	}

	order := &domain.Order{
		UserID:          userID,
		Items:           input.Items,
		Total:           input.Total,
		CustomerDetails: input.CustomerDetails,
		PaymentProof:    input.PaymentProof,
		Status:          domain.OrderStatusPlaced,
		DeliveryMethod:  method,
	}

	var err error
	for attempt := 0; attempt < orderIDAttempts; attempt++ {
		order.OrderID = newOrderID()
		err = s.orders.Create(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrOrderIDTaken) {
			return nil, apperrors.NewInternalError(err)
		}
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventOrderPlaced,
			UserID:    userID,
			Timestamp: time.Now(),
			Payload: events.OrderPlacedPayload{
				OrderID:   order.OrderID,
				Total:     order.Total,
				ItemCount: len(order.Items),
			},
		})
	}

	return order, nil
}

// ListMine returns the caller's orders, newest first.
func (s *OrderService) ListMine(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// ListAll returns every order with its owner joined, newest first. Only
// admins may call it.
func (s *OrderService) ListAll(ctx context.Context, callerIsAdmin bool) ([]domain.Order, int, error) {
	if !callerIsAdmin {
		return nil, 0, apperrors.NewForbidden("admin only")
	}

	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	total, err := s.orders.CountAll(ctx)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, total, nil
}

// newOrderID generates the human-readable 6-digit reference. Uniqueness is
// enforced by the orders.order_id index, with Place retrying on collision.
func newOrderID() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}
