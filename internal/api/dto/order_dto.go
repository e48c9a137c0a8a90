package dto

import (
	"time"

	"github.com/sachi-ghani/storefront-service/internal/domain"
)

// PlaceOrderRequest is the checkout payload.
type PlaceOrderRequest struct {
	Items           []domain.CartItem      `json:"items"`
	Total           float64                `json:"total"`
	CustomerDetails domain.CustomerDetails `json:"customerDetails"`
	DeliveryMethod  string                 `json:"deliveryMethod"`
	PaymentProof    string                 `json:"paymentProof"`
}

// OrderOwnerView is the joined owner shown in admin listings.
type OrderOwnerView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderView is the API shape of a stored order.
type OrderView struct {
	ID              string                 `json:"id"`
	OrderID         string                 `json:"orderId"`
	Items           []domain.CartItem      `json:"items"`
	Total           float64                `json:"total"`
	CustomerDetails domain.CustomerDetails `json:"customerDetails"`
	PaymentProof    string                 `json:"paymentProof,omitempty"`
	Status          string                 `json:"status"`
	DeliveryMethod  string                 `json:"deliveryMethod"`
	User            *OrderOwnerView        `json:"user,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// AdminOrdersResponse wraps the all-orders listing.
type AdminOrdersResponse struct {
	TotalOrders int         `json:"totalOrders"`
	Orders      []OrderView `json:"orders"`
}

// NewOrderView maps a domain order to its API shape.
func NewOrderView(order *domain.Order) OrderView {
	view := OrderView{
		ID:              order.ID,
		OrderID:         order.OrderID,
		Items:           order.Items,
		Total:           order.Total,
		CustomerDetails: order.CustomerDetails,
		PaymentProof:    order.PaymentProof,
		Status:          string(order.Status),
		DeliveryMethod:  string(order.DeliveryMethod),
		CreatedAt:       order.CreatedAt,
	}
	if order.Owner != nil {
		view.User = &OrderOwnerView{Name: order.Owner.Name, Email: order.Owner.Email}
	}
	return view
}

// NewOrderViews maps a slice of orders.
func NewOrderViews(orders []domain.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, NewOrderView(&orders[i]))
	}
	return views
}
