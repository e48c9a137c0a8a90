package domain

import "time"

// OrderStatus enumerates order lifecycle states. Only "placed" is reachable
// today; the remaining states exist for the admin dashboard.
type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
)

// DeliveryMethod selects between home delivery and self pickup.
type DeliveryMethod string

const (
	DeliveryMethodDelivery DeliveryMethod = "delivery"
	DeliveryMethodPickup   DeliveryMethod = "pickup"
)

// CustomerDetails captures delivery and manual-payment metadata supplied at
// checkout. UTR is the bank transaction reference for manual transfers.
type CustomerDetails struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	District string `json:"district"`
	Pincode  string `json:"pincode"`
	UTR      string `json:"utr"`
}

// OrderOwner is the joined owner projection attached to admin listings.
type OrderOwner struct {
	Name  string
	Email string
}

// Order is an immutable snapshot of a cart plus checkout metadata. OrderID is
// the human-readable 6-digit reference shown to customers; ID is the storage key.
type Order struct {
	ID              string
	OrderID         string
	UserID          string
	Items           []CartItem
	Total           float64
	CustomerDetails CustomerDetails
	PaymentProof    string
	Status          OrderStatus
	DeliveryMethod  DeliveryMethod
	Owner           *OrderOwner
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
