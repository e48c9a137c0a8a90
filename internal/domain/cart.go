package domain

// CartItem is a single line of a user's pre-checkout cart. The same shape is
// snapshotted into orders at checkout, so it carries JSON tags matching the
// public API.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
}
