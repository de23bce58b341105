package models

import "github.com/shopspring/decimal"

// CartItem is one product line inside a cart snapshot. Subtotal is always
// UnitPrice × Quantity; the reducer recomputes it on every change.
type CartItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Size      string          `json:"size,omitempty"`
	Image     string          `json:"image,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Cart is an immutable value snapshot of what the user intends to buy. It is
// serialized to JSON and persisted per owner (user id or guest session id);
// it is never the source of truth once an order exists.
type Cart struct {
	Items         []CartItem      `json:"items"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}
