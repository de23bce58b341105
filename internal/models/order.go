package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. The flow is linear with one branch: pending → confirmed →
// shipped → delivered, with cancelled/refunded exits and an admin-set
// processing step between confirmed and shipped.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

var orderStatusTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusShipped, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusRefunded},
	OrderStatusDelivered:  {OrderStatusRefunded},
	OrderStatusCancelled:  {},
	OrderStatusRefunded:   {},
}

// IsValidOrderStatus reports whether value is one of the known order statuses.
func IsValidOrderStatus(value string) bool {
	_, ok := orderStatusTransitions[value]
	return ok
}

// CanTransitionOrderStatus reports whether an order may move from one status
// to another. Same-status updates are rejected so callers surface them as
// no-ops instead of silently rewriting timestamps.
func CanTransitionOrderStatus(from, to string) bool {
	for _, allowed := range orderStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ShippingDetails is the customer contact and delivery snapshot captured when
// the order is placed. It never tracks later profile edits.
type ShippingDetails struct {
	FullName    string `bson:"fullName" json:"fullName"`
	Email       string `bson:"email" json:"email"`
	Phone       string `bson:"phone" json:"phone"`
	AddressLine string `bson:"addressLine" json:"addressLine"`
	City        string `bson:"city" json:"city"`
	Area        string `bson:"area,omitempty" json:"area,omitempty"`
	PostalCode  string `bson:"postalCode" json:"postalCode"`
	Country     string `bson:"country" json:"country"`
}

// OrderItem snapshots the product at purchase time so later catalog edits
// never alter historical orders. Items are embedded in the order document and
// share its lifecycle.
type OrderItem struct {
	ProductID primitive.ObjectID   `bson:"productId" json:"productId"`
	Name      string               `bson:"name" json:"name"`
	Size      string               `bson:"size,omitempty" json:"size,omitempty"`
	Image     string               `bson:"image,omitempty" json:"image,omitempty"`
	Quantity  int                  `bson:"quantity" json:"quantity"`
	UnitPrice primitive.Decimal128 `bson:"unitPrice" json:"unitPrice"`
	Subtotal  primitive.Decimal128 `bson:"subtotal" json:"subtotal"`
}

// Order is the persisted order document. TotalAmount is fixed at creation as
// subtotal + shipping and is never recomputed afterwards.
type Order struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	OrderNumber    string               `bson:"orderNumber" json:"orderNumber"`
	UserID         primitive.ObjectID   `bson:"userId" json:"userId"`
	Status         string               `bson:"status" json:"status"`
	Subtotal       primitive.Decimal128 `bson:"subtotal" json:"subtotal"`
	ShippingAmount primitive.Decimal128 `bson:"shippingAmount" json:"shippingAmount"`
	TotalAmount    primitive.Decimal128 `bson:"totalAmount" json:"totalAmount"`
	Shipping       ShippingDetails      `bson:"shipping" json:"shipping"`
	Items          []OrderItem          `bson:"items" json:"items"`
	ConfirmedAt    *time.Time           `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}
