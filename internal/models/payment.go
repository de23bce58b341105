package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses. "processing" specifically means a gateway session was
// created and the outcome is still unknown.
const (
	PaymentStatusPending           = "pending"
	PaymentStatusProcessing        = "processing"
	PaymentStatusCompleted         = "completed"
	PaymentStatusFailed            = "failed"
	PaymentStatusRefunded          = "refunded"
	PaymentStatusPartiallyRefunded = "partially_refunded"
	PaymentStatusCancelled         = "cancelled"
)

const (
	PaymentMethodCOD   = "cod"
	PaymentMethodBkash = "bkash"
	PaymentMethodCard  = "card"
)

// Payment belongs to exactly one order; the unique index on orderId enforces
// the one-to-one relation. TransactionID holds the merchant transaction id of
// the latest gateway session, Amount always equals the order total.
type Payment struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	OrderID       primitive.ObjectID   `bson:"orderId" json:"orderId"`
	TransactionID string               `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	Method        string               `bson:"method" json:"method"`
	Status        string               `bson:"status" json:"status"`
	Amount        primitive.Decimal128 `bson:"amount" json:"amount"`
	Currency      string               `bson:"currency" json:"currency"`
	CompletedAt   *time.Time           `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	FailedAt      *time.Time           `bson:"failedAt,omitempty" json:"failedAt,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}
