package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Shorno/organic-food-store/internal/models"
)

type orderLineRequest struct {
	ID       string          `json:"id" binding:"required"`
	Name     string          `json:"name" binding:"required"`
	Size     string          `json:"size"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type shippingRequest struct {
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"required"`
	AddressLine string `json:"addressLine" binding:"required"`
	City        string `json:"city" binding:"required"`
	Area        string `json:"area"`
	PostalCode  string `json:"postalCode" binding:"required"`
	Country     string `json:"country" binding:"required"`
	PaymentType string `json:"paymentType" binding:"required,oneof=online cod"`
}

type createOrderRequest struct {
	Shipping shippingRequest    `json:"shipping" binding:"required"`
	Items    []orderLineRequest `json:"items"`
}

var errEmptyCart = errors.New("cart is empty")

type invalidOrderLineError struct {
	ProductID string
	Reason    string
}

func (e invalidOrderLineError) Error() string {
	return fmt.Sprintf("invalid order line %s: %s", e.ProductID, e.Reason)
}

// generateOrderNumber builds a human-readable order number from the current
// time plus a random suffix. Uniqueness is ultimately enforced by the
// orderNumber index; callers retry generation on a duplicate-key conflict.
func generateOrderNumber(now time.Time) string {
	timestamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:5])
	return fmt.Sprintf("ORD-%s-%s", timestamp, random)
}

// generateTransactionID mints a merchant transaction id scoped to one payment
// attempt. Every initiation gets a fresh id; an order accumulates several ids
// across retries.
func generateTransactionID(orderID primitive.ObjectID, now time.Time) string {
	return fmt.Sprintf("TXN-%s-%d", orderID.Hex(), now.UnixMilli())
}

// paymentMethodForShipping maps the checkout selection onto a payment method:
// cash on delivery is payable at the door, everything else waits for the
// online gateway.
func paymentMethodForShipping(paymentType string) string {
	if paymentType == "cod" {
		return models.PaymentMethodCOD
	}
	return models.PaymentMethodBkash
}

// buildOrderFromRequest turns the submitted cart snapshot into an order
// document. Line subtotals are recomputed from quantity × unit price rather
// than trusted from the caller, so a stale client total can never be
// persisted.
func buildOrderFromRequest(userID primitive.ObjectID, req createOrderRequest, shippingAmount decimal.Decimal, now time.Time) (models.Order, error) {
	if len(req.Items) == 0 {
		return models.Order{}, errEmptyCart
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	subtotal := decimal.Zero

	for _, line := range req.Items {
		productID, err := primitive.ObjectIDFromHex(line.ID)
		if err != nil {
			return models.Order{}, invalidOrderLineError{ProductID: line.ID, Reason: "invalid product id"}
		}
		if line.Quantity < 1 {
			return models.Order{}, invalidOrderLineError{ProductID: line.ID, Reason: "quantity must be at least 1"}
		}
		if line.Price.IsNegative() || line.Price.IsZero() {
			return models.Order{}, invalidOrderLineError{ProductID: line.ID, Reason: "unit price must be positive"}
		}

		lineSubtotal := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineSubtotal)

		unitPrice, err := models.ToDecimal128(line.Price)
		if err != nil {
			return models.Order{}, invalidOrderLineError{ProductID: line.ID, Reason: "invalid unit price"}
		}
		lineSubtotal128, err := models.ToDecimal128(lineSubtotal)
		if err != nil {
			return models.Order{}, invalidOrderLineError{ProductID: line.ID, Reason: "invalid subtotal"}
		}

		items = append(items, models.OrderItem{
			ProductID: productID,
			Name:      strings.TrimSpace(line.Name),
			Size:      strings.TrimSpace(line.Size),
			Image:     strings.TrimSpace(line.Image),
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
			Subtotal:  lineSubtotal128,
		})
	}

	total := subtotal.Add(shippingAmount)

	subtotal128, err := models.ToDecimal128(subtotal)
	if err != nil {
		return models.Order{}, err
	}
	shipping128, err := models.ToDecimal128(shippingAmount)
	if err != nil {
		return models.Order{}, err
	}
	total128, err := models.ToDecimal128(total)
	if err != nil {
		return models.Order{}, err
	}

	return models.Order{
		OrderNumber:    generateOrderNumber(now),
		UserID:         userID,
		Status:         models.OrderStatusPending,
		Subtotal:       subtotal128,
		ShippingAmount: shipping128,
		TotalAmount:    total128,
		Shipping: models.ShippingDetails{
			FullName:    strings.TrimSpace(req.Shipping.FullName),
			Email:       strings.TrimSpace(req.Shipping.Email),
			Phone:       strings.TrimSpace(req.Shipping.Phone),
			AddressLine: strings.TrimSpace(req.Shipping.AddressLine),
			City:        strings.TrimSpace(req.Shipping.City),
			Area:        strings.TrimSpace(req.Shipping.Area),
			PostalCode:  strings.TrimSpace(req.Shipping.PostalCode),
			Country:     strings.TrimSpace(req.Shipping.Country),
		},
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// buildPaymentForOrder creates the pending payment row that accompanies every
// new order. Amount mirrors the order total by construction.
func buildPaymentForOrder(order models.Order, paymentType, currency string, now time.Time) models.Payment {
	return models.Payment{
		OrderID:   order.ID,
		Method:    paymentMethodForShipping(paymentType),
		Status:    models.PaymentStatusPending,
		Amount:    order.TotalAmount,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
