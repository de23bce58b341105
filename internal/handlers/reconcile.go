package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Shorno/organic-food-store/internal/mailer"
	"github.com/Shorno/organic-food-store/internal/models"
)

// paymentOutcome is the normalized result of a gateway notification, whatever
// channel it arrived on.
type paymentOutcome int

const (
	outcomeValid paymentOutcome = iota
	outcomeFailed
)

var errOrderNotFound = errors.New("order not found")

// paymentReconcileFilter is the idempotency guard: it only matches a payment
// that is not completed yet, so duplicate and racing deliveries degrade to
// matched-zero no-ops and a late FAILED can never downgrade a completed
// payment.
func paymentReconcileFilter(orderID primitive.ObjectID) bson.M {
	return bson.M{
		"orderId": orderID,
		"status":  bson.M{"$ne": models.PaymentStatusCompleted},
	}
}

func paymentReconcileUpdate(outcome paymentOutcome, transactionID string, now time.Time) bson.M {
	switch outcome {
	case outcomeValid:
		return bson.M{"$set": bson.M{
			"status":        models.PaymentStatusCompleted,
			"completedAt":   now,
			"transactionId": transactionID,
			"updatedAt":     now,
		}}
	default:
		return bson.M{"$set": bson.M{
			"status":    models.PaymentStatusFailed,
			"failedAt":  now,
			"updatedAt": now,
		}}
	}
}

// orderReconcileUpdate returns the order-side write for an outcome, or false
// when the order must not be touched: a failed payment leaves the order
// pending so the customer can retry or switch method.
func orderReconcileUpdate(outcome paymentOutcome, now time.Time) (bson.M, bool) {
	if outcome != outcomeValid {
		return nil, false
	}
	return bson.M{"$set": bson.M{
		"status":      models.OrderStatusConfirmed,
		"confirmedAt": now,
		"updatedAt":   now,
	}}, true
}

// reconcilePayment applies a gateway outcome to the order and payment
// documents exactly once per logical event. The browser validate path and the
// server-to-server IPN both land here, in any order, possibly concurrently
// and possibly more than once, so the completion write is a conditional
// update: "complete the payment where it is not completed yet". Two racing
// callers cannot both match, and the loser degrades to a no-op that still
// reports success.
//
// A Failed outcome marks only the payment; the order deliberately stays
// pending so the customer can retry or switch method.
func reconcilePayment(ctx context.Context, db *mongo.Database, mail *mailer.Mailer, orderID primitive.ObjectID, transactionID string, outcome paymentOutcome) (models.Order, error) {
	session, err := db.Client().StartSession()
	if err != nil {
		return models.Order{}, err
	}
	defer session.EndSession(ctx)

	transitioned := false
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		now := time.Now()

		res, err := db.Collection("payments").UpdateOne(sessCtx,
			paymentReconcileFilter(orderID),
			paymentReconcileUpdate(outcome, transactionID, now),
		)
		if err != nil {
			return nil, err
		}

		if res.MatchedCount == 0 {
			// Either the payment is already completed (duplicate delivery)
			// or the order never existed. Only the latter is an error.
			count, err := db.Collection("payments").CountDocuments(sessCtx, bson.M{"orderId": orderID})
			if err != nil {
				return nil, err
			}
			if count == 0 {
				return nil, errOrderNotFound
			}
			return nil, nil
		}

		if orderUpdate, ok := orderReconcileUpdate(outcome, now); ok {
			if _, err := db.Collection("orders").UpdateByID(sessCtx, orderID, orderUpdate); err != nil {
				return nil, err
			}
			transitioned = true
		}
		return nil, nil
	})
	if err != nil {
		return models.Order{}, err
	}

	var order models.Order
	if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Order{}, errOrderNotFound
		}
		return models.Order{}, err
	}

	if transitioned {
		log.Printf("[PAYMENT] [INFO] order %s confirmed, payment completed (tran %s)", order.OrderNumber, transactionID)
		if mail != nil && mail.Enabled() {
			go func(order models.Order) {
				if err := mail.SendOrderConfirmation(order); err != nil {
					log.Println("[MAIL] [ERROR] order confirmation failed:", err)
				}
			}(order)
		}
	}

	return order, nil
}
