package handlers

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Shorno/organic-food-store/internal/models"
)

// These tests need a replica-set MongoDB (transactions); set MONGO_TEST_URI
// to run them, e.g. MONGO_TEST_URI=mongodb://localhost:27017/?replicaSet=rs0

func reconcileTestDB(t *testing.T) (*mongo.Database, context.Context) {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("organic_food_store_test")
	if err := db.Collection("orders").Drop(ctx); err != nil {
		t.Fatalf("drop orders: %v", err)
	}
	if err := db.Collection("payments").Drop(ctx); err != nil {
		t.Fatalf("drop payments: %v", err)
	}
	return db, ctx
}

func seedPendingOrder(t *testing.T, ctx context.Context, db *mongo.Database) primitive.ObjectID {
	t.Helper()

	now := time.Now()
	orderID := primitive.NewObjectID()

	_, err := db.Collection("orders").InsertOne(ctx, bson.M{
		"_id":         orderID,
		"orderNumber": "ORD-TEST-" + orderID.Hex()[:5],
		"status":      models.OrderStatusPending,
		"createdAt":   now,
		"updatedAt":   now,
	})
	if err != nil {
		t.Fatalf("seed order: %v", err)
	}

	_, err = db.Collection("payments").InsertOne(ctx, bson.M{
		"orderId":   orderID,
		"method":    models.PaymentMethodBkash,
		"status":    models.PaymentStatusPending,
		"createdAt": now,
		"updatedAt": now,
	})
	if err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	return orderID
}

func loadPayment(t *testing.T, ctx context.Context, db *mongo.Database, orderID primitive.ObjectID) models.Payment {
	t.Helper()
	var payment models.Payment
	if err := db.Collection("payments").FindOne(ctx, bson.M{"orderId": orderID}).Decode(&payment); err != nil {
		t.Fatalf("load payment: %v", err)
	}
	return payment
}

func TestReconcileDuplicateDeliveryIsNoOp(t *testing.T) {
	db, ctx := reconcileTestDB(t)
	orderID := seedPendingOrder(t, ctx, db)

	first, err := reconcilePayment(ctx, db, nil, orderID, "TXN-first", outcomeValid)
	if err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if first.Status != models.OrderStatusConfirmed {
		t.Errorf("expected confirmed order, got %s", first.Status)
	}

	payment := loadPayment(t, ctx, db, orderID)
	if payment.Status != models.PaymentStatusCompleted {
		t.Fatalf("expected completed payment, got %s", payment.Status)
	}
	completedAt := payment.CompletedAt

	// Same event delivered again (validate + IPN race resolved serially here).
	second, err := reconcilePayment(ctx, db, nil, orderID, "TXN-second", outcomeValid)
	if err != nil {
		t.Fatalf("duplicate delivery must succeed as a no-op: %v", err)
	}
	if second.Status != models.OrderStatusConfirmed {
		t.Errorf("expected order still confirmed, got %s", second.Status)
	}

	payment = loadPayment(t, ctx, db, orderID)
	if payment.TransactionID != "TXN-first" {
		t.Errorf("duplicate delivery must not overwrite the transaction id, got %s", payment.TransactionID)
	}
	if payment.CompletedAt == nil || completedAt == nil || !payment.CompletedAt.Equal(*completedAt) {
		t.Error("duplicate delivery must not rewrite completedAt")
	}
}

func TestReconcileFailedLeavesOrderPending(t *testing.T) {
	db, ctx := reconcileTestDB(t)
	orderID := seedPendingOrder(t, ctx, db)

	order, err := reconcilePayment(ctx, db, nil, orderID, "TXN-failed", outcomeFailed)
	if err != nil {
		t.Fatalf("failed delivery: %v", err)
	}

	if order.Status != models.OrderStatusPending {
		t.Errorf("a failed payment must leave the order pending, got %s", order.Status)
	}

	payment := loadPayment(t, ctx, db, orderID)
	if payment.Status != models.PaymentStatusFailed {
		t.Errorf("expected failed payment, got %s", payment.Status)
	}
	if payment.FailedAt == nil {
		t.Error("expected failedAt set")
	}
}

func TestReconcileLateFailureCannotDowngrade(t *testing.T) {
	db, ctx := reconcileTestDB(t)
	orderID := seedPendingOrder(t, ctx, db)

	if _, err := reconcilePayment(ctx, db, nil, orderID, "TXN-ok", outcomeValid); err != nil {
		t.Fatalf("settle: %v", err)
	}

	// A FAILED notification arriving after completion must change nothing.
	order, err := reconcilePayment(ctx, db, nil, orderID, "TXN-ok", outcomeFailed)
	if err != nil {
		t.Fatalf("late failure must be a no-op: %v", err)
	}
	if order.Status != models.OrderStatusConfirmed {
		t.Errorf("expected order to stay confirmed, got %s", order.Status)
	}

	payment := loadPayment(t, ctx, db, orderID)
	if payment.Status != models.PaymentStatusCompleted {
		t.Errorf("expected payment to stay completed, got %s", payment.Status)
	}
}

func TestReconcileUnknownOrder(t *testing.T) {
	db, ctx := reconcileTestDB(t)

	_, err := reconcilePayment(ctx, db, nil, primitive.NewObjectID(), "TXN-x", outcomeValid)
	if !errors.Is(err, errOrderNotFound) {
		t.Errorf("expected errOrderNotFound, got %v", err)
	}
}
