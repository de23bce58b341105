package handlers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Shorno/organic-food-store/internal/models"
)

func setClause(t *testing.T, update bson.M) bson.M {
	t.Helper()
	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("expected a $set update, got %v", update)
	}
	return set
}

func TestPaymentReconcileFilterExcludesCompleted(t *testing.T) {
	orderID := primitive.NewObjectID()
	filter := paymentReconcileFilter(orderID)

	if filter["orderId"] != orderID {
		t.Errorf("filter must target the order's payment, got %v", filter["orderId"])
	}

	status, ok := filter["status"].(bson.M)
	if !ok {
		t.Fatalf("expected a status condition, got %v", filter["status"])
	}
	if status["$ne"] != models.PaymentStatusCompleted {
		t.Errorf("filter must exclude completed payments, got %v", status["$ne"])
	}
}

func TestPaymentReconcileUpdateValid(t *testing.T) {
	now := time.Now()
	set := setClause(t, paymentReconcileUpdate(outcomeValid, "TXN-aaa-1", now))

	if set["status"] != models.PaymentStatusCompleted {
		t.Errorf("expected completed status, got %v", set["status"])
	}
	if set["transactionId"] != "TXN-aaa-1" {
		t.Errorf("expected transaction id recorded, got %v", set["transactionId"])
	}
	if set["completedAt"] != now {
		t.Error("expected completedAt set")
	}
	if _, exists := set["failedAt"]; exists {
		t.Error("a completion must not set failedAt")
	}
}

func TestPaymentReconcileUpdateFailed(t *testing.T) {
	now := time.Now()
	set := setClause(t, paymentReconcileUpdate(outcomeFailed, "TXN-aaa-1", now))

	if set["status"] != models.PaymentStatusFailed {
		t.Errorf("expected failed status, got %v", set["status"])
	}
	if set["failedAt"] != now {
		t.Error("expected failedAt set")
	}
	if _, exists := set["completedAt"]; exists {
		t.Error("a failure must not set completedAt")
	}
	if _, exists := set["transactionId"]; exists {
		t.Error("a failure must not overwrite the transaction id")
	}
}

func TestOrderReconcileUpdateOnlyOnValid(t *testing.T) {
	now := time.Now()

	update, ok := orderReconcileUpdate(outcomeValid, now)
	if !ok {
		t.Fatal("a settled payment must confirm the order")
	}
	set := setClause(t, update)
	if set["status"] != models.OrderStatusConfirmed {
		t.Errorf("expected confirmed status, got %v", set["status"])
	}
	if set["confirmedAt"] != now {
		t.Error("expected confirmedAt set")
	}

	// A failed payment leaves the order pending for retry.
	if _, ok := orderReconcileUpdate(outcomeFailed, now); ok {
		t.Error("a failed payment must not touch the order")
	}
}
