package models

import "testing"

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range []string{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded,
	} {
		if !IsValidOrderStatus(status) {
			t.Errorf("expected %q to be valid", status)
		}
	}

	for _, status := range []string{"", "PENDING", "returned", "paid"} {
		if IsValidOrderStatus(status) {
			t.Errorf("expected %q to be invalid", status)
		}
	}
}

func TestCanTransitionOrderStatus(t *testing.T) {
	allowed := []struct{ from, to string }{
		{OrderStatusPending, OrderStatusConfirmed},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusConfirmed, OrderStatusShipped},
		{OrderStatusProcessing, OrderStatusShipped},
		{OrderStatusShipped, OrderStatusDelivered},
		{OrderStatusDelivered, OrderStatusRefunded},
	}
	for _, tc := range allowed {
		if !CanTransitionOrderStatus(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	forbidden := []struct{ from, to string }{
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusCancelled, OrderStatusConfirmed},
		{OrderStatusRefunded, OrderStatusPending},
		{OrderStatusDelivered, OrderStatusShipped},
		{OrderStatusShipped, OrderStatusCancelled},
	}
	for _, tc := range forbidden {
		if CanTransitionOrderStatus(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestSameStatusTransitionRejected(t *testing.T) {
	for status := range orderStatusTransitions {
		if CanTransitionOrderStatus(status, status) {
			t.Errorf("expected %s -> %s to be rejected", status, status)
		}
	}
}
