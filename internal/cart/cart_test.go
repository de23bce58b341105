package cart

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Shorno/organic-food-store/internal/models"
)

func item(id string, price string, qty int) models.CartItem {
	return models.CartItem{
		ProductID: id,
		Name:      "item " + id,
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func TestAddItemNewProduct(t *testing.T) {
	result := AddItem(Clear(), item("p1", "120.50", 2))

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if result.TotalQuantity != 2 {
		t.Errorf("expected total quantity 2, got %d", result.TotalQuantity)
	}
	if !result.TotalPrice.Equal(decimal.RequireFromString("241.00")) {
		t.Errorf("expected total 241.00, got %s", result.TotalPrice)
	}
	if !result.Items[0].Subtotal.Equal(decimal.RequireFromString("241.00")) {
		t.Errorf("expected line subtotal 241.00, got %s", result.Items[0].Subtotal)
	}
}

func TestAddItemExistingProductMergesQuantity(t *testing.T) {
	cart := AddItem(Clear(), item("p1", "50", 1))
	cart = AddItem(cart, item("p1", "50", 3))

	if len(cart.Items) != 1 {
		t.Fatalf("expected merged line, got %d items", len(cart.Items))
	}
	if cart.Items[0].Quantity != 4 {
		t.Errorf("expected quantity 4, got %d", cart.Items[0].Quantity)
	}
	if !cart.TotalPrice.Equal(decimal.RequireFromString("200")) {
		t.Errorf("expected total 200, got %s", cart.TotalPrice)
	}
}

func TestAddItemFloorsQuantityToOne(t *testing.T) {
	cart := AddItem(Clear(), item("p1", "10", 0))
	if cart.Items[0].Quantity != 1 {
		t.Errorf("expected quantity floored to 1, got %d", cart.Items[0].Quantity)
	}

	cart = AddItem(Clear(), item("p1", "10", -5))
	if cart.Items[0].Quantity != 1 {
		t.Errorf("expected negative quantity floored to 1, got %d", cart.Items[0].Quantity)
	}
}

func TestIncrement(t *testing.T) {
	cart := AddItem(Clear(), item("p1", "10", 1))

	updated, err := Increment(cart, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Items[0].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", updated.Items[0].Quantity)
	}
	if !updated.TotalPrice.Equal(decimal.RequireFromString("20")) {
		t.Errorf("expected total 20, got %s", updated.TotalPrice)
	}

	if _, err := Increment(cart, "missing"); err != ErrItemNotFound {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestDecrementNeverDropsBelowOne(t *testing.T) {
	cart := AddItem(Clear(), item("p1", "10", 2))

	updated, err := Decrement(cart, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Items[0].Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", updated.Items[0].Quantity)
	}

	again, err := Decrement(updated, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Items[0].Quantity != 1 {
		t.Errorf("expected quantity to stay at 1, got %d", again.Items[0].Quantity)
	}

	if _, err := Decrement(cart, "missing"); err != ErrItemNotFound {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestRemoveItem(t *testing.T) {
	cart := AddItem(Clear(), item("p1", "10", 1))
	cart = AddItem(cart, item("p2", "20", 2))

	updated := RemoveItem(cart, "p1")
	if len(updated.Items) != 1 {
		t.Fatalf("expected 1 remaining item, got %d", len(updated.Items))
	}
	if updated.Items[0].ProductID != "p2" {
		t.Errorf("expected p2 to remain, got %s", updated.Items[0].ProductID)
	}
	if !updated.TotalPrice.Equal(decimal.RequireFromString("40")) {
		t.Errorf("expected total 40, got %s", updated.TotalPrice)
	}
}

func TestRemoveAbsentItemIsNoOp(t *testing.T) {
	cart := AddItem(Clear(), item("p1", "10", 1))
	updated := RemoveItem(cart, "missing")

	if len(updated.Items) != 1 {
		t.Fatalf("expected cart unchanged, got %d items", len(updated.Items))
	}
	if !updated.TotalPrice.Equal(cart.TotalPrice) {
		t.Errorf("expected total unchanged, got %s", updated.TotalPrice)
	}
}

func TestOperationsDoNotMutateInput(t *testing.T) {
	original := AddItem(Clear(), item("p1", "10", 1))

	if _, err := Increment(original, "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if original.Items[0].Quantity != 1 {
		t.Errorf("input cart was mutated: quantity %d", original.Items[0].Quantity)
	}

	RemoveItem(original, "p1")
	if len(original.Items) != 1 {
		t.Errorf("input cart was mutated: %d items", len(original.Items))
	}
}

func TestClearAndEmptyCartShape(t *testing.T) {
	empty := Clear()
	if empty.Items == nil {
		t.Error("expected empty items slice, got nil")
	}
	if empty.TotalQuantity != 0 {
		t.Errorf("expected zero quantity, got %d", empty.TotalQuantity)
	}
	if !empty.TotalPrice.Equal(decimal.Zero) {
		t.Errorf("expected zero total, got %s", empty.TotalPrice)
	}
}
