package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Shorno/organic-food-store/internal/models"
)

// ErrItemNotFound is returned by the quantity operations when the product is
// not in the cart.
var ErrItemNotFound = errors.New("item not in cart")

// The reducer never mutates its input: every operation copies the item slice,
// applies the change and recomputes the totals from scratch, so a stored
// snapshot and its successor can never disagree with their own line items.

// AddItem appends the product or, if already present, bumps its quantity.
func AddItem(cart models.Cart, item models.CartItem) models.Cart {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	items := copyItems(cart.Items)
	found := false
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, item)
	}

	return rebuild(items)
}

// Increment raises the quantity of one line by one.
func Increment(cart models.Cart, productID string) (models.Cart, error) {
	items := copyItems(cart.Items)
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity++
			return rebuild(items), nil
		}
	}
	return models.Cart{}, ErrItemNotFound
}

// Decrement lowers the quantity of one line by one, never below one; removal
// is an explicit separate operation.
func Decrement(cart models.Cart, productID string) (models.Cart, error) {
	items := copyItems(cart.Items)
	for i := range items {
		if items[i].ProductID == productID {
			if items[i].Quantity > 1 {
				items[i].Quantity--
			}
			return rebuild(items), nil
		}
	}
	return models.Cart{}, ErrItemNotFound
}

// RemoveItem drops a line entirely. Removing an absent product is a no-op.
func RemoveItem(cart models.Cart, productID string) models.Cart {
	items := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	return rebuild(items)
}

// Clear returns the empty snapshot.
func Clear() models.Cart {
	return rebuild(nil)
}

func copyItems(items []models.CartItem) []models.CartItem {
	copied := make([]models.CartItem, len(items))
	copy(copied, items)
	return copied
}

func rebuild(items []models.CartItem) models.Cart {
	if items == nil {
		items = []models.CartItem{}
	}

	totalQuantity := 0
	totalPrice := decimal.Zero
	for i := range items {
		items[i].Subtotal = items[i].UnitPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		totalQuantity += items[i].Quantity
		totalPrice = totalPrice.Add(items[i].Subtotal)
	}

	return models.Cart{
		Items:         items,
		TotalQuantity: totalQuantity,
		TotalPrice:    totalPrice,
	}
}
