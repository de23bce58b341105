package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Shorno/organic-food-store/internal/cart"
	"github.com/Shorno/organic-food-store/internal/models"
)

type addToCartRequest struct {
	ProductID string          `json:"productId" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	Size      string          `json:"size"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

func cartOwner(c *gin.Context) (string, bool) {
	ownerID := c.GetString("cartOwnerId")
	if ownerID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cart session missing"})
		return "", false
	}
	return ownerID, true
}

// GetCart returns the stored snapshot, or the empty cart for new visitors.
func GetCart(store cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := cartOwner(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		snapshot, err := store.Get(ctx, ownerID)
		if err != nil {
			log.Println("[CART] [ERROR] load cart failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
			return
		}

		c.JSON(http.StatusOK, snapshot)
	}
}

// AddToCart adds a line (or bumps its quantity) and persists the new snapshot.
func AddToCart(store cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := cartOwner(c)
		if !ok {
			return
		}

		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.UnitPrice.IsNegative() || req.UnitPrice.IsZero() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unitPrice must be positive"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		snapshot, err := store.Get(ctx, ownerID)
		if err != nil {
			log.Println("[CART] [ERROR] load cart failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
			return
		}

		updated := cart.AddItem(snapshot, models.CartItem{
			ProductID: strings.TrimSpace(req.ProductID),
			Name:      strings.TrimSpace(req.Name),
			Size:      strings.TrimSpace(req.Size),
			Image:     strings.TrimSpace(req.Image),
			UnitPrice: req.UnitPrice,
			Quantity:  req.Quantity,
		})

		if err := store.Save(ctx, ownerID, updated); err != nil {
			log.Println("[CART] [ERROR] save cart failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save cart"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// UpdateCartItem applies increment/decrement/remove to one line.
func UpdateCartItem(store cart.Store, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := cartOwner(c)
		if !ok {
			return
		}

		productID := strings.TrimSpace(c.Param("productId"))
		if productID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		snapshot, err := store.Get(ctx, ownerID)
		if err != nil {
			log.Println("[CART] [ERROR] load cart failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
			return
		}

		var updated models.Cart
		switch action {
		case "increment":
			updated, err = cart.Increment(snapshot, productID)
		case "decrement":
			updated, err = cart.Decrement(snapshot, productID)
		case "remove":
			updated = cart.RemoveItem(snapshot, productID)
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown cart action"})
			return
		}
		if err != nil {
			if errors.Is(err, cart.ErrItemNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "item not in cart"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
			return
		}

		if err := store.Save(ctx, ownerID, updated); err != nil {
			log.Println("[CART] [ERROR] save cart failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save cart"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// ClearCart empties the snapshot. The checkout flow calls this only after
// order creation reports success; the cart is never cleared server-side as a
// side effect of creating the order.
func ClearCart(store cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := cartOwner(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := store.Delete(ctx, ownerID); err != nil {
			log.Println("[CART] [ERROR] clear cart failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cart"})
			return
		}

		c.JSON(http.StatusOK, cart.Clear())
	}
}
