package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Shorno/organic-food-store/internal/config"
	"github.com/Shorno/organic-food-store/internal/gateway"
	"github.com/Shorno/organic-food-store/internal/mailer"
	"github.com/Shorno/organic-food-store/internal/models"
)

type initiatePaymentRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

type validatePaymentRequest struct {
	ValID string `json:"valId" binding:"required"`
}

// InitiatePayment opens a hosted gateway session for a pending order owned by
// the caller. A fresh transaction id is minted per attempt; only a gateway
// acceptance mutates the payment row (status → processing), so rejections and
// timeouts are always safe to retry.
func InitiatePayment(db *mongo.Database, gw *gateway.Client, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/payment/initiate"
		defer handlePanic(c, route)

		userIDValue, ok := c.Get("userId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "you must be logged in"})
			return
		}
		userID := userIDValue.(primitive.ObjectID)

		var req initiatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		orderID, err := primitive.ObjectIDFromHex(req.OrderID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid order id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.GatewayTimeout+5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
			return
		}

		if order.UserID != userID {
			log.Printf("[PAYMENT] [ERROR] user %s tried to pay order %s owned by %s", userID.Hex(), orderID.Hex(), order.UserID.Hex())
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "you do not own this order"})
			return
		}

		if order.Status != models.OrderStatusPending {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "order is already processed"})
			return
		}

		transactionID := generateTransactionID(order.ID, time.Now())
		amount, err := models.FromDecimal128(order.TotalAmount)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] order total unreadable:", err)
			respondWithError(c, http.StatusInternalServerError, route, "failed to initiate payment")
			return
		}

		session, err := gw.CreateSession(ctx, gateway.SessionRequest{
			TransactionID: transactionID,
			Amount:        amount.StringFixed(2),
			Currency:      cfg.Currency,

			SuccessURL: fmt.Sprintf("%s/api/payment/success?orderId=%s", cfg.BaseURL, order.ID.Hex()),
			FailURL:    fmt.Sprintf("%s/api/payment/fail?orderId=%s", cfg.BaseURL, order.ID.Hex()),
			CancelURL:  fmt.Sprintf("%s/api/payment/cancel?orderId=%s", cfg.BaseURL, order.ID.Hex()),
			IPNURL:     cfg.BaseURL + "/api/payment/ipn",

			CustomerName:  order.Shipping.FullName,
			CustomerEmail: order.Shipping.Email,
			CustomerPhone: order.Shipping.Phone,
			AddressLine:   order.Shipping.AddressLine,
			City:          order.Shipping.City,
			PostalCode:    order.Shipping.PostalCode,
			Country:       order.Shipping.Country,

			ProductName:     "Order #" + order.OrderNumber,
			ProductCategory: "Groceries",
			ProductProfile:  "general",

			OrderID: order.ID.Hex(),
			UserID:  userID.Hex(),
		})
		if err != nil {
			var rejected *gateway.RejectedError
			if errors.As(err, &rejected) {
				log.Println("[PAYMENT] [ERROR] gateway rejected session:", rejected.Reason)
				reason := rejected.Reason
				if reason == "" {
					reason = "failed to initiate payment"
				}
				c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": reason})
				return
			}
			log.Println("[PAYMENT] [ERROR] gateway session init failed:", err)
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "failed to initiate payment, please try again"})
			return
		}

		// Record the attempt only after the gateway accepted it. A completed
		// payment is never touched, whatever the gateway said.
		res, err := db.Collection("payments").UpdateOne(ctx,
			bson.M{"orderId": order.ID, "status": bson.M{"$ne": models.PaymentStatusCompleted}},
			bson.M{"$set": bson.M{
				"transactionId": transactionID,
				"status":        models.PaymentStatusProcessing,
				"updatedAt":     time.Now(),
			}},
		)
		if err != nil || res.MatchedCount == 0 {
			log.Println("[PAYMENT] [ERROR] payment row update failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "failed to initiate payment")
			return
		}

		log.Printf("[PAYMENT] [INFO] gateway session opened for order %s (tran %s)", order.OrderNumber, transactionID)
		c.JSON(http.StatusOK, gin.H{"success": true, "gatewayUrl": session.GatewayPageURL})
	}
}

// ValidatePayment is called from the browser success-redirect path. It
// exchanges the gateway's val_id for the authoritative transaction record,
// checks the pass-through order id against the session user (the field is
// attacker-observable) and reconciles on a settled status.
func ValidatePayment(db *mongo.Database, gw *gateway.Client, mail *mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/payment/validate"
		defer handlePanic(c, route)

		userIDValue, ok := c.Get("userId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}
		userID := userIDValue.(primitive.ObjectID)

		var req validatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 35*time.Second)
		defer cancel()

		validation, err := gw.ValidateTransaction(ctx, req.ValID)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] validation API call failed:", err)
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "payment validation API failed"})
			return
		}

		if !gateway.IsSettledStatus(validation.Status) {
			log.Printf("[PAYMENT] [ERROR] validation returned status %q for val_id %s", validation.Status, req.ValID)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "payment validation failed, please check your order list"})
			return
		}

		orderID, err := primitive.ObjectIDFromHex(validation.OrderID)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] validation pass-through order id invalid:", validation.OrderID)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "payment validation failed"})
			return
		}

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
			return
		}
		if order.UserID != userID {
			log.Printf("[PAYMENT] [ERROR] user %s tried to validate order %s owned by %s", userID.Hex(), orderID.Hex(), order.UserID.Hex())
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "you do not own this order"})
			return
		}

		refreshed, err := reconcilePayment(ctx, db, mail, orderID, validation.TranID, outcomeValid)
		if err != nil {
			if errors.Is(err, errOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
				return
			}
			log.Println("[PAYMENT] [ERROR] reconciliation failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "failed to verify payment")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "order": refreshed})
	}
}
