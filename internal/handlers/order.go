package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Shorno/organic-food-store/internal/models"
)

// orderNumberAttempts bounds the regenerate-on-conflict loop. A collision
// needs two orders in the same millisecond with the same 5-char suffix, so
// two retries is already generous.
const orderNumberAttempts = 3

// CreateOrder converts the submitted cart snapshot plus shipping selection
// into an order, its embedded items and a pending payment. The order and
// payment documents are written in one transaction; a partially created
// order is never observable.
func CreateOrder(db *mongo.Database, shippingAmount decimal.Decimal, currency string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		userIDValue, ok := c.Get("userId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "you must be logged in to place an order"})
			return
		}
		userID := userIDValue.(primitive.ObjectID)

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		var created models.Order
		for attempt := 0; attempt < orderNumberAttempts; attempt++ {
			order, buildErr := buildOrderFromRequest(userID, req, shippingAmount, time.Now())
			if buildErr != nil {
				var lineErr invalidOrderLineError
				switch {
				case errors.Is(buildErr, errEmptyCart):
					c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "cart is empty"})
				case errors.As(buildErr, &lineErr):
					c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": lineErr.Reason, "productId": lineErr.ProductID})
				default:
					respondWithError(c, http.StatusBadRequest, route, buildErr.Error())
				}
				return
			}

			_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
				res, insertErr := db.Collection("orders").InsertOne(sessCtx, order)
				if insertErr != nil {
					return nil, insertErr
				}
				orderID, _ := res.InsertedID.(primitive.ObjectID)
				order.ID = orderID

				payment := buildPaymentForOrder(order, req.Shipping.PaymentType, currency, order.CreatedAt)
				if _, insertErr := db.Collection("payments").InsertOne(sessCtx, payment); insertErr != nil {
					return nil, insertErr
				}
				return nil, nil
			})
			if err == nil {
				created = order
				break
			}
			if !mongo.IsDuplicateKeyError(err) {
				break
			}
			log.Printf("[ORDER] [WARN] order number conflict %s, regenerating", order.OrderNumber)
		}
		if err != nil {
			log.Println("[ORDER] [ERROR] create order failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "failed to create order, please try again")
			return
		}

		log.Printf("[ORDER] [INFO] order %s created for user %s", created.OrderNumber, userID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"success":     true,
			"orderId":     created.ID.Hex(),
			"orderNumber": created.OrderNumber,
		})
	}
}

// GetMyOrders lists the authenticated user's orders, newest first.
func GetMyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDValue, ok := c.Get("userId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		userID := userIDValue.(primitive.ObjectID)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx,
			bson.M{"userId": userID},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
		)
		if err != nil {
			log.Println("[ORDER] [ERROR] list orders failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "orders could not be fetched"})
			return
		}
		defer cursor.Close(ctx)

		orders := []models.Order{}
		if err := cursor.All(ctx, &orders); err != nil {
			log.Println("[ORDER] [ERROR] decode orders failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to parse orders"})
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

// GetOrder returns one order; only its owner may see it.
func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDValue, ok := c.Get("userId")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		userID := userIDValue.(primitive.ObjectID)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if order.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
			return
		}

		var payment models.Payment
		paymentErr := db.Collection("payments").FindOne(ctx, bson.M{"orderId": orderID}).Decode(&payment)

		response := gin.H{"order": order}
		if paymentErr == nil {
			response["payment"] = payment
		}
		c.JSON(http.StatusOK, response)
	}
}
