package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Shorno/organic-food-store/internal/models"
)

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetAllOrders lists orders for the back office, newest first, paginated.
func GetAllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination params"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			if !models.IsValidOrderStatus(status) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
				return
			}
			filter["status"] = status
		}

		total, err := db.Collection("orders").CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		cursor, err := db.Collection("orders").Find(ctx, filter,
			options.Find().
				SetSort(bson.D{{Key: "createdAt", Value: -1}}).
				SetSkip((page-1)*limit).
				SetLimit(limit),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "orders could not be fetched"})
			return
		}
		defer cursor.Close(ctx)

		orders := []models.Order{}
		if err := cursor.All(ctx, &orders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to parse orders"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"orders": orders,
			"page":   page,
			"limit":  limit,
			"total":  total,
		})
	}
}

// UpdateOrderStatus moves an order along its lifecycle. Illegal jumps
// (shipping a cancelled order, un-refunding) are rejected before any write.
func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if !models.IsValidOrderStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		if order.Status == req.Status {
			c.JSON(http.StatusOK, gin.H{"message": "no changes made", "order": order})
			return
		}
		if !models.CanTransitionOrderStatus(order.Status, req.Status) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "cannot move order from " + order.Status + " to " + req.Status,
			})
			return
		}

		update := bson.M{"status": req.Status, "updatedAt": time.Now()}
		if req.Status == models.OrderStatusConfirmed && order.ConfirmedAt == nil {
			update["confirmedAt"] = time.Now()
		}

		if _, err := db.Collection("orders").UpdateByID(ctx, orderID, bson.M{"$set": update}); err != nil {
			log.Println("[ADMIN] [ERROR] order status update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Printf("[ADMIN] [INFO] order %s: %s -> %s", order.OrderNumber, order.Status, req.Status)
		c.JSON(http.StatusOK, gin.H{"message": "order status updated"})
	}
}

// DeleteOrder removes a pending order and its payment row together. Orders
// that progressed past pending are part of the financial record and can only
// be cancelled or refunded, never deleted.
func DeleteOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/orders/:id"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		deleted := false
		exists := false
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			res, err := db.Collection("orders").DeleteOne(sessCtx, bson.M{
				"_id":    orderID,
				"status": models.OrderStatusPending,
			})
			if err != nil {
				return nil, err
			}
			if res.DeletedCount == 0 {
				// Missing order vs order past pending: callers get 404 for
				// the former and 409 for the latter.
				count, err := db.Collection("orders").CountDocuments(sessCtx, bson.M{"_id": orderID})
				if err != nil {
					return nil, err
				}
				exists = count > 0
				return nil, nil
			}
			deleted = true
			exists = true

			if _, err := db.Collection("payments").DeleteOne(sessCtx, bson.M{"orderId": orderID}); err != nil {
				return nil, err
			}
			return nil, nil
		})
		if err != nil {
			log.Println("[ADMIN] [ERROR] order delete failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if !deleted {
			if !exists {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusConflict, gin.H{"error": "only pending orders can be deleted"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
	}
}
