package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Shorno/organic-food-store/internal/models"
)

// GetProducts lists active products, optionally filtered by category or
// subcategory slug, paginated.
func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination params"})
			return
		}

		filter := bson.M{"isActive": true}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["categorySlug"] = category
		}
		if sub := strings.TrimSpace(c.Query("subcategory")); sub != "" {
			filter["subcategory"] = sub
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		cursor, err := db.Collection("products").Find(ctx, filter,
			options.Find().
				SetSort(bson.D{{Key: "createdAt", Value: -1}}).
				SetSkip((page-1)*limit).
				SetLimit(limit),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "products could not be fetched"})
			return
		}
		defer cursor.Close(ctx)

		products := []models.Product{}
		if err := cursor.All(ctx, &products); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to parse products"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"page":     page,
			"limit":    limit,
			"total":    total,
		})
	}
}

func GetProductBySlug(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := strings.TrimSpace(c.Param("slug"))
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "slug is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err := db.Collection("products").FindOne(ctx, bson.M{
			"slug":     slug,
			"isActive": true,
		}).Decode(&product)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			log.Println("[CATALOG] [ERROR] product lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

func GetCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("categories").Find(ctx, bson.M{"isActive": true},
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "categories could not be fetched"})
			return
		}
		defer cursor.Close(ctx)

		categories := []models.Category{}
		if err := cursor.All(ctx, &categories); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to parse categories"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}
