package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Shorno/organic-food-store/internal/models"
)

type productRequest struct {
	Name          string          `json:"name" binding:"required"`
	Slug          string          `json:"slug" binding:"required"`
	Description   string          `json:"description"`
	Size          string          `json:"size"`
	Image         string          `json:"image"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	CategorySlug  string          `json:"categorySlug" binding:"required"`
	Subcategory   string          `json:"subcategory"`
	IsActive      *bool           `json:"isActive"`
}

type categoryRequest struct {
	Name          string               `json:"name" binding:"required"`
	Slug          string               `json:"slug" binding:"required"`
	Image         string               `json:"image"`
	Subcategories []models.Subcategory `json:"subcategories"`
	IsActive      *bool                `json:"isActive"`
}

func slugify(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CreateProduct inserts a catalog entry. The slug carries a unique index, so
// a duplicate answers 409 rather than silently overwriting.
func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Price.IsNegative() || req.Price.IsZero() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
			return
		}
		if req.StockQuantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stockQuantity cannot be negative"})
			return
		}

		price, err := models.ToDecimal128(req.Price)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
			return
		}

		active := true
		if req.IsActive != nil {
			active = *req.IsActive
		}

		now := time.Now()
		product := models.Product{
			Name:          strings.TrimSpace(req.Name),
			Slug:          slugify(req.Slug),
			Description:   strings.TrimSpace(req.Description),
			Size:          strings.TrimSpace(req.Size),
			Image:         strings.TrimSpace(req.Image),
			Price:         price,
			StockQuantity: req.StockQuantity,
			CategorySlug:  slugify(req.CategorySlug),
			Subcategory:   slugify(req.Subcategory),
			IsActive:      active,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "slug already in use"})
				return
			}
			log.Println("[ADMIN] [ERROR] product insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		product.ID, _ = res.InsertedID.(primitive.ObjectID)
		log.Println("[ADMIN] [INFO] product created:", product.Slug)
		c.JSON(http.StatusCreated, product)
	}
}

func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Price.IsNegative() || req.Price.IsZero() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
			return
		}

		price, err := models.ToDecimal128(req.Price)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
			return
		}

		update := bson.M{
			"name":          strings.TrimSpace(req.Name),
			"slug":          slugify(req.Slug),
			"description":   strings.TrimSpace(req.Description),
			"size":          strings.TrimSpace(req.Size),
			"image":         strings.TrimSpace(req.Image),
			"price":         price,
			"stockQuantity": req.StockQuantity,
			"categorySlug":  slugify(req.CategorySlug),
			"subcategory":   slugify(req.Subcategory),
			"updatedAt":     time.Now(),
		}
		if req.IsActive != nil {
			update["isActive"] = *req.IsActive
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").UpdateByID(ctx, productID, bson.M{"$set": update})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "slug already in use"})
				return
			}
			log.Println("[ADMIN] [ERROR] product update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product updated"})
	}
}

// DeleteProduct deactivates rather than removes: existing orders keep their
// copied product snapshots, but the product disappears from the storefront.
func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").UpdateByID(ctx, productID, bson.M{
			"$set": bson.M{"isActive": false, "updatedAt": time.Now()},
		})
		if err != nil {
			log.Println("[ADMIN] [ERROR] product deactivate failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product deactivated"})
	}
}

func CreateCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		subcategories := make([]models.Subcategory, 0, len(req.Subcategories))
		for _, sub := range req.Subcategories {
			subcategories = append(subcategories, models.Subcategory{
				Name: strings.TrimSpace(sub.Name),
				Slug: slugify(sub.Slug),
			})
		}

		active := true
		if req.IsActive != nil {
			active = *req.IsActive
		}

		now := time.Now()
		category := models.Category{
			Name:          strings.TrimSpace(req.Name),
			Slug:          slugify(req.Slug),
			Image:         strings.TrimSpace(req.Image),
			Subcategories: subcategories,
			IsActive:      active,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("categories").InsertOne(ctx, category)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "slug already in use"})
				return
			}
			log.Println("[ADMIN] [ERROR] category insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		category.ID, _ = res.InsertedID.(primitive.ObjectID)
		log.Println("[ADMIN] [INFO] category created:", category.Slug)
		c.JSON(http.StatusCreated, category)
	}
}

func UpdateCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		subcategories := make([]models.Subcategory, 0, len(req.Subcategories))
		for _, sub := range req.Subcategories {
			subcategories = append(subcategories, models.Subcategory{
				Name: strings.TrimSpace(sub.Name),
				Slug: slugify(sub.Slug),
			})
		}

		update := bson.M{
			"name":          strings.TrimSpace(req.Name),
			"slug":          slugify(req.Slug),
			"image":         strings.TrimSpace(req.Image),
			"subcategories": subcategories,
			"updatedAt":     time.Now(),
		}
		if req.IsActive != nil {
			update["isActive"] = *req.IsActive
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("categories").UpdateByID(ctx, categoryID, bson.M{"$set": update})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "slug already in use"})
				return
			}
			log.Println("[ADMIN] [ERROR] category update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "category updated"})
	}
}
