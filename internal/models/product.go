package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. Price is stored as an exact decimal; order
// items copy the fields they need at purchase time instead of referencing
// this document.
type Product struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name          string               `bson:"name" json:"name"`
	Slug          string               `bson:"slug" json:"slug"`
	Description   string               `bson:"description,omitempty" json:"description,omitempty"`
	Size          string               `bson:"size,omitempty" json:"size,omitempty"`
	Image         string               `bson:"image,omitempty" json:"image,omitempty"`
	Price         primitive.Decimal128 `bson:"price" json:"price"`
	StockQuantity int                  `bson:"stockQuantity" json:"stockQuantity"`
	CategorySlug  string               `bson:"categorySlug" json:"categorySlug"`
	Subcategory   string               `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	IsActive      bool                 `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}
