package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subcategory is embedded in its category; it has no life of its own.
type Subcategory struct {
	Name string `bson:"name" json:"name"`
	Slug string `bson:"slug" json:"slug"`
}

type Category struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Slug          string             `bson:"slug" json:"slug"`
	Image         string             `bson:"image,omitempty" json:"image,omitempty"`
	Subcategories []Subcategory      `bson:"subcategories" json:"subcategories"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
