package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Address is a saved delivery address used to prefill checkout.
type Address struct {
	ID          string `bson:"id" json:"id"`
	Label       string `bson:"label" json:"label"`
	FullName    string `bson:"fullName" json:"fullName"`
	Phone       string `bson:"phone" json:"phone"`
	AddressLine string `bson:"addressLine" json:"addressLine"`
	City        string `bson:"city" json:"city"`
	Area        string `bson:"area,omitempty" json:"area,omitempty"`
	PostalCode  string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	IsDefault   bool   `bson:"isDefault" json:"isDefault"`
}

// User represents the store account. Admins are users with Role "admin";
// there is no separate staff collection.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role         string             `bson:"role" json:"role"`
	Addresses    []Address          `bson:"addresses" json:"addresses"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
