package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	if _, err := db.Collection("users").Indexes().CreateOne(ctx, emailIndex); err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	return nil
}

// EnsureOrderIndexes creates the unique order number index (order number
// generation retries on conflict) and the userId lookup index.
func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().
				SetName("orderNumber_unique").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("userId_createdAt"),
		},
	}

	log.Println("EnsureOrderIndexes: creating order indexes")
	if _, err := db.Collection("orders").Indexes().CreateMany(ctx, indexes); err != nil {
		log.Println("EnsureOrderIndexes: order index error:", err)
		return err
	}
	return nil
}

// EnsurePaymentIndexes enforces the one-payment-per-order relation.
func EnsurePaymentIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	orderIDIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "orderId", Value: 1}},
		Options: options.Index().
			SetName("orderId_unique").
			SetUnique(true),
	}

	log.Println("EnsurePaymentIndexes: creating orderId_unique index")
	if _, err := db.Collection("payments").Indexes().CreateOne(ctx, orderIDIndex); err != nil {
		log.Println("EnsurePaymentIndexes: orderId index error:", err)
		return err
	}
	return nil
}

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slugIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().
			SetName("slug_unique").
			SetUnique(true),
	}

	log.Println("EnsureProductIndexes: creating slug_unique index")
	if _, err := db.Collection("products").Indexes().CreateOne(ctx, slugIndex); err != nil {
		log.Println("EnsureProductIndexes: slug index error:", err)
		return err
	}
	return nil
}

func EnsureCategoryIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slugIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().
			SetName("slug_unique").
			SetUnique(true),
	}

	log.Println("EnsureCategoryIndexes: creating slug_unique index")
	if _, err := db.Collection("categories").Indexes().CreateOne(ctx, slugIndex); err != nil {
		log.Println("EnsureCategoryIndexes: slug index error:", err)
		return err
	}
	return nil
}
