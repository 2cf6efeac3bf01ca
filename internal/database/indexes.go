package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/logger"
)

// EnsureUserIndexes creates the unique email index on the users
// collection. Registration relies on it to reject duplicate emails.
func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	if _, err := db.Collection("users").Indexes().CreateOne(ctx, emailIndex); err != nil {
		return err
	}
	logger.L().Info("users email_unique index ensured")
	return nil
}

// EnsureOrderIndexes creates the userId index used by the per-user
// order listing.
func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("userId_index"),
	}

	if _, err := db.Collection("orders").Indexes().CreateOne(ctx, userIDIndex); err != nil {
		return err
	}
	logger.L().Info("orders userId_index index ensured")
	return nil
}
