package database

import (
	"context"
	"fmt"
	"time"

	"github.com/firstmoments/first-moments-api/internal/config"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB establishes the MongoDB connection and verifies it with a ping.
func ConnectDB(cfg *config.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %v", err)
	}

	logrus.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")
	return client.Database(cfg.MongoDB), nil
}

// EnsureIndexes creates the indexes the application relies on. The unique
// compound index on user achievements backs the one-progress-per-template
// invariant; the 2dsphere index backs nearby location queries.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %v", err)
	}

	achievementIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "template_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection("user_achievements").Indexes().CreateOne(ctx, achievementIndex); err != nil {
		return fmt.Errorf("failed to create user achievement index: %v", err)
	}

	locationIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "coordinates", Value: "2dsphere"}},
	}
	if _, err := db.Collection("locations").Indexes().CreateOne(ctx, locationIndex); err != nil {
		return fmt.Errorf("failed to create location index: %v", err)
	}

	notificationIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := db.Collection("notifications").Indexes().CreateMany(ctx, notificationIndexes); err != nil {
		return fmt.Errorf("failed to create notification indexes: %v", err)
	}

	momentIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "happened_at", Value: -1}}},
		{Keys: bson.D{{Key: "profile_id", Value: 1}}},
	}
	if _, err := db.Collection("moments").Indexes().CreateMany(ctx, momentIndexes); err != nil {
		return fmt.Errorf("failed to create moment indexes: %v", err)
	}

	logrus.Info("Database indexes ensured")
	return nil
}
