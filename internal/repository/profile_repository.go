package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/firstmoments/first-moments-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProfileRepository struct handles database operations related to profiles
type ProfileRepository struct {
	collection *mongo.Collection
}

// NewProfileRepository creates a new instance of ProfileRepository
func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{
		collection: db.Collection("profiles"),
	}
}

// CreateProfile creates a new profile in the database
func (r *ProfileRepository) CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert profile")
		return nil, fmt.Errorf("failed to insert profile: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted ID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	profile.ID = insertedID

	logger.Log.WithField("profile_id", profile.ID.Hex()).Info("Profile created successfully")
	return profile, nil
}

// GetProfileByID fetches a profile by its ID
func (r *ProfileRepository) GetProfileByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile by id: %v", err)
	}
	return &profile, nil
}

// GetProfilesByUser returns all profiles owned by a user
func (r *ProfileRepository) GetProfilesByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profiles: %v", err)
	}
	defer cursor.Close(ctx)

	var profiles []models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %v", err)
	}
	return profiles, nil
}

// CountProfilesByUser returns how many profiles a user owns
func (r *ProfileRepository) CountProfilesByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %v", err)
	}
	return count, nil
}

// UpdateProfile applies a partial update to a profile document
func (r *ProfileRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.Profile, error) {
	update["updated_at"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		logger.Log.WithError(err).WithField("profile_id", id.Hex()).Error("Failed to update profile")
		return nil, fmt.Errorf("failed to update profile: %v", err)
	}
	return r.GetProfileByID(ctx, id)
}

// DeleteProfile deletes a profile from the database by its ID
func (r *ProfileRepository) DeleteProfile(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("profile_id", id.Hex()).Error("Failed to delete profile")
		return fmt.Errorf("failed to delete profile: %v", err)
	}

	logger.Log.WithField("profile_id", id.Hex()).Info("Profile deleted successfully")
	return nil
}
