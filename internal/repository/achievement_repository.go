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

// ErrDuplicateAchievement is returned when a user already has progress
// for the template, backed by the unique (user_id, template_id) index.
var ErrDuplicateAchievement = fmt.Errorf("achievement already exists for this template")

// AchievementRepository handles database operations for user achievements.
type AchievementRepository struct {
	collection *mongo.Collection
}

// NewAchievementRepository creates a new instance of AchievementRepository.
func NewAchievementRepository(db *mongo.Database) *AchievementRepository {
	return &AchievementRepository{
		collection: db.Collection("user_achievements"),
	}
}

// CreateAchievement inserts a new user achievement. Progress is
// recalculated before the write so derived fields are never stale.
func (r *AchievementRepository) CreateAchievement(ctx context.Context, ach *models.UserAchievement) (*models.UserAchievement, error) {
	now := time.Now()
	ach.CreatedAt = now
	ach.UpdatedAt = now
	ach.Recalculate(now)

	result, err := r.collection.InsertOne(ctx, ach)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateAchievement
		}
		logger.Log.WithError(err).Error("Failed to insert user achievement")
		return nil, fmt.Errorf("failed to insert achievement: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	ach.ID = insertedID

	logger.Log.WithFields(map[string]interface{}{
		"achievement_id": ach.ID.Hex(),
		"user_id":        ach.UserID.Hex(),
	}).Info("User achievement created")
	return ach, nil
}

// GetByUserAndTemplate fetches a user's progress for one template.
func (r *AchievementRepository) GetByUserAndTemplate(ctx context.Context, userID, templateID primitive.ObjectID) (*models.UserAchievement, error) {
	var ach models.UserAchievement
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "template_id": templateID}).Decode(&ach)
	if err != nil {
		return nil, fmt.Errorf("failed to find achievement: %v", err)
	}
	return &ach, nil
}

// GetByID fetches a user achievement by its ID.
func (r *AchievementRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.UserAchievement, error) {
	var ach models.UserAchievement
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ach)
	if err != nil {
		return nil, fmt.Errorf("failed to find achievement by id: %v", err)
	}
	return &ach, nil
}

// GetByUser returns all of a user's achievements, optionally filtered
// by status.
func (r *AchievementRepository) GetByUser(ctx context.Context, userID primitive.ObjectID, status string) ([]models.UserAchievement, error) {
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %v", err)
	}
	defer cursor.Close(ctx)

	var achievements []models.UserAchievement
	if err := cursor.All(ctx, &achievements); err != nil {
		return nil, fmt.Errorf("failed to decode achievements: %v", err)
	}
	return achievements, nil
}

// Save persists the full achievement document after recalculating the
// derived progress fields. Every write path goes through here so the
// percentage/status invariants hold on disk.
func (r *AchievementRepository) Save(ctx context.Context, ach *models.UserAchievement) (*models.UserAchievement, error) {
	now := time.Now()
	ach.UpdatedAt = now
	ach.Recalculate(now)

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": ach.ID}, bson.M{"$set": ach})
	if err != nil {
		logger.Log.WithError(err).WithField("achievement_id", ach.ID.Hex()).Error("Failed to save achievement")
		return nil, fmt.Errorf("failed to save achievement: %v", err)
	}
	return ach, nil
}

// DeleteByUser removes all achievement progress for a user. Used when
// the account is deleted.
func (r *AchievementRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete achievements for user: %v", err)
	}
	return nil
}
