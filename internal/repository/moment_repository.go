package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/firstmoments/first-moments-api/pkg/httputil"
	"github.com/firstmoments/first-moments-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MomentFilter narrows a moment listing.
type MomentFilter struct {
	UserID    primitive.ObjectID
	ProfileID *primitive.ObjectID
	Category  string
	Tag       string
	From      time.Time
	To        time.Time
}

// BuildMomentFilter translates a MomentFilter into a Mongo query document.
func BuildMomentFilter(f MomentFilter) bson.M {
	filter := bson.M{"user_id": f.UserID}
	if f.ProfileID != nil {
		filter["profile_id"] = *f.ProfileID
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}

	happened := bson.M{}
	if !f.From.IsZero() {
		happened["$gte"] = f.From
	}
	if !f.To.IsZero() {
		happened["$lte"] = f.To
	}
	if len(happened) > 0 {
		filter["happened_at"] = happened
	}
	return filter
}

// MomentRepository struct handles database operations related to moments
type MomentRepository struct {
	collection *mongo.Collection
}

// NewMomentRepository creates a new instance of MomentRepository
func NewMomentRepository(db *mongo.Database) *MomentRepository {
	return &MomentRepository{
		collection: db.Collection("moments"),
	}
}

// CreateMoment creates a new moment in the database
func (r *MomentRepository) CreateMoment(ctx context.Context, moment *models.Moment) (*models.Moment, error) {
	moment.CreatedAt = time.Now()
	moment.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, moment)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert moment")
		return nil, fmt.Errorf("failed to insert moment: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted ID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	moment.ID = insertedID

	logger.Log.WithField("moment_id", moment.ID.Hex()).Info("Moment created successfully")
	return moment, nil
}

// GetMomentByID fetches a moment by its ID
func (r *MomentRepository) GetMomentByID(ctx context.Context, id primitive.ObjectID) (*models.Moment, error) {
	var moment models.Moment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&moment)
	if err != nil {
		return nil, fmt.Errorf("failed to find moment by id: %v", err)
	}
	return &moment, nil
}

// GetMoments returns one page of moments matching the filter, newest first.
func (r *MomentRepository) GetMoments(ctx context.Context, f MomentFilter, page httputil.Pagination) ([]models.Moment, int64, error) {
	filter := BuildMomentFilter(f)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count moments: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "happened_at", Value: -1}}).
		SetSkip(page.Offset()).
		SetLimit(int64(page.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch moments: %v", err)
	}
	defer cursor.Close(ctx)

	var moments []models.Moment
	if err := cursor.All(ctx, &moments); err != nil {
		return nil, 0, fmt.Errorf("failed to decode moments: %v", err)
	}
	return moments, total, nil
}

// CountByUser returns the total number of moments a user has recorded.
func (r *MomentRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count moments: %v", err)
	}
	return count, nil
}

// CountByUserAndCategory returns how many moments a user has in a category.
func (r *MomentRepository) CountByUserAndCategory(ctx context.Context, userID primitive.ObjectID, category string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID, "category": category})
	if err != nil {
		return 0, fmt.Errorf("failed to count moments by category: %v", err)
	}
	return count, nil
}

// UpdateMoment applies a partial update to a moment document
func (r *MomentRepository) UpdateMoment(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.Moment, error) {
	update["updated_at"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		logger.Log.WithError(err).WithField("moment_id", id.Hex()).Error("Failed to update moment")
		return nil, fmt.Errorf("failed to update moment: %v", err)
	}
	return r.GetMomentByID(ctx, id)
}

// DeleteMoment deletes a moment from the database by its ID
func (r *MomentRepository) DeleteMoment(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("moment_id", id.Hex()).Error("Failed to delete moment")
		return fmt.Errorf("failed to delete moment: %v", err)
	}

	logger.Log.WithField("moment_id", id.Hex()).Info("Moment deleted successfully")
	return nil
}

// DeleteMomentsByProfile removes every moment recorded against a profile.
// Called when the profile itself is deleted.
func (r *MomentRepository) DeleteMomentsByProfile(ctx context.Context, profileID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"profile_id": profileID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete moments for profile: %v", err)
	}
	return result.DeletedCount, nil
}
