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

// LocationRepository struct handles database operations related to locations
type LocationRepository struct {
	collection *mongo.Collection
}

// NewLocationRepository creates a new instance of LocationRepository
func NewLocationRepository(db *mongo.Database) *LocationRepository {
	return &LocationRepository{
		collection: db.Collection("locations"),
	}
}

// CreateLocation creates a new saved place in the database
func (r *LocationRepository) CreateLocation(ctx context.Context, loc *models.Location) (*models.Location, error) {
	loc.CreatedAt = time.Now()
	loc.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, loc)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert location")
		return nil, fmt.Errorf("failed to insert location: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	loc.ID = insertedID

	logger.Log.WithField("location_id", loc.ID.Hex()).Info("Location created successfully")
	return loc, nil
}

// GetLocationByID fetches a location by its ID
func (r *LocationRepository) GetLocationByID(ctx context.Context, id primitive.ObjectID) (*models.Location, error) {
	var loc models.Location
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&loc)
	if err != nil {
		return nil, fmt.Errorf("failed to find location by id: %v", err)
	}
	return &loc, nil
}

// GetLocationsByUser returns all saved places for a user
func (r *LocationRepository) GetLocationsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Location, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %v", err)
	}
	defer cursor.Close(ctx)

	var locations []models.Location
	if err := cursor.All(ctx, &locations); err != nil {
		return nil, fmt.Errorf("failed to decode locations: %v", err)
	}
	return locations, nil
}

// FindNearby returns the user's saved places within maxDistance meters of
// the given point, closest first. Requires the 2dsphere index.
func (r *LocationRepository) FindNearby(ctx context.Context, userID primitive.ObjectID, lng, lat float64, maxDistance int64) ([]models.Location, error) {
	filter := bson.M{
		"user_id": userID,
		"coordinates": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{lng, lat},
				},
				"$maxDistance": maxDistance,
			},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby locations: %v", err)
	}
	defer cursor.Close(ctx)

	var locations []models.Location
	if err := cursor.All(ctx, &locations); err != nil {
		return nil, fmt.Errorf("failed to decode locations: %v", err)
	}
	return locations, nil
}

// UpdateLocation applies a partial update to a location document
func (r *LocationRepository) UpdateLocation(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.Location, error) {
	update["updated_at"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		logger.Log.WithError(err).WithField("location_id", id.Hex()).Error("Failed to update location")
		return nil, fmt.Errorf("failed to update location: %v", err)
	}
	return r.GetLocationByID(ctx, id)
}

// DeleteLocation deletes a location from the database by its ID
func (r *LocationRepository) DeleteLocation(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("location_id", id.Hex()).Error("Failed to delete location")
		return fmt.Errorf("failed to delete location: %v", err)
	}

	logger.Log.WithField("location_id", id.Hex()).Info("Location deleted successfully")
	return nil
}
