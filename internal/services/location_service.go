package services

import (
	"context"
	"fmt"

	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/firstmoments/first-moments-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocationService encapsulates the business logic for saved places.
type LocationService struct {
	repo *repository.LocationRepository
}

// NewLocationService creates a new instance of LocationService.
func NewLocationService(repo *repository.LocationRepository) *LocationService {
	return &LocationService{
		repo: repo,
	}
}

// CreateLocation validates and stores a new saved place.
func (s *LocationService) CreateLocation(ctx context.Context, loc *models.Location) (*models.Location, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return s.repo.CreateLocation(ctx, loc)
}

// GetLocation returns one of the user's saved places.
func (s *LocationService) GetLocation(ctx context.Context, id string, ownerID primitive.ObjectID) (*models.Location, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid location ID: %v", err)
	}

	loc, err := s.repo.GetLocationByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("location not found")
	}
	if loc.UserID != ownerID {
		return nil, fmt.Errorf("you can only access your own locations")
	}
	return loc, nil
}

// ListLocations returns the user's saved places.
func (s *LocationService) ListLocations(ctx context.Context, userID primitive.ObjectID) ([]models.Location, error) {
	return s.repo.GetLocationsByUser(ctx, userID)
}

// FindNearby returns saved places near a point. maxDistance is meters
// and defaults to 5km.
func (s *LocationService) FindNearby(ctx context.Context, userID primitive.ObjectID, lng, lat float64, maxDistance int64) ([]models.Location, error) {
	if err := models.NewGeoPoint(lng, lat).Validate(); err != nil {
		return nil, err
	}
	if maxDistance <= 0 {
		maxDistance = 5000
	}
	return s.repo.FindNearby(ctx, userID, lng, lat, maxDistance)
}

// UpdateLocation applies a whitelisted partial update, owner only.
func (s *LocationService) UpdateLocation(ctx context.Context, id string, ownerID primitive.ObjectID, fields map[string]interface{}) (*models.Location, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid location ID: %v", err)
	}

	loc, err := s.repo.GetLocationByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("location not found")
	}
	if loc.UserID != ownerID {
		return nil, fmt.Errorf("you can only update your own locations")
	}

	update := map[string]interface{}{}
	if name, ok := fields["name"].(string); ok && name != "" {
		update["name"] = name
	}
	if address, ok := fields["address"].(string); ok {
		update["address"] = address
	}
	if len(update) == 0 {
		return nil, fmt.Errorf("no updatable fields provided")
	}

	return s.repo.UpdateLocation(ctx, objID, update)
}

// DeleteLocation removes a saved place, owner only.
func (s *LocationService) DeleteLocation(ctx context.Context, id string, ownerID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid location ID: %v", err)
	}

	loc, err := s.repo.GetLocationByID(ctx, objID)
	if err != nil {
		return fmt.Errorf("location not found")
	}
	if loc.UserID != ownerID {
		return fmt.Errorf("you can only delete your own locations")
	}

	return s.repo.DeleteLocation(ctx, objID)
}
