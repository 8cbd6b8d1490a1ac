package services

import (
	"context"
	"fmt"

	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/firstmoments/first-moments-api/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileService encapsulates the business logic for personas.
type ProfileService struct {
	repo       *repository.ProfileRepository
	momentRepo *repository.MomentRepository
}

// NewProfileService creates a new instance of ProfileService.
func NewProfileService(repo *repository.ProfileRepository, momentRepo *repository.MomentRepository) *ProfileService {
	return &ProfileService{
		repo:       repo,
		momentRepo: momentRepo,
	}
}

// CreateProfile validates and stores a new profile for the owner.
func (s *ProfileService) CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return s.repo.CreateProfile(ctx, profile)
}

// GetProfile returns a profile, enforcing visibility: private profiles
// are only visible to their owner.
func (s *ProfileService) GetProfile(ctx context.Context, id string, requesterID primitive.ObjectID) (*models.Profile, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid profile ID: %v", err)
	}

	profile, err := s.repo.GetProfileByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("profile not found")
	}

	if profile.UserID != requesterID && !profile.IsPublic {
		return nil, fmt.Errorf("profile is private")
	}
	return profile, nil
}

// GetOwnProfiles lists every profile owned by the user.
func (s *ProfileService) GetOwnProfiles(ctx context.Context, userID primitive.ObjectID) ([]models.Profile, error) {
	return s.repo.GetProfilesByUser(ctx, userID)
}

// CountProfiles returns how many profiles the user owns.
func (s *ProfileService) CountProfiles(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.repo.CountProfilesByUser(ctx, userID)
}

// UpdateProfile applies a whitelisted partial update, owner only.
func (s *ProfileService) UpdateProfile(ctx context.Context, id string, ownerID primitive.ObjectID, fields map[string]interface{}) (*models.Profile, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid profile ID: %v", err)
	}

	profile, err := s.repo.GetProfileByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("profile not found")
	}
	if profile.UserID != ownerID {
		return nil, fmt.Errorf("you can only update your own profiles")
	}

	update := map[string]interface{}{}
	if name, ok := fields["name"].(string); ok && name != "" {
		update["name"] = name
	}
	if bio, ok := fields["bio"].(string); ok {
		update["bio"] = bio
	}
	if avatar, ok := fields["avatar_url"].(string); ok {
		update["avatar_url"] = avatar
	}
	if isPublic, ok := fields["is_public"].(bool); ok {
		update["is_public"] = isPublic
	}
	if len(update) == 0 {
		return nil, fmt.Errorf("no updatable fields provided")
	}

	return s.repo.UpdateProfile(ctx, objID, update)
}

// DeleteProfile removes the profile and every moment recorded against it.
func (s *ProfileService) DeleteProfile(ctx context.Context, id string, ownerID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid profile ID: %v", err)
	}

	profile, err := s.repo.GetProfileByID(ctx, objID)
	if err != nil {
		return fmt.Errorf("profile not found")
	}
	if profile.UserID != ownerID {
		return fmt.Errorf("you can only delete your own profiles")
	}

	deleted, err := s.momentRepo.DeleteMomentsByProfile(ctx, objID)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logrus.WithFields(logrus.Fields{
			"profileID": id,
			"moments":   deleted,
		}).Info("Deleted moments belonging to removed profile")
	}

	return s.repo.DeleteProfile(ctx, objID)
}
