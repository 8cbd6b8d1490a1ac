package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/firstmoments/first-moments-api/internal/repository"
	"github.com/firstmoments/first-moments-api/pkg/httputil"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MomentService encapsulates the business logic for journal entries.
type MomentService struct {
	repo        *repository.MomentRepository
	profileRepo *repository.ProfileRepository
	sanitizer   *bluemonday.Policy
}

// NewMomentService creates a new instance of MomentService.
func NewMomentService(repo *repository.MomentRepository, profileRepo *repository.ProfileRepository) *MomentService {
	return &MomentService{
		repo:        repo,
		profileRepo: profileRepo,
		// Moments are plain text; strip all markup from user input.
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *MomentService) sanitize(m *models.Moment) {
	m.Title = strings.TrimSpace(s.sanitizer.Sanitize(m.Title))
	m.Content = strings.TrimSpace(s.sanitizer.Sanitize(m.Content))
	for i, tag := range m.Tags {
		m.Tags[i] = strings.TrimSpace(s.sanitizer.Sanitize(tag))
	}
}

// CreateMoment validates, sanitizes and stores a new moment. The owning
// profile must belong to the author.
func (s *MomentService) CreateMoment(ctx context.Context, moment *models.Moment) (*models.Moment, error) {
	s.sanitize(moment)
	if err := moment.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetProfileByID(ctx, moment.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("profile not found")
	}
	if profile.UserID != moment.UserID {
		return nil, fmt.Errorf("you can only record moments for your own profiles")
	}

	if moment.HappenedAt.IsZero() {
		moment.HappenedAt = time.Now()
	}

	return s.repo.CreateMoment(ctx, moment)
}

// GetMoment returns a moment, enforcing visibility through the owning
// profile: moments of private profiles are owner-only.
func (s *MomentService) GetMoment(ctx context.Context, id string, requesterID primitive.ObjectID) (*models.Moment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid moment ID: %v", err)
	}

	moment, err := s.repo.GetMomentByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("moment not found")
	}

	if moment.UserID != requesterID {
		profile, err := s.profileRepo.GetProfileByID(ctx, moment.ProfileID)
		if err != nil || !profile.IsPublic {
			return nil, fmt.Errorf("moment is private")
		}
	}
	return moment, nil
}

// ListMoments returns one page of the user's own moments.
func (s *MomentService) ListMoments(ctx context.Context, f repository.MomentFilter, page httputil.Pagination) ([]models.Moment, int64, error) {
	if f.Category != "" {
		if _, ok := models.AllowedMomentCategories[f.Category]; !ok {
			return nil, 0, fmt.Errorf("invalid category %q", f.Category)
		}
	}
	return s.repo.GetMoments(ctx, f, page)
}

// UpdateMoment applies a whitelisted partial update, owner only.
func (s *MomentService) UpdateMoment(ctx context.Context, id string, ownerID primitive.ObjectID, fields map[string]interface{}) (*models.Moment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid moment ID: %v", err)
	}

	moment, err := s.repo.GetMomentByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("moment not found")
	}
	if moment.UserID != ownerID {
		return nil, fmt.Errorf("you can only update your own moments")
	}

	update := map[string]interface{}{}
	if title, ok := fields["title"].(string); ok {
		title = strings.TrimSpace(s.sanitizer.Sanitize(title))
		if title == "" {
			return nil, fmt.Errorf("title cannot be empty")
		}
		update["title"] = title
	}
	if content, ok := fields["content"].(string); ok {
		update["content"] = strings.TrimSpace(s.sanitizer.Sanitize(content))
	}
	if category, ok := fields["category"].(string); ok {
		if _, valid := models.AllowedMomentCategories[category]; !valid {
			return nil, fmt.Errorf("invalid category %q", category)
		}
		update["category"] = category
	}
	if tags, ok := fields["tags"].([]interface{}); ok {
		clean := make([]string, 0, len(tags))
		for _, t := range tags {
			if tag, ok := t.(string); ok {
				clean = append(clean, strings.TrimSpace(s.sanitizer.Sanitize(tag)))
			}
		}
		update["tags"] = clean
	}
	if len(update) == 0 {
		return nil, fmt.Errorf("no updatable fields provided")
	}

	return s.repo.UpdateMoment(ctx, objID, update)
}

// DeleteMoment removes a moment, owner only.
func (s *MomentService) DeleteMoment(ctx context.Context, id string, ownerID primitive.ObjectID) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid moment ID: %v", err)
	}

	moment, err := s.repo.GetMomentByID(ctx, objID)
	if err != nil {
		return fmt.Errorf("moment not found")
	}
	if moment.UserID != ownerID {
		return fmt.Errorf("you can only delete your own moments")
	}

	return s.repo.DeleteMoment(ctx, objID)
}

// CountMoments returns the user's total recorded moments.
func (s *MomentService) CountMoments(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.repo.CountByUser(ctx, userID)
}

// CountMomentsByCategory returns the user's moment count in one category.
func (s *MomentService) CountMomentsByCategory(ctx context.Context, userID primitive.ObjectID, category string) (int64, error) {
	return s.repo.CountByUserAndCategory(ctx, userID, category)
}
