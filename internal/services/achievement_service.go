package services

import (
	"context"
	"fmt"

	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/firstmoments/first-moments-api/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AchievementService encapsulates templates and per-user progress.
type AchievementService struct {
	templates *repository.TemplateRepository
	repo      *repository.AchievementRepository
}

// NewAchievementService creates a new instance of AchievementService.
func NewAchievementService(templates *repository.TemplateRepository, repo *repository.AchievementRepository) *AchievementService {
	return &AchievementService{
		templates: templates,
		repo:      repo,
	}
}

// CreateTemplate validates and stores a new achievement definition.
func (s *AchievementService) CreateTemplate(ctx context.Context, tmpl *models.AchievementTemplate) (*models.AchievementTemplate, error) {
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return s.templates.CreateTemplate(ctx, tmpl)
}

// GetTemplates lists achievement definitions, optionally by category.
func (s *AchievementService) GetTemplates(ctx context.Context, category string) ([]models.AchievementTemplate, error) {
	return s.templates.GetTemplates(ctx, category)
}

// GetTemplate fetches one achievement definition.
func (s *AchievementService) GetTemplate(ctx context.Context, id string) (*models.AchievementTemplate, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid template ID: %v", err)
	}
	return s.templates.GetTemplateByID(ctx, objID)
}

// UpdateTemplate applies a whitelisted partial update to a template.
func (s *AchievementService) UpdateTemplate(ctx context.Context, id string, fields map[string]interface{}) (*models.AchievementTemplate, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid template ID: %v", err)
	}

	update := map[string]interface{}{}
	if name, ok := fields["name"].(string); ok && name != "" {
		update["name"] = name
	}
	if desc, ok := fields["description"].(string); ok {
		update["description"] = desc
	}
	if points, ok := fields["points"].(float64); ok && points >= 0 {
		update["points"] = int(points)
	}
	if icon, ok := fields["icon"].(string); ok {
		update["icon"] = icon
	}
	if len(update) == 0 {
		return nil, fmt.Errorf("no updatable fields provided")
	}

	return s.templates.UpdateTemplate(ctx, objID, update)
}

// DeleteTemplate removes an achievement definition.
func (s *AchievementService) DeleteTemplate(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid template ID: %v", err)
	}
	return s.templates.DeleteTemplate(ctx, objID)
}

// GetUserAchievements lists the user's progress, optionally by status.
func (s *AchievementService) GetUserAchievements(ctx context.Context, userID primitive.ObjectID, status string) ([]models.UserAchievement, error) {
	if status != "" && status != models.StatusNotStarted && status != models.StatusInProgress && status != models.StatusAchieved {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	return s.repo.GetByUser(ctx, userID, status)
}

// StartAchievement creates a zero-progress entry for the user against a
// template. Duplicate pairs are rejected by the unique index.
func (s *AchievementService) StartAchievement(ctx context.Context, userID primitive.ObjectID, templateID string) (*models.UserAchievement, error) {
	tmplID, err := primitive.ObjectIDFromHex(templateID)
	if err != nil {
		return nil, fmt.Errorf("invalid template ID: %v", err)
	}

	tmpl, err := s.templates.GetTemplateByID(ctx, tmplID)
	if err != nil {
		return nil, fmt.Errorf("template not found")
	}

	ach := &models.UserAchievement{
		UserID:     userID,
		TemplateID: tmpl.ID,
		Progress: models.Progress{
			Current: 0,
			Target:  tmpl.ConditionTarget,
		},
	}
	return s.repo.CreateAchievement(ctx, ach)
}

// UpdateProgress moves the user's progress on a template. Returns the
// updated achievement and whether this update crossed the target.
func (s *AchievementService) UpdateProgress(ctx context.Context, userID primitive.ObjectID, templateID string, current int64) (*models.UserAchievement, bool, error) {
	tmplID, err := primitive.ObjectIDFromHex(templateID)
	if err != nil {
		return nil, false, fmt.Errorf("invalid template ID: %v", err)
	}
	if current < 0 {
		return nil, false, fmt.Errorf("progress cannot be negative")
	}

	ach, err := s.repo.GetByUserAndTemplate(ctx, userID, tmplID)
	if err != nil {
		// First progress report starts the achievement implicitly.
		started, serr := s.StartAchievement(ctx, userID, templateID)
		if serr == repository.ErrDuplicateAchievement {
			// Lost a race with a concurrent start; reload.
			started, serr = s.repo.GetByUserAndTemplate(ctx, userID, tmplID)
		}
		if serr != nil {
			return nil, false, serr
		}
		ach = started
	}

	wasAchieved := ach.Status == models.StatusAchieved
	ach.Progress.Current = current

	saved, err := s.repo.Save(ctx, ach)
	if err != nil {
		return nil, false, err
	}

	justAchieved := !wasAchieved && saved.Status == models.StatusAchieved
	if justAchieved {
		logrus.WithFields(logrus.Fields{
			"userID":     userID.Hex(),
			"templateID": templateID,
		}).Info("Achievement unlocked")
	}
	return saved, justAchieved, nil
}

// SyncCountProgress reconciles a count-condition achievement with the
// actual count. Used by the moment flow and the hourly sweep. Returns
// whether the target was crossed by this sync.
func (s *AchievementService) SyncCountProgress(ctx context.Context, userID primitive.ObjectID, tmpl *models.AchievementTemplate, count int64) (bool, error) {
	ach, err := s.repo.GetByUserAndTemplate(ctx, userID, tmpl.ID)
	if err != nil {
		ach = &models.UserAchievement{
			UserID:     userID,
			TemplateID: tmpl.ID,
			Progress:   models.Progress{Target: tmpl.ConditionTarget},
		}
		ach, err = s.repo.CreateAchievement(ctx, ach)
		if err != nil && err != repository.ErrDuplicateAchievement {
			return false, err
		}
		if err == repository.ErrDuplicateAchievement {
			// Lost a race with a concurrent sync; reload.
			ach, err = s.repo.GetByUserAndTemplate(ctx, userID, tmpl.ID)
			if err != nil {
				return false, err
			}
		}
	}

	if ach.Progress.Current == count && ach.Status != "" {
		return false, nil
	}

	wasAchieved := ach.Status == models.StatusAchieved
	ach.Progress.Current = count

	saved, err := s.repo.Save(ctx, ach)
	if err != nil {
		return false, err
	}
	return !wasAchieved && saved.Status == models.StatusAchieved, nil
}

// GetTemplatesByCondition exposes condition-filtered templates to jobs.
func (s *AchievementService) GetTemplatesByCondition(ctx context.Context, conditionType string) ([]models.AchievementTemplate, error) {
	return s.templates.GetTemplatesByCondition(ctx, conditionType)
}

// GetSummary aggregates counts and earned points across all of the
// user's achievements.
func (s *AchievementService) GetSummary(ctx context.Context, userID primitive.ObjectID) (*models.AchievementSummary, error) {
	achievements, err := s.repo.GetByUser(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	summary := &models.AchievementSummary{Total: len(achievements)}
	for _, ach := range achievements {
		switch ach.Status {
		case models.StatusAchieved:
			summary.Achieved++
			tmpl, terr := s.templates.GetTemplateByID(ctx, ach.TemplateID)
			if terr != nil {
				logrus.WithError(terr).Warn("Achievement references missing template")
				continue
			}
			summary.TotalPoints += tmpl.Points
		case models.StatusInProgress:
			summary.InProgress++
		}
	}
	return summary, nil
}
