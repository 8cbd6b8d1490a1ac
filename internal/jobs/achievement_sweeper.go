package jobs

import (
	"context"
	"fmt"

	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/firstmoments/first-moments-api/internal/services"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AchievementSweeper reconciles count-based achievements with the actual
// stored data. The request path syncs on every write; the sweep catches
// drift from deleted moments and templates added after the fact.
type AchievementSweeper struct {
	UserService         *services.UserService
	MomentService       *services.MomentService
	ProfileService      *services.ProfileService
	AchievementService  *services.AchievementService
	NotificationService *services.NotificationService
}

// NewAchievementSweeper creates a new instance of AchievementSweeper.
func NewAchievementSweeper(userService *services.UserService, momentService *services.MomentService, profileService *services.ProfileService, achievementService *services.AchievementService, notificationService *services.NotificationService) *AchievementSweeper {
	return &AchievementSweeper{
		UserService:         userService,
		MomentService:       momentService,
		ProfileService:      profileService,
		AchievementService:  achievementService,
		NotificationService: notificationService,
	}
}

// Run recomputes moment-count and profile-count achievements for every
// user and notifies on newly unlocked ones.
func (j *AchievementSweeper) Run(ctx context.Context) error {
	users, err := j.UserService.GetAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %v", err)
	}

	momentTemplates, err := j.AchievementService.GetTemplatesByCondition(ctx, models.ConditionMomentCount)
	if err != nil {
		return fmt.Errorf("failed to fetch moment templates: %v", err)
	}
	profileTemplates, err := j.AchievementService.GetTemplatesByCondition(ctx, models.ConditionProfileCount)
	if err != nil {
		return fmt.Errorf("failed to fetch profile templates: %v", err)
	}

	for _, user := range users {
		momentCount, err := j.MomentService.CountMoments(ctx, user.ID)
		if err != nil {
			logrus.WithError(err).Warnf("Sweep: failed to count moments for user %s", user.ID.Hex())
			continue
		}
		for i := range momentTemplates {
			j.syncOne(ctx, user.ID, &momentTemplates[i], momentCount)
		}

		profileCount, err := j.ProfileService.CountProfiles(ctx, user.ID)
		if err != nil {
			logrus.WithError(err).Warnf("Sweep: failed to count profiles for user %s", user.ID.Hex())
			continue
		}
		for i := range profileTemplates {
			j.syncOne(ctx, user.ID, &profileTemplates[i], profileCount)
		}
	}

	logrus.WithField("users", len(users)).Info("Achievement sweep completed")
	return nil
}

func (j *AchievementSweeper) syncOne(ctx context.Context, userID primitive.ObjectID, tmpl *models.AchievementTemplate, count int64) {
	unlocked, err := j.AchievementService.SyncCountProgress(ctx, userID, tmpl, count)
	if err != nil {
		logrus.WithError(err).Warnf("Sweep: failed to sync achievement %s", tmpl.ID.Hex())
		return
	}
	if unlocked {
		j.NotificationService.Notify(ctx, userID,
			models.NotificationTypeAchievement, models.NotificationCategoryAchievements,
			"Achievement unlocked!", "You earned \""+tmpl.Name+"\".",
			map[string]interface{}{"template_id": tmpl.ID.Hex()})
	}
}
