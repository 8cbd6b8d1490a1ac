package services

import (
	"context"
	"testing"

	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/firstmoments/first-moments-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestUpdateProgressReloadsOnDuplicateRace(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("concurrent start loses race and reloads", func(mt *mtest.T) {
		userID := primitive.NewObjectID()
		tmplID := primitive.NewObjectID()
		achID := primitive.NewObjectID()

		mt.AddMockResponses(
			// No progress entry yet.
			mtest.CreateCursorResponse(0, "first_moments.user_achievements", mtest.FirstBatch),
			// Implicit start loads the template...
			mtest.CreateCursorResponse(1, "first_moments.achievement_templates", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: tmplID},
				{Key: "name", Value: "First Steps"},
				{Key: "condition_type", Value: "moment_count"},
				{Key: "condition_target", Value: int64(5)},
				{Key: "points", Value: 10},
			}),
			// ...but the insert hits the unique index.
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error",
			}),
			// Reload finds the concurrently created entry.
			mtest.CreateCursorResponse(1, "first_moments.user_achievements", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: achID},
				{Key: "user_id", Value: userID},
				{Key: "template_id", Value: tmplID},
				{Key: "progress", Value: bson.D{
					{Key: "current", Value: int64(1)},
					{Key: "target", Value: int64(5)},
					{Key: "percentage", Value: 20},
				}},
				{Key: "status", Value: models.StatusInProgress},
			}),
			// Save of the updated progress.
			mtest.CreateSuccessResponse(),
		)

		svc := NewAchievementService(
			repository.NewTemplateRepository(mt.DB),
			repository.NewAchievementRepository(mt.DB),
		)

		ach, justAchieved, err := svc.UpdateProgress(context.Background(), userID, tmplID.Hex(), 3)
		require.NoError(mt, err)
		assert.False(mt, justAchieved)
		assert.Equal(mt, int64(3), ach.Progress.Current)
		assert.Equal(mt, 60, ach.Progress.Percentage)
		assert.Equal(mt, models.StatusInProgress, ach.Status)
	})
}
