package repository

import (
	"context"
	"testing"

	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestCreateAchievementDuplicatePair(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate key maps to sentinel", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: first_moments.user_achievements",
		}))

		repo := NewAchievementRepository(mt.DB)
		_, err := repo.CreateAchievement(context.Background(), &models.UserAchievement{
			UserID:     primitive.NewObjectID(),
			TemplateID: primitive.NewObjectID(),
			Progress:   models.Progress{Target: 5},
		})
		assert.ErrorIs(mt, err, ErrDuplicateAchievement)
	})
}

func TestCreateAchievementDerivesProgress(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("derived fields set before insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		repo := NewAchievementRepository(mt.DB)
		ach, err := repo.CreateAchievement(context.Background(), &models.UserAchievement{
			UserID:     primitive.NewObjectID(),
			TemplateID: primitive.NewObjectID(),
			Progress:   models.Progress{Current: 2, Target: 4},
		})
		require.NoError(mt, err)
		assert.False(mt, ach.ID.IsZero())
		assert.Equal(mt, models.StatusInProgress, ach.Status)
		assert.Equal(mt, 50, ach.Progress.Percentage)
	})
}
