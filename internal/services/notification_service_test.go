package services

import (
	"context"
	"testing"

	"github.com/firstmoments/first-moments-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMarkAsReadAlreadyReadIsNoOp(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("already read", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		recipient := primitive.NewObjectID()

		// Only the lookup is queued. A second read marking would fail on
		// the missing update response.
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "first_moments.notifications", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "recipient_id", Value: recipient},
			{Key: "read", Value: true},
		}))

		svc := NewNotificationService(repository.NewNotificationRepository(mt.DB), nil)
		err := svc.MarkAsRead(context.Background(), id.Hex(), recipient)
		assert.NoError(mt, err)
	})
}

func TestMarkAsReadUnread(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unread gets marked", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		recipient := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "first_moments.notifications", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: id},
				{Key: "recipient_id", Value: recipient},
				{Key: "read", Value: false},
			}),
			mtest.CreateSuccessResponse(),
		)

		svc := NewNotificationService(repository.NewNotificationRepository(mt.DB), nil)
		err := svc.MarkAsRead(context.Background(), id.Hex(), recipient)
		assert.NoError(mt, err)
	})
}

func TestMarkAsReadRecipientOnly(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("foreign notification rejected", func(mt *mtest.T) {
		id := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(1, "first_moments.notifications", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "recipient_id", Value: primitive.NewObjectID()},
			{Key: "read", Value: false},
		}))

		svc := NewNotificationService(repository.NewNotificationRepository(mt.DB), nil)
		err := svc.MarkAsRead(context.Background(), id.Hex(), primitive.NewObjectID())
		assert.Error(mt, err)
		assert.Contains(mt, err.Error(), "your own")
	})
}
