package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildNotificationFilterExcludesExpired(t *testing.T) {
	recipient := primitive.NewObjectID()
	now := time.Now()

	filter := BuildNotificationFilter(NotificationFilter{RecipientID: recipient}, now)

	assert.Equal(t, recipient, filter["recipient_id"])

	or, ok := filter["$or"].([]bson.M)
	require.True(t, ok, "expiry exclusion must be a disjunction")
	require.Len(t, or, 3)
	assert.Equal(t, bson.M{"expires_at": bson.M{"$exists": false}}, or[0])
	assert.Equal(t, bson.M{"expires_at": nil}, or[1])
	assert.Equal(t, bson.M{"expires_at": bson.M{"$gt": now}}, or[2])
}

func TestBuildNotificationFilterOptionalFields(t *testing.T) {
	recipient := primitive.NewObjectID()
	now := time.Now()

	// Bare filter carries only the recipient and expiry clauses.
	filter := BuildNotificationFilter(NotificationFilter{RecipientID: recipient}, now)
	assert.NotContains(t, filter, "type")
	assert.NotContains(t, filter, "category")
	assert.NotContains(t, filter, "priority")
	assert.NotContains(t, filter, "read")

	read := false
	filter = BuildNotificationFilter(NotificationFilter{
		RecipientID: recipient,
		Type:        "achievement",
		Category:    "achievements",
		Priority:    "high",
		Read:        &read,
	}, now)
	assert.Equal(t, "achievement", filter["type"])
	assert.Equal(t, "achievements", filter["category"])
	assert.Equal(t, "high", filter["priority"])
	assert.Equal(t, false, filter["read"])
}

func TestBuildMomentFilter(t *testing.T) {
	userID := primitive.NewObjectID()
	profileID := primitive.NewObjectID()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	filter := BuildMomentFilter(MomentFilter{
		UserID:    userID,
		ProfileID: &profileID,
		Category:  "milestone",
		Tag:       "first-steps",
		From:      from,
		To:        to,
	})

	assert.Equal(t, userID, filter["user_id"])
	assert.Equal(t, profileID, filter["profile_id"])
	assert.Equal(t, "milestone", filter["category"])
	assert.Equal(t, "first-steps", filter["tags"])
	assert.Equal(t, bson.M{"$gte": from, "$lte": to}, filter["happened_at"])
}

func TestBuildMomentFilterMinimal(t *testing.T) {
	userID := primitive.NewObjectID()

	filter := BuildMomentFilter(MomentFilter{UserID: userID})

	assert.Equal(t, bson.M{"user_id": userID}, filter)
}

func TestBuildMomentFilterOpenEndedRange(t *testing.T) {
	userID := primitive.NewObjectID()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	filter := BuildMomentFilter(MomentFilter{UserID: userID, From: from})

	assert.Equal(t, bson.M{"$gte": from}, filter["happened_at"])
}
