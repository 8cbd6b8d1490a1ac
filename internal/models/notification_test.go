package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validNotification() *Notification {
	return &Notification{
		RecipientID: primitive.NewObjectID(),
		Type:        NotificationTypeSystem,
		Category:    NotificationCategorySystem,
		Title:       "Welcome",
		Message:     "Glad you are here.",
	}
}

func TestNotificationValidate(t *testing.T) {
	now := time.Now()

	n := validNotification()
	assert.NoError(t, n.Validate(now))
	assert.Equal(t, NotificationPriorityNormal, n.Priority, "empty priority defaults to normal")
}

func TestNotificationValidateSelfNotify(t *testing.T) {
	n := validNotification()
	sender := n.RecipientID
	n.SenderID = &sender

	err := n.Validate(time.Now())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "yourself")
}

func TestNotificationValidateEnums(t *testing.T) {
	now := time.Now()

	n := validNotification()
	n.Type = "carrier_pigeon"
	assert.Error(t, n.Validate(now))

	n = validNotification()
	n.Category = "unknown"
	assert.Error(t, n.Validate(now))

	n = validNotification()
	n.Priority = "urgent"
	assert.Error(t, n.Validate(now))
}

func TestNotificationValidateExpiry(t *testing.T) {
	now := time.Now()

	n := validNotification()
	past := now.Add(-time.Hour)
	n.ExpiresAt = &past
	assert.Error(t, n.Validate(now))

	n = validNotification()
	future := now.Add(time.Hour)
	n.ExpiresAt = &future
	assert.NoError(t, n.Validate(now))
}

func TestNotificationExpired(t *testing.T) {
	now := time.Now()

	n := validNotification()
	assert.False(t, n.Expired(now), "no expiry means never expired")

	past := now.Add(-time.Minute)
	n.ExpiresAt = &past
	assert.True(t, n.Expired(now))

	future := now.Add(time.Minute)
	n.ExpiresAt = &future
	assert.False(t, n.Expired(now))
}
