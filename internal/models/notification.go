package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotificationTypeAchievement = "achievement"
	NotificationTypeReminder    = "reminder"
	NotificationTypeSocial      = "social"
	NotificationTypeSystem      = "system"
)

// Notification categories, matched against user notification settings.
const (
	NotificationCategoryAchievements = "achievements"
	NotificationCategoryMoments      = "moments"
	NotificationCategoryReminders    = "reminders"
	NotificationCategorySocial       = "social"
	NotificationCategorySystem       = "system"
)

// Notification priorities.
const (
	NotificationPriorityLow    = "low"
	NotificationPriorityNormal = "normal"
	NotificationPriorityHigh   = "high"
)

var allowedNotificationTypes = map[string]struct{}{
	NotificationTypeAchievement: {},
	NotificationTypeReminder:    {},
	NotificationTypeSocial:      {},
	NotificationTypeSystem:      {},
}

var allowedNotificationCategories = map[string]struct{}{
	NotificationCategoryAchievements: {},
	NotificationCategoryMoments:      {},
	NotificationCategoryReminders:    {},
	NotificationCategorySocial:       {},
	NotificationCategorySystem:       {},
}

var allowedNotificationPriorities = map[string]struct{}{
	NotificationPriorityLow:    {},
	NotificationPriorityNormal: {},
	NotificationPriorityHigh:   {},
}

// Notification is a message delivered to a user's in-app inbox.
type Notification struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	RecipientID primitive.ObjectID     `bson:"recipient_id" json:"recipient_id"`
	SenderID    *primitive.ObjectID    `bson:"sender_id,omitempty" json:"sender_id,omitempty"`
	Type        string                 `bson:"type" json:"type"`
	Category    string                 `bson:"category" json:"category"`
	Priority    string                 `bson:"priority" json:"priority"`
	Title       string                 `bson:"title" json:"title"`
	Message     string                 `bson:"message" json:"message"`
	Read        bool                   `bson:"read" json:"read"`
	ReadAt      time.Time              `bson:"read_at,omitempty" json:"read_at,omitempty"`
	Delivered   bool                   `bson:"delivered" json:"delivered"`
	ExpiresAt   *time.Time             `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	Data        map[string]interface{} `bson:"data,omitempty" json:"data,omitempty"`
	CreatedAt   time.Time              `bson:"created_at" json:"created_at"`
}

// Validate checks required fields, enum membership, the self-notification
// rule and that any expiry lies in the future.
func (n *Notification) Validate(now time.Time) error {
	if n.RecipientID.IsZero() {
		return fmt.Errorf("recipient is required")
	}
	if n.SenderID != nil && *n.SenderID == n.RecipientID {
		return fmt.Errorf("cannot send a notification to yourself")
	}
	if n.Title == "" {
		return fmt.Errorf("title is required")
	}
	if _, ok := allowedNotificationTypes[n.Type]; !ok {
		return fmt.Errorf("invalid notification type %q", n.Type)
	}
	if _, ok := allowedNotificationCategories[n.Category]; !ok {
		return fmt.Errorf("invalid notification category %q", n.Category)
	}
	if n.Priority == "" {
		n.Priority = NotificationPriorityNormal
	}
	if _, ok := allowedNotificationPriorities[n.Priority]; !ok {
		return fmt.Errorf("invalid notification priority %q", n.Priority)
	}
	if n.ExpiresAt != nil && !n.ExpiresAt.After(now) {
		return fmt.Errorf("expiry must be in the future")
	}
	return nil
}

// Expired reports whether the notification is past its expiry.
// Notifications without an expiry never expire.
func (n *Notification) Expired(now time.Time) bool {
	return n.ExpiresAt != nil && n.ExpiresAt.Before(now)
}
