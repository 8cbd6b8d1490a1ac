package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationSettings controls which notification categories a user
// wants to receive. Categories default to enabled for new accounts.
type NotificationSettings struct {
	Achievements bool `bson:"achievements" json:"achievements"`
	Moments      bool `bson:"moments" json:"moments"`
	Reminders    bool `bson:"reminders" json:"reminders"`
	Social       bool `bson:"social" json:"social"`
	System       bool `bson:"system" json:"system"`
}

// DefaultNotificationSettings returns settings with every category enabled.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Achievements: true,
		Moments:      true,
		Reminders:    true,
		Social:       true,
		System:       true,
	}
}

// CategoryEnabled reports whether the given notification category is
// enabled. Unknown categories are treated as enabled so new categories
// are not silently dropped for existing users.
func (s NotificationSettings) CategoryEnabled(category string) bool {
	switch category {
	case NotificationCategoryAchievements:
		return s.Achievements
	case NotificationCategoryMoments:
		return s.Moments
	case NotificationCategoryReminders:
		return s.Reminders
	case NotificationCategorySocial:
		return s.Social
	case NotificationCategorySystem:
		return s.System
	default:
		return true
	}
}

// User represents an account in the First Moments system.
type User struct {
	ID                  primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username            string               `bson:"username" json:"username"`
	Email               string               `bson:"email" json:"email"`
	HashedPassword      string               `bson:"hashed_password" json:"-"`
	Role                string               `bson:"role" json:"role"`
	IsVerified          bool                 `bson:"is_verified" json:"is_verified"`
	VerifyToken         string               `bson:"verify_token,omitempty" json:"-"`
	ResetToken          string               `bson:"reset_token,omitempty" json:"-"`
	ResetTokenExp       time.Time            `bson:"reset_token_exp,omitempty" json:"-"`
	FailedLoginAttempts int                  `bson:"failed_login_attempts" json:"-"`
	LockUntil           time.Time            `bson:"lock_until,omitempty" json:"-"`
	Settings            NotificationSettings `bson:"notification_settings" json:"notification_settings"`
	CreatedAt           time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time            `bson:"updated_at" json:"updated_at"`
}

// IsLocked reports whether the account is currently locked out.
func (u *User) IsLocked(now time.Time) bool {
	return now.Before(u.LockUntil)
}

// RegisterFailedLogin bumps the failure counter and locks the account
// once the counter reaches maxAttempts. Returns true when this failure
// triggered the lock.
func (u *User) RegisterFailedLogin(now time.Time, maxAttempts int, lockout time.Duration) bool {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		u.LockUntil = now.Add(lockout)
		u.FailedLoginAttempts = 0
		return true
	}
	return false
}

// RegisterSuccessfulLogin clears lockout state after valid credentials.
func (u *User) RegisterSuccessfulLogin() {
	u.FailedLoginAttempts = 0
	u.LockUntil = time.Time{}
}
