package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegisterFailedLoginLocksAtThreshold(t *testing.T) {
	now := time.Now()
	user := &User{}

	for i := 0; i < 4; i++ {
		locked := user.RegisterFailedLogin(now, 5, 15*time.Minute)
		assert.False(t, locked, "attempt %d should not lock", i+1)
	}

	locked := user.RegisterFailedLogin(now, 5, 15*time.Minute)
	assert.True(t, locked)
	assert.True(t, user.IsLocked(now))
	assert.Equal(t, now.Add(15*time.Minute), user.LockUntil)
	assert.Equal(t, 0, user.FailedLoginAttempts, "counter resets when lock engages")
}

func TestLockExpires(t *testing.T) {
	now := time.Now()
	user := &User{LockUntil: now.Add(15 * time.Minute)}

	assert.True(t, user.IsLocked(now))
	assert.False(t, user.IsLocked(now.Add(16*time.Minute)))
}

func TestRegisterSuccessfulLoginClearsState(t *testing.T) {
	user := &User{FailedLoginAttempts: 3, LockUntil: time.Now().Add(time.Minute)}
	user.RegisterSuccessfulLogin()
	assert.Equal(t, 0, user.FailedLoginAttempts)
	assert.True(t, user.LockUntil.IsZero())
}

func TestNotificationSettingsCategoryEnabled(t *testing.T) {
	settings := DefaultNotificationSettings()
	assert.True(t, settings.CategoryEnabled(NotificationCategoryAchievements))

	settings.Social = false
	assert.False(t, settings.CategoryEnabled(NotificationCategorySocial))
	assert.True(t, settings.CategoryEnabled(NotificationCategoryMoments))

	// Unknown categories are treated as enabled.
	assert.True(t, settings.CategoryEnabled("future_category"))
}
