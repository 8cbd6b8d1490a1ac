package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculatePercentage(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		current int64
		target  int64
		want    int
	}{
		{"zero progress", 0, 10, 0},
		{"half way", 5, 10, 50},
		{"rounded", 1, 3, 33},
		{"exactly done", 10, 10, 100},
		{"clamped at 100", 25, 10, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ach := &UserAchievement{Progress: Progress{Current: tt.current, Target: tt.target}}
			ach.Recalculate(now)
			assert.Equal(t, tt.want, ach.Progress.Percentage)
		})
	}
}

func TestRecalculateStatusTransitions(t *testing.T) {
	now := time.Now()

	ach := &UserAchievement{Progress: Progress{Current: 0, Target: 5}}
	ach.Recalculate(now)
	assert.Equal(t, StatusNotStarted, ach.Status)
	assert.True(t, ach.StartedAt.IsZero())

	ach.Progress.Current = 2
	ach.Recalculate(now)
	assert.Equal(t, StatusInProgress, ach.Status)
	assert.False(t, ach.StartedAt.IsZero())

	ach.Progress.Current = 5
	ach.Recalculate(now)
	assert.Equal(t, StatusAchieved, ach.Status)
	assert.False(t, ach.AchievedAt.IsZero())
}

func TestRecalculateAchievedNeverRegresses(t *testing.T) {
	now := time.Now()

	ach := &UserAchievement{Progress: Progress{Current: 5, Target: 5}}
	ach.Recalculate(now)
	require.Equal(t, StatusAchieved, ach.Status)
	achievedAt := ach.AchievedAt

	// Dropping below the target must not clear achieved state.
	ach.Progress.Current = 1
	ach.Recalculate(now.Add(time.Hour))
	assert.Equal(t, StatusAchieved, ach.Status)
	assert.Equal(t, achievedAt, ach.AchievedAt, "achieved_at must be set exactly once")
}

func TestRecalculateAchievedAtSetOnce(t *testing.T) {
	now := time.Now()

	ach := &UserAchievement{Progress: Progress{Current: 5, Target: 5}}
	ach.Recalculate(now)
	first := ach.AchievedAt

	ach.Progress.Current = 10
	ach.Recalculate(now.Add(time.Hour))
	assert.Equal(t, first, ach.AchievedAt)
}

func TestRecalculateNegativeCurrentClamped(t *testing.T) {
	ach := &UserAchievement{Progress: Progress{Current: -3, Target: 5}}
	ach.Recalculate(time.Now())
	assert.Equal(t, int64(0), ach.Progress.Current)
	assert.Equal(t, StatusNotStarted, ach.Status)
}

func TestTemplateValidate(t *testing.T) {
	tmpl := &AchievementTemplate{
		Name:            "First Steps",
		ConditionType:   ConditionMomentCount,
		ConditionTarget: 1,
		Points:          10,
	}
	assert.NoError(t, tmpl.Validate())

	bad := &AchievementTemplate{Name: "Broken", ConditionType: "unknown", ConditionTarget: 1}
	assert.Error(t, bad.Validate())

	zeroTarget := &AchievementTemplate{Name: "Zero", ConditionType: ConditionMomentCount, ConditionTarget: 0}
	assert.Error(t, zeroTarget.Validate())

	negativePoints := &AchievementTemplate{Name: "Neg", ConditionType: ConditionMomentCount, ConditionTarget: 1, Points: -1}
	assert.Error(t, negativePoints.Validate())
}
