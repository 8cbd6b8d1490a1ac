package models

import (
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Achievement condition types.
const (
	ConditionMomentCount   = "moment_count"
	ConditionStreakDays    = "streak_days"
	ConditionCategoryCount = "category_count"
	ConditionProfileCount  = "profile_count"
)

var allowedConditionTypes = map[string]struct{}{
	ConditionMomentCount:   {},
	ConditionStreakDays:    {},
	ConditionCategoryCount: {},
	ConditionProfileCount:  {},
}

// Achievement statuses.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusAchieved   = "achieved"
)

// AchievementTemplate is the static definition of a gamification goal.
type AchievementTemplate struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description" json:"description"`
	Category        string             `bson:"category,omitempty" json:"category,omitempty"`
	ConditionType   string             `bson:"condition_type" json:"condition_type"`
	ConditionTarget int64              `bson:"condition_target" json:"condition_target"`
	Points          int                `bson:"points" json:"points"`
	Icon            string             `bson:"icon,omitempty" json:"icon,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

// Validate checks the condition enum and that the target is positive.
func (t *AchievementTemplate) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("template name is required")
	}
	if _, ok := allowedConditionTypes[t.ConditionType]; !ok {
		return fmt.Errorf("invalid condition type %q", t.ConditionType)
	}
	if t.ConditionTarget <= 0 {
		return fmt.Errorf("condition target must be positive")
	}
	if t.Points < 0 {
		return fmt.Errorf("points cannot be negative")
	}
	return nil
}

// Progress holds the derived completion state of a user achievement.
type Progress struct {
	Current    int64 `bson:"current" json:"current"`
	Target     int64 `bson:"target" json:"target"`
	Percentage int   `bson:"percentage" json:"percentage"`
}

// UserAchievement tracks one user's progress against a template. The
// (user_id, template_id) pair is unique, enforced by a compound index.
type UserAchievement struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	TemplateID primitive.ObjectID `bson:"template_id" json:"template_id"`
	Progress   Progress           `bson:"progress" json:"progress"`
	Status     string             `bson:"status" json:"status"`
	StartedAt  time.Time          `bson:"started_at,omitempty" json:"started_at,omitempty"`
	AchievedAt time.Time          `bson:"achieved_at,omitempty" json:"achieved_at,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// Recalculate derives percentage and status from current/target. Applied
// before every save. Percentage is clamped at 100. Status never regresses
// from achieved, and the started/achieved timestamps are set exactly once,
// on the first crossing of their thresholds.
func (a *UserAchievement) Recalculate(now time.Time) {
	if a.Progress.Current < 0 {
		a.Progress.Current = 0
	}

	if a.Progress.Target <= 0 {
		a.Progress.Percentage = 0
	} else {
		pct := float64(a.Progress.Current) / float64(a.Progress.Target) * 100
		a.Progress.Percentage = int(math.Min(math.Round(pct), 100))
	}

	if a.Status == StatusAchieved {
		return
	}

	switch {
	case a.Progress.Target > 0 && a.Progress.Current >= a.Progress.Target:
		a.Status = StatusAchieved
		if a.StartedAt.IsZero() {
			a.StartedAt = now
		}
		if a.AchievedAt.IsZero() {
			a.AchievedAt = now
		}
	case a.Progress.Current > 0:
		a.Status = StatusInProgress
		if a.StartedAt.IsZero() {
			a.StartedAt = now
		}
	default:
		a.Status = StatusNotStarted
	}
}

// AchievementSummary aggregates a user's standing across all achievements.
type AchievementSummary struct {
	Total       int `json:"total"`
	Achieved    int `json:"achieved"`
	InProgress  int `json:"in_progress"`
	TotalPoints int `json:"total_points"`
}
