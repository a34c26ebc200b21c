package models

import (
	"time"
)

// RequirementType tells which counter an achievement is measured against.
type RequirementType string

const (
	RequirementCount   RequirementType = "count"   // total_checkins / total_workouts
	RequirementStreak  RequirementType = "streak"  // current_streak
	RequirementGoal    RequirementType = "goal"    // total_goals_achieved
	RequirementSpecial RequirementType = "special" // granted manually/by event
)

// Achievement: catalog definition (seeded below, admin-extendable)
type Achievement struct {
	ID               string          `gorm:"primaryKey;type:uuid" json:"id"`
	Code             string          `gorm:"uniqueIndex;not null" json:"code"` // e.g., "FIRST_CHECKIN"
	Name             string          `gorm:"not null" json:"name"`
	Description      string          `gorm:"type:text" json:"description"`
	Category         string          `gorm:"type:varchar(32);not null" json:"category"` // checkin, workout, streak, goal, special
	RequirementType  RequirementType `gorm:"type:varchar(16);not null" json:"requirement_type"`
	RequirementValue int64           `gorm:"not null" json:"requirement_value"`
	Points           int64           `gorm:"not null;default:0" json:"points"`
	IconURL          string          `gorm:"type:text" json:"icon_url"`
	CreatedAt        time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

func (Achievement) TableName() string { return "available_achievements" }

// UserAchievement: unlock record, created once and immutable afterward.
// The unique index is what makes double-unlock impossible under races.
type UserAchievement struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string    `gorm:"not null;uniqueIndex:uniq_user_achievement" json:"user_id"`
	AchievementID string    `gorm:"not null;uniqueIndex:uniq_user_achievement" json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at" gorm:"autoCreateTime"`
	PointsEarned  int64     `json:"points_earned" gorm:"default:0"`
}

func (UserAchievement) TableName() string { return "user_achievements" }

// AchievementWithStatus decorates a catalog entry with the caller's unlock state.
type AchievementWithStatus struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// SeedAchievements is the built-in catalog, inserted at startup if missing.
var SeedAchievements = []Achievement{
	{
		Code:             "FIRST_CHECKIN",
		Name:             "First Steps",
		Description:      "Checked in to the gym for the first time",
		Category:         "checkin",
		RequirementType:  RequirementCount,
		RequirementValue: 1,
		Points:           10,
	},
	{
		Code:             "CHECKIN_25",
		Name:             "Regular",
		Description:      "25 gym check-ins",
		Category:         "checkin",
		RequirementType:  RequirementCount,
		RequirementValue: 25,
		Points:           50,
	},
	{
		Code:             "CHECKIN_100",
		Name:             "Gym Rat",
		Description:      "100 gym check-ins",
		Category:         "checkin",
		RequirementType:  RequirementCount,
		RequirementValue: 100,
		Points:           200,
	},
	{
		Code:             "WORKOUT_10",
		Name:             "Getting Stronger",
		Description:      "10 workouts recorded",
		Category:         "workout",
		RequirementType:  RequirementCount,
		RequirementValue: 10,
		Points:           30,
	},
	{
		Code:             "STREAK_7",
		Name:             "One Week Strong",
		Description:      "7-day check-in streak",
		Category:         "streak",
		RequirementType:  RequirementStreak,
		RequirementValue: 7,
		Points:           70,
	},
	{
		Code:             "STREAK_30",
		Name:             "Iron Habit",
		Description:      "30-day check-in streak",
		Category:         "streak",
		RequirementType:  RequirementStreak,
		RequirementValue: 30,
		Points:           300,
	},
	{
		Code:             "GOAL_5",
		Name:             "Goal Getter",
		Description:      "5 fitness goals achieved",
		Category:         "goal",
		RequirementType:  RequirementGoal,
		RequirementValue: 5,
		Points:           100,
	},
}
