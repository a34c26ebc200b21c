package models

import (
	"time"
)

// GamificationStats aggregates per-user progress (denormalized for performance).
// Invariant: LongestStreak >= CurrentStreak after every update.
type GamificationStats struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`

	TotalPoints  int64 `json:"total_points" gorm:"default:0"`
	CurrentLevel int   `json:"current_level" gorm:"default:1"`

	CurrentStreak int `json:"current_streak" gorm:"default:0"`
	LongestStreak int `json:"longest_streak" gorm:"default:0"`

	// Activity counters
	TotalWorkouts        int64 `json:"total_workouts" gorm:"default:0"`
	TotalCheckins        int64 `json:"total_checkins" gorm:"default:0"`
	TotalGoalsAchieved   int64 `json:"total_goals_achieved" gorm:"default:0"`
	AchievementsUnlocked int64 `json:"achievements_unlocked" gorm:"default:0"`
	ChallengesCompleted  int64 `json:"challenges_completed" gorm:"default:0"`

	// Streak-freeze bookkeeping. The weekly flag resets whenever the stored
	// week-start no longer matches the current ISO week's Monday.
	StreakFrozen             bool       `json:"streak_frozen" gorm:"default:false"`
	StreakFrozenAt           *time.Time `json:"streak_frozen_at,omitempty"`
	StreakFreezeUsedThisWeek bool       `json:"streak_freeze_used_this_week" gorm:"default:false"`
	StreakFreezeWeekStart    *time.Time `json:"streak_freeze_week_start,omitempty" gorm:"type:date"`

	LastCheckinDate *time.Time `json:"last_checkin_date,omitempty" gorm:"type:date"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (GamificationStats) TableName() string { return "user_gamification_stats" }

// LeaderboardEntry is derived at read time, never stored.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	TotalPoints int64  `json:"total_points"`
	Level       int    `json:"current_level"`
	Streak      int    `json:"current_streak"`
}
