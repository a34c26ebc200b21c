package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fitclub-backend/cache"
	"fitclub-backend/models"
	"fitclub-backend/pkg/logger"
	"fitclub-backend/queue"
	"fitclub-backend/utils"
)

// PointWeights define relative point values per event type (tunable later).
type PointWeights struct {
	CheckInPoints int64
	WorkoutPoints int64
	GoalPoints    int64
}

var DefaultPointWeights = PointWeights{
	CheckInPoints: 10,
	WorkoutPoints: 15,
	GoalPoints:    25,
}

// PointsPerLevel: flat level bands, level 1 starts at 0 points.
const PointsPerLevel = 100

func levelForPoints(points int64) int {
	if points < 0 {
		points = 0
	}
	return int(points/PointsPerLevel) + 1
}

// streakFreezeGrace: how long a freeze suspends expiration before it is
// consumed. A freeze buys exactly one window, never an indefinite pause.
const streakFreezeGrace = 24 * time.Hour

type GamificationService struct {
	DB          *gorm.DB
	Events      queue.EventPublisher
	Leaderboard cache.LeaderboardCache
	Weights     PointWeights
}

func NewGamificationService(db *gorm.DB, events queue.EventPublisher, leaderboard cache.LeaderboardCache) *GamificationService {
	if events == nil {
		events = queue.NoopPublisher{}
	}
	if leaderboard == nil {
		leaderboard = cache.NoopLeaderboardCache{}
	}
	return &GamificationService{DB: db, Events: events, Leaderboard: leaderboard, Weights: DefaultPointWeights}
}

// ensureStatsTx loads the user's stats row, creating it with zeroed defaults
// on first access. Stats-not-found is never an error.
func (s *GamificationService) ensureStatsTx(tx *gorm.DB, userID string) (*models.GamificationStats, error) {
	var stats models.GamificationStats
	err := tx.Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stats = models.GamificationStats{UserID: userID, CurrentLevel: 1}
		if err := tx.Create(&stats).Error; err != nil {
			return nil, fmt.Errorf("failed to create stats record: %w", err)
		}
		return &stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load stats record: %w", err)
	}
	return &stats, nil
}

// refreshWeeklyFreeze clears the once-per-week flag when the stored week
// start no longer matches the current ISO week's Monday.
func (s *GamificationService) refreshWeeklyFreeze(stats *models.GamificationStats, now time.Time) {
	weekStart := utils.StartOfISOWeek(now)
	if stats.StreakFreezeWeekStart == nil || !utils.SameDay(*stats.StreakFreezeWeekStart, weekStart) {
		stats.StreakFreezeUsedThisWeek = false
	}
}

// GetStats returns the user's stats, lazily created on first access.
func (s *GamificationService) GetStats(ctx context.Context, userID string) (*models.GamificationStats, error) {
	var stats *models.GamificationStats
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		stats, err = s.ensureStatsTx(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.refreshWeeklyFreeze(stats, time.Now())
	return stats, nil
}

// RecordCheckIn applies one check-in event to the streak state machine.
// Multiple check-ins on one calendar day count once for streak, workout
// days, and points; only the raw check-in counter moves every time.
func (s *GamificationService) RecordCheckIn(ctx context.Context, userID string, at time.Time) error {
	var newly []models.Achievement

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stats, err := s.ensureStatsTx(tx, userID)
		if err != nil {
			return err
		}
		s.refreshWeeklyFreeze(stats, at)

		stats.TotalCheckins++

		newDay := stats.LastCheckinDate == nil || !utils.SameDay(*stats.LastCheckinDate, at)
		if newDay {
			switch {
			case stats.LastCheckinDate == nil:
				stats.CurrentStreak = 1
			case utils.DayDiff(*stats.LastCheckinDate, at) == 1:
				stats.CurrentStreak++
			default:
				// Gap day: the streak resets unless a freeze is covering it.
				if stats.StreakFrozen {
					stats.CurrentStreak++
				} else {
					stats.CurrentStreak = 1
				}
			}
			// Any new-day check-in consumes an active freeze.
			stats.StreakFrozen = false
			stats.StreakFrozenAt = nil

			if stats.CurrentStreak > stats.LongestStreak {
				stats.LongestStreak = stats.CurrentStreak
			}

			stats.TotalWorkouts++ // check-in path counts unique workout days
			stats.TotalPoints += s.Weights.CheckInPoints
			day := utils.StartOfDay(at)
			stats.LastCheckinDate = &day
		}

		ach := NewAchievementService(tx)
		unlocked, err := ach.UnlockTx(tx, stats, "checkin", stats.TotalCheckins)
		if err != nil {
			return err
		}
		newly = append(newly, unlocked...)
		unlocked, err = ach.UnlockTx(tx, stats, "streak", int64(stats.CurrentStreak))
		if err != nil {
			return err
		}
		newly = append(newly, unlocked...)

		stats.CurrentLevel = levelForPoints(stats.TotalPoints)
		return tx.Save(stats).Error
	})
	if err != nil {
		return err
	}

	s.publishUnlocks(ctx, userID, newly)
	return nil
}

// RecordWorkout applies one explicit workout event: counter, points, and
// achievement check. Kept per-event, unlike the check-in path which counts
// distinct days (known inconsistency carried over on purpose).
func (s *GamificationService) RecordWorkout(ctx context.Context, userID string) (*models.GamificationStats, error) {
	return s.recordCounterEvent(ctx, userID, "workout", s.Weights.WorkoutPoints, func(stats *models.GamificationStats) int64 {
		stats.TotalWorkouts++
		return stats.TotalWorkouts
	})
}

// RecordGoalAchieved applies one achieved-goal event.
func (s *GamificationService) RecordGoalAchieved(ctx context.Context, userID string) (*models.GamificationStats, error) {
	return s.recordCounterEvent(ctx, userID, "goal", s.Weights.GoalPoints, func(stats *models.GamificationStats) int64 {
		stats.TotalGoalsAchieved++
		return stats.TotalGoalsAchieved
	})
}

func (s *GamificationService) recordCounterEvent(
	ctx context.Context,
	userID, action string,
	points int64,
	bump func(*models.GamificationStats) int64,
) (*models.GamificationStats, error) {
	var stats *models.GamificationStats
	var newly []models.Achievement

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		stats, err = s.ensureStatsTx(tx, userID)
		if err != nil {
			return err
		}
		value := bump(stats)
		stats.TotalPoints += points

		unlocked, err := NewAchievementService(tx).UnlockTx(tx, stats, action, value)
		if err != nil {
			return err
		}
		newly = unlocked

		stats.CurrentLevel = levelForPoints(stats.TotalPoints)
		return tx.Save(stats).Error
	})
	if err != nil {
		return nil, err
	}

	s.publishUnlocks(ctx, userID, newly)
	return stats, nil
}

// CheckAndUnlockAchievements evaluates the catalog for one triggering event
// and reports only achievements unlocked by this call.
func (s *GamificationService) CheckAndUnlockAchievements(ctx context.Context, userID, action string, value int64) ([]models.Achievement, error) {
	var newly []models.Achievement
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stats, err := s.ensureStatsTx(tx, userID)
		if err != nil {
			return err
		}
		newly, err = NewAchievementService(tx).UnlockTx(tx, stats, action, value)
		if err != nil {
			return err
		}
		stats.CurrentLevel = levelForPoints(stats.TotalPoints)
		return tx.Save(stats).Error
	})
	if err != nil {
		return nil, err
	}

	s.publishUnlocks(ctx, userID, newly)
	return newly, nil
}

// FreezeStreak suspends streak expiration once per ISO week (Monday start).
func (s *GamificationService) FreezeStreak(ctx context.Context, userID string) (*models.GamificationStats, error) {
	now := time.Now()
	var stats *models.GamificationStats

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		stats, err = s.ensureStatsTx(tx, userID)
		if err != nil {
			return err
		}
		s.refreshWeeklyFreeze(stats, now)

		if stats.CurrentStreak <= 0 {
			return ErrNoStreakToFreeze
		}
		if stats.StreakFreezeUsedThisWeek {
			return ErrStreakFreezeUsed
		}

		weekStart := utils.StartOfISOWeek(now)
		stats.StreakFrozen = true
		stats.StreakFrozenAt = &now
		stats.StreakFreezeUsedThisWeek = true
		stats.StreakFreezeWeekStart = &weekStart
		return tx.Save(stats).Error
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, models.GamificationEvent{
		Type:       models.NotificationStreakFrozen,
		UserID:     userID,
		Title:      "Streak frozen",
		Body:       fmt.Sprintf("Your %d-day streak is protected for the next 24 hours.", stats.CurrentStreak),
		OccurredAt: now,
	})
	return stats, nil
}

// CheckStreakExpiration sweeps every user with a live streak. Frozen streaks
// first get their freeze consumed once it has lasted the full grace window,
// then face the same expiration check as everyone else. A freeze grants
// exactly one missed day, not an indefinite pause.
func (s *GamificationService) CheckStreakExpiration(ctx context.Context) (int, error) {
	now := time.Now()

	var candidates []models.GamificationStats
	if err := s.DB.WithContext(ctx).
		Where("current_streak > 0").
		Find(&candidates).Error; err != nil {
		return 0, fmt.Errorf("failed to load streak candidates: %w", err)
	}

	expired := 0
	for i := range candidates {
		stats := &candidates[i]

		unfroze := false
		if stats.StreakFrozen {
			// A frozen row without a timestamp is drifted data; treat that
			// freeze as already elapsed rather than honoring it forever.
			if stats.StreakFrozenAt != nil && now.Sub(*stats.StreakFrozenAt) < streakFreezeGrace {
				continue // freeze still active
			}
			stats.StreakFrozen = false
			stats.StreakFrozenAt = nil
			unfroze = true
		}

		if !streakExpired(stats, now) {
			// Only rows the sweep actually changed get written back.
			if unfroze {
				if err := s.DB.WithContext(ctx).Save(stats).Error; err != nil {
					logger.Logger.Error("failed to persist unfreeze",
						zap.String("user_id", stats.UserID), zap.Error(err))
				}
			}
			continue
		}

		lost := stats.CurrentStreak
		stats.CurrentStreak = 0
		if err := s.DB.WithContext(ctx).Save(stats).Error; err != nil {
			logger.Logger.Error("failed to expire streak",
				zap.String("user_id", stats.UserID), zap.Error(err))
			continue
		}
		expired++

		s.publishEvent(ctx, models.GamificationEvent{
			Type:       models.NotificationStreakExpired,
			UserID:     stats.UserID,
			Title:      "Streak lost",
			Body:       fmt.Sprintf("Your %d-day streak has expired. Check in today to start a new one!", lost),
			OccurredAt: now,
		})
	}

	if expired > 0 {
		logger.Logger.Info("streak expiration sweep finished",
			zap.Int("candidates", len(candidates)), zap.Int("expired", expired))
	}
	return expired, nil
}

// streakExpired: LastCheckinDate is stored as midnight of the check-in day,
// so 48h from it means the entire following day passed without a check-in.
func streakExpired(stats *models.GamificationStats, now time.Time) bool {
	if stats.LastCheckinDate == nil {
		return false
	}
	return now.Sub(utils.StartOfDay(*stats.LastCheckinDate)) >= 48*time.Hour
}

// GrantPoints adds points directly (admin flow) and recomputes the level.
func (s *GamificationService) GrantPoints(ctx context.Context, userID string, points int64, reason string) (*models.GamificationStats, error) {
	var stats *models.GamificationStats
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		stats, err = s.ensureStatsTx(tx, userID)
		if err != nil {
			return err
		}
		stats.TotalPoints += points
		stats.CurrentLevel = levelForPoints(stats.TotalPoints)
		return tx.Save(stats).Error
	})
	if err != nil {
		return nil, err
	}
	logger.Logger.Info("points granted",
		zap.String("user_id", userID), zap.Int64("points", points), zap.String("reason", reason))
	return stats, nil
}

func (s *GamificationService) publishUnlocks(ctx context.Context, userID string, unlocked []models.Achievement) {
	for _, ach := range unlocked {
		s.publishEvent(ctx, models.GamificationEvent{
			Type:       models.NotificationAchievementUnlocked,
			UserID:     userID,
			Title:      "Achievement unlocked",
			Body:       fmt.Sprintf("You earned \"%s\" (+%d points)!", ach.Name, ach.Points),
			OccurredAt: time.Now(),
		})
	}
}

func (s *GamificationService) publishEvent(ctx context.Context, event models.GamificationEvent) {
	if err := s.Events.PublishGamificationEvent(ctx, event); err != nil {
		logger.Logger.Error("failed to publish gamification event",
			zap.String("type", string(event.Type)), zap.String("user_id", event.UserID), zap.Error(err))
	}
}
