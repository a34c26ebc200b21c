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
	"fitclub-backend/utils"
)

// staleSessionAge: open rows older than this are treated as data drift
// (crash, lost checkout) and force-closed by the next check-in.
const staleSessionAge = 24 * time.Hour

const checkInLockTTL = 5 * time.Second

type CheckInService struct {
	DB           *gorm.DB
	Locks        cache.Locker
	Gamification *GamificationService
}

func NewCheckInService(db *gorm.DB, locks cache.Locker, gamification *GamificationService) *CheckInService {
	if locks == nil {
		locks = cache.NoopLocker{}
	}
	return &CheckInService{DB: db, Locks: locks, Gamification: gamification}
}

// CheckIn opens a new attendance session for the user. At most one open
// session may exist per user; a fresh open session fails with
// ErrAlreadyCheckedIn, while stale open rows are force-closed first.
// The whole sequence runs in one transaction and the partial unique index
// on gym_checkins backs the invariant under concurrent requests.
func (s *CheckInService) CheckIn(ctx context.Context, userID string) (*models.CheckInSession, error) {
	ok, err := s.Locks.TryLock(ctx, "checkin:"+userID, checkInLockTTL)
	if err != nil {
		logger.Logger.Warn("check-in lock unavailable, proceeding on DB constraint",
			zap.String("user_id", userID), zap.Error(err))
	} else if !ok {
		return nil, ErrAlreadyCheckedIn
	} else {
		defer func() { _ = s.Locks.Unlock(ctx, "checkin:"+userID) }()
	}

	now := time.Now()
	var session *models.CheckInSession

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CheckInSession
		err := tx.Where("user_id = ? AND is_checked_in = ? AND check_out_time IS NULL AND check_in_time >= ?",
			userID, true, now.Add(-staleSessionAge)).
			First(&existing).Error
		if err == nil {
			return ErrAlreadyCheckedIn
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to query active session: %w", err)
		}

		userType, reason := s.classifyUser(tx, userID)

		// Force-close anything still marked open. Runs unconditionally before
		// the insert so drifted rows can never violate the open-row index.
		if err := tx.Model(&models.CheckInSession{}).
			Where("user_id = ? AND is_checked_in = ?", userID, true).
			Updates(map[string]interface{}{"is_checked_in": false, "check_out_time": now}).Error; err != nil {
			return fmt.Errorf("failed to close stale sessions: %w", err)
		}

		session = &models.CheckInSession{
			UserID:        userID,
			UserType:      userType,
			CheckInTime:   now,
			IsCheckedIn:   true,
			CheckInReason: reason,
		}
		if err := tx.Create(session).Error; err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.Gamification != nil {
		// Streak/points failures never fail an otherwise valid check-in.
		if err := s.Gamification.RecordCheckIn(ctx, userID, now); err != nil {
			logger.Logger.Error("failed to record check-in in gamification",
				zap.String("user_id", userID), zap.Error(err))
		}
	}

	return session, nil
}

// classifyUser looks up the profile to tell members from trainers. A missing
// or failed lookup falls back to member, never to an error.
func (s *CheckInService) classifyUser(tx *gorm.DB, userID string) (models.UserType, string) {
	var profile models.UserProfile
	if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Logger.Warn("profile lookup failed, defaulting to member",
				zap.String("user_id", userID), zap.Error(err))
		}
		return models.UserTypeMember, "Member gym session"
	}
	if profile.UserType == models.UserTypeTrainer {
		return models.UserTypeTrainer, "Trainer working session"
	}
	return models.UserTypeMember, "Member gym session"
}

// CheckOut closes the most recent open session. The update targets the row
// by id rather than by a blanket user filter, so a row created concurrently
// by the check-in cleanup path can never be closed by accident.
func (s *CheckInService) CheckOut(ctx context.Context, userID string) (*models.CheckInSession, error) {
	var session models.CheckInSession

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND is_checked_in = ?", userID, true).
			Order("created_at DESC").
			First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoActiveCheckIn
		}
		if err != nil {
			return fmt.Errorf("failed to query active session: %w", err)
		}

		now := time.Now()
		if err := tx.Model(&models.CheckInSession{}).
			Where("id = ?", session.ID).
			Updates(map[string]interface{}{"is_checked_in": false, "check_out_time": now}).Error; err != nil {
			return fmt.Errorf("failed to close session: %w", err)
		}
		session.IsCheckedIn = false
		session.CheckOutTime = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetStatus returns the active session with a live duration, or the most
// recent historical session, or an empty no-record status.
func (s *CheckInService) GetStatus(ctx context.Context, userID string) (*models.CheckInStatus, error) {
	now := time.Now()

	var active models.CheckInSession
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND is_checked_in = ? AND check_out_time IS NULL AND check_in_time >= ?",
			userID, true, now.Add(-staleSessionAge)).
		First(&active).Error
	if err == nil {
		return &models.CheckInStatus{
			HasRecord:       true,
			IsCheckedIn:     true,
			Session:         &active,
			DurationMinutes: active.DurationMinutes(now),
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to query active session: %w", err)
	}

	var last models.CheckInSession
	err = s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.CheckInStatus{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session history: %w", err)
	}

	// Historical durations come from stored times only. A stale open row has
	// no checkout time, so it reports zero rather than a still-growing value.
	duration := 0
	if last.CheckOutTime != nil {
		duration = last.DurationMinutes(*last.CheckOutTime)
	}

	last.IsCheckedIn = false
	return &models.CheckInStatus{
		HasRecord:       true,
		IsCheckedIn:     false,
		Session:         &last,
		DurationMinutes: duration,
	}, nil
}

// GetWorkoutDaysThisMonth counts distinct calendar dates with at least one
// check-in during the current month, not raw row count.
func (s *CheckInService) GetWorkoutDaysThisMonth(ctx context.Context, userID string) (int64, error) {
	start, end := utils.MonthBounds(time.Now())

	var days int64
	err := s.DB.WithContext(ctx).Model(&models.CheckInSession{}).
		Where("user_id = ? AND check_in_time >= ? AND check_in_time < ?", userID, start, end).
		Select("COUNT(DISTINCT date(check_in_time))").
		Scan(&days).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count workout days: %w", err)
	}
	return days, nil
}
