// services/scheduler.go
package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"fitclub-backend/config"
	"fitclub-backend/pkg/logger"
)

// StartSweeps wires the periodic jobs: the streak-expiration sweep and the
// notification cleanup. Both are externally triggered by the scheduler;
// the services themselves never self-schedule.
func StartSweeps(gamification *GamificationService, notifications *NotificationService) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(time.Duration(config.Cfg.StreakSweepMinutes)*time.Minute),
		gocron.NewTask(func() {
			expired, err := gamification.CheckStreakExpiration(context.Background())
			if err != nil {
				logger.Logger.Error("streak expiration sweep failed", zap.Error(err))
				return
			}
			logger.Logger.Debug("streak expiration sweep ran", zap.Int("expired", expired))
		}),
	)
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(time.Duration(config.Cfg.NotificationSweepHours)*time.Hour),
		gocron.NewTask(func() {
			deleted, err := notifications.CleanupExpired(context.Background())
			if err != nil {
				logger.Logger.Error("notification cleanup sweep failed", zap.Error(err))
				return
			}
			if deleted > 0 {
				logger.Logger.Info("notification cleanup sweep ran", zap.Int64("deleted", deleted))
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}
