// workers/notification_worker.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fitclub-backend/models"
	"fitclub-backend/pkg/logger"
	"fitclub-backend/queue"
)

// NotificationWorker drains gamification events off RabbitMQ and persists
// them as in-app notification rows. Push delivery is out of scope; rows are
// what the notification screens read.
type NotificationWorker struct {
	db *gorm.DB
}

func NewNotificationWorker(db *gorm.DB) *NotificationWorker {
	return &NotificationWorker{db: db}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	logger.Logger.Info("starting notification worker")

	for {
		err := queue.Consume(ctx, queue.ConsumeOptions{
			Queue:         queue.GamificationQueue,
			ConsumerTag:   "notification-worker",
			PrefetchCount: 16,
			Handler:       w.handle,
		})
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			logger.Logger.Info("notification worker stopped")
			return
		}
		if err != nil {
			logger.Logger.Error("notification consumer exited, retrying", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			logger.Logger.Info("notification worker stopped")
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (w *NotificationWorker) handle(body []byte) error {
	var event models.GamificationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		// Malformed payloads can never succeed; log and drop instead of
		// requeueing them forever.
		logger.Logger.Error("dropping malformed gamification event", zap.Error(err))
		return nil
	}
	if event.UserID == "" {
		logger.Logger.Warn("dropping gamification event without user id")
		return nil
	}

	notification := models.Notification{
		UserID: event.UserID,
		Type:   event.Type,
		Title:  event.Title,
		Body:   event.Body,
	}
	if err := w.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}
	return nil
}
