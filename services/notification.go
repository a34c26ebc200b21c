package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fitclub-backend/config"
	"fitclub-backend/models"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var notifications []models.Notification
	if err := q.Order("created_at DESC").Limit(100).Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flags one notification as read; scoped to the caller so a user
// can never touch someone else's rows.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	now := time.Now()
	res := s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"read": true, "read_at": now})
	if res.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CleanupExpired deletes read notifications past the retention window.
// Invoked by the periodic sweep, not self-scheduled.
func (s *NotificationService) CleanupExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -config.Cfg.NotificationRetentionDays)
	res := s.DB.WithContext(ctx).
		Where("read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clean up notifications: %w", res.Error)
	}
	return res.RowsAffected, nil
}
