package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fitclub-backend/config"
	"fitclub-backend/models"
)

const notifUser = "3f1f8d1a-6c7e-4a8e-9a30-000000000004"

func TestMarkReadScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	ctx := context.Background()

	n := models.Notification{
		UserID: notifUser,
		Type:   models.NotificationAchievementUnlocked,
		Title:  "Achievement unlocked",
	}
	require.NoError(t, db.Create(&n).Error)

	err := svc.MarkRead(ctx, "someone-else", n.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, svc.MarkRead(ctx, notifUser, n.ID))

	list, err := svc.List(ctx, notifUser, true)
	require.NoError(t, err)
	assert.Empty(t, list, "unread filter excludes read notifications")
}

func TestCleanupDeletesOldReadNotifications(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	config.Cfg.NotificationRetentionDays = 30

	old := models.Notification{
		UserID: notifUser,
		Type:   models.NotificationStreakExpired,
		Title:  "Streak lost",
		Read:   true,
	}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Model(&models.Notification{}).
		Where("id = ?", old.ID).
		Update("created_at", time.Now().AddDate(0, 0, -40)).Error)

	fresh := models.Notification{
		UserID: notifUser,
		Type:   models.NotificationStreakExpired,
		Title:  "Streak lost",
		Read:   true,
	}
	require.NoError(t, db.Create(&fresh).Error)

	deleted, err := svc.CleanupExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}
