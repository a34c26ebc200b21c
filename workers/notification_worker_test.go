package workers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fitclub-backend/models"
)

func newWorkerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Notification{}))
	return db
}

func TestHandlePersistsNotification(t *testing.T) {
	db := newWorkerDB(t)
	w := NewNotificationWorker(db)

	body, err := json.Marshal(models.GamificationEvent{
		Type:       models.NotificationAchievementUnlocked,
		UserID:     "3f1f8d1a-6c7e-4a8e-9a30-000000000005",
		Title:      "Achievement unlocked",
		Body:       "You earned \"First Steps\" (+10 points)!",
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, w.handle(body))

	var saved models.Notification
	require.NoError(t, db.First(&saved).Error)
	assert.Equal(t, models.NotificationAchievementUnlocked, saved.Type)
	assert.False(t, saved.Read)
}

func TestHandleDropsMalformedPayload(t *testing.T) {
	db := newWorkerDB(t)
	w := NewNotificationWorker(db)

	assert.NoError(t, w.handle([]byte("{not json")), "malformed payloads are dropped, not requeued")
	assert.NoError(t, w.handle([]byte(`{"title":"no user"}`)))

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}
