package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fitclub-backend/models"
)

// newTestDB opens an isolated in-memory database with the full schema.
// MaxOpenConns(1) keeps every query on the same sqlite memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.UserProfile{},
		&models.CheckInSession{},
		&models.GamificationStats{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Notification{},
	))
	return db
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, NewAchievementService(db).SeedCatalog())
}

func newGamification(db *gorm.DB) *GamificationService {
	return NewGamificationService(db, nil, nil)
}

func newCheckIn(db *gorm.DB, gamification *GamificationService) *CheckInService {
	return NewCheckInService(db, nil, gamification)
}
