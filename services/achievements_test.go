package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitclub-backend/models"
)

const achUser = "3f1f8d1a-6c7e-4a8e-9a30-000000000003"

func TestUnlockReportedOnlyOnce(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	svc := newGamification(db)
	ctx := context.Background()

	newly, err := svc.CheckAndUnlockAchievements(ctx, achUser, "checkin", 1)
	require.NoError(t, err)
	require.Len(t, newly, 1)
	assert.Equal(t, "FIRST_CHECKIN", newly[0].Code)

	newly, err = svc.CheckAndUnlockAchievements(ctx, achUser, "checkin", 1)
	require.NoError(t, err)
	assert.Empty(t, newly, "second qualifying event must not re-report the unlock")

	var rows int64
	require.NoError(t, db.Model(&models.UserAchievement{}).
		Where("user_id = ?", achUser).Count(&rows).Error)
	assert.Equal(t, int64(1), rows, "unique constraint keeps a single unlock row")

	stats := getStats(t, svc, achUser)
	assert.Equal(t, int64(1), stats.AchievementsUnlocked)
	assert.Equal(t, int64(10), stats.TotalPoints, "achievement points credited exactly once")
}

func TestUnlockMatchesRequirementType(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	svc := newGamification(db)
	ctx := context.Background()

	// A streak of 7 satisfies STREAK_7 but must not touch count achievements.
	newly, err := svc.CheckAndUnlockAchievements(ctx, achUser, "streak", 7)
	require.NoError(t, err)
	require.Len(t, newly, 1)
	assert.Equal(t, "STREAK_7", newly[0].Code)

	// Goal progress below threshold unlocks nothing.
	newly, err = svc.CheckAndUnlockAchievements(ctx, achUser, "goal", 4)
	require.NoError(t, err)
	assert.Empty(t, newly)
}

func TestCheckInEventUnlocksFirstCheckin(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	gam := newGamification(db)
	svc := newCheckIn(db, gam)

	_, err := svc.CheckIn(context.Background(), achUser)
	require.NoError(t, err)

	stats := getStats(t, gam, achUser)
	assert.Equal(t, int64(1), stats.AchievementsUnlocked)
	// Check-in points plus the FIRST_CHECKIN bonus.
	assert.Equal(t, DefaultPointWeights.CheckInPoints+10, stats.TotalPoints)
}

func TestListWithStatus(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	gam := newGamification(db)
	ach := NewAchievementService(db)
	ctx := context.Background()

	_, err := gam.CheckAndUnlockAchievements(ctx, achUser, "checkin", 1)
	require.NoError(t, err)

	list, err := ach.ListWithStatus(ctx, achUser)
	require.NoError(t, err)
	require.Len(t, list, len(models.SeedAchievements))

	unlocked := 0
	for _, entry := range list {
		if entry.Unlocked {
			unlocked++
			assert.NotNil(t, entry.UnlockedAt)
		}
	}
	assert.Equal(t, 1, unlocked)
}

func TestCreateSlugifiesCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewAchievementService(db)
	ctx := context.Background()

	ach, err := svc.Create(ctx, CreateAchievementInput{
		Name:             "Early Bird Special",
		Category:         "checkin",
		RequirementType:  models.RequirementCount,
		RequirementValue: 5,
		Points:           20,
	})
	require.NoError(t, err)
	assert.Equal(t, "EARLY_BIRD_SPECIAL", ach.Code)

	_, err = svc.Create(ctx, CreateAchievementInput{
		Name:             "Early Bird Special",
		Category:         "checkin",
		RequirementType:  models.RequirementCount,
		RequirementValue: 10,
	})
	assert.ErrorIs(t, err, ErrAchievementExists)
}
