package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitclub-backend/models"
)

func TestLeaderboardOrderingAndRanks(t *testing.T) {
	db := newTestDB(t)
	svc := newGamification(db)

	users := []struct {
		id     string
		name   string
		points int64
	}{
		{"3f1f8d1a-6c7e-4a8e-9a30-00000000000a", "Alice", 50},
		{"3f1f8d1a-6c7e-4a8e-9a30-00000000000b", "Bob", 10},
		{"3f1f8d1a-6c7e-4a8e-9a30-00000000000c", "Carol", 30},
	}
	for _, u := range users {
		require.NoError(t, db.Create(&models.GamificationStats{
			UserID:       u.id,
			CurrentLevel: 1,
			TotalPoints:  u.points,
		}).Error)
		require.NoError(t, db.Create(&models.UserProfile{
			UserID:      u.id,
			DisplayName: u.name,
		}).Error)
	}

	entries, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, []int64{50, 30, 10}, []int64{entries[0].TotalPoints, entries[1].TotalPoints, entries[2].TotalPoints})
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
	assert.Equal(t, "Alice", entries[0].DisplayName)
	assert.Equal(t, "Carol", entries[1].DisplayName)
}

func TestLeaderboardFallsBackToGenericName(t *testing.T) {
	db := newTestDB(t)
	svc := newGamification(db)

	require.NoError(t, db.Create(&models.GamificationStats{
		UserID:       "3f1f8d1a-6c7e-4a8e-9a30-00000000000d",
		CurrentLevel: 1,
		TotalPoints:  5,
	}).Error)

	entries, err := svc.GetLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Member", entries[0].DisplayName, "missing profile must not break the board")
}
