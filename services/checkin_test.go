package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitclub-backend/models"
	"fitclub-backend/utils"
)

const testUser = "3f1f8d1a-6c7e-4a8e-9a30-000000000001"

func countOpenSessions(t *testing.T, svc *CheckInService, userID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, svc.DB.Model(&models.CheckInSession{}).
		Where("user_id = ? AND is_checked_in = ? AND check_out_time IS NULL", userID, true).
		Count(&n).Error)
	return n
}

func TestCheckInCreatesOpenSession(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckIn(db, nil)
	ctx := context.Background()

	session, err := svc.CheckIn(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, session.IsCheckedIn)
	assert.Nil(t, session.CheckOutTime)
	assert.Equal(t, models.UserTypeMember, session.UserType)
	assert.Equal(t, int64(1), countOpenSessions(t, svc, testUser))
}

func TestCheckInRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckIn(db, nil)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, testUser)
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, testUser)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
	assert.Equal(t, int64(1), countOpenSessions(t, svc, testUser))
}

func TestCheckInClassifiesTrainer(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.UserProfile{
		UserID:      testUser,
		DisplayName: "Coach Sam",
		UserType:    models.UserTypeTrainer,
	}).Error)

	svc := newCheckIn(db, nil)
	session, err := svc.CheckIn(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeTrainer, session.UserType)
	assert.Equal(t, "Trainer working session", session.CheckInReason)
}

func TestCheckInRepairsStaleOpenRow(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckIn(db, nil)
	ctx := context.Background()

	// Drifted row: still open but older than the 24h window.
	stale := models.CheckInSession{
		UserID:      testUser,
		UserType:    models.UserTypeMember,
		CheckInTime: time.Now().Add(-26 * time.Hour),
		IsCheckedIn: true,
	}
	require.NoError(t, db.Create(&stale).Error)

	session, err := svc.CheckIn(ctx, testUser)
	require.NoError(t, err)
	assert.NotEqual(t, stale.ID, session.ID)
	assert.Equal(t, int64(1), countOpenSessions(t, svc, testUser))

	var repaired models.CheckInSession
	require.NoError(t, db.First(&repaired, "id = ?", stale.ID).Error)
	assert.False(t, repaired.IsCheckedIn)
	assert.NotNil(t, repaired.CheckOutTime)
}

func TestAtMostOneOpenSessionAcrossSequence(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckIn(db, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.CheckIn(ctx, testUser)
		require.NoError(t, err)
		assert.LessOrEqual(t, countOpenSessions(t, svc, testUser), int64(1))

		_, err = svc.CheckOut(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, int64(0), countOpenSessions(t, svc, testUser))
	}

	var total int64
	require.NoError(t, db.Model(&models.CheckInSession{}).Where("user_id = ?", testUser).Count(&total).Error)
	assert.Equal(t, int64(3), total, "history is retained, never hard-deleted")
}

func TestCheckOutWithoutActiveSession(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckIn(db, nil)

	_, err := svc.CheckOut(context.Background(), testUser)
	assert.ErrorIs(t, err, ErrNoActiveCheckIn)
}

func TestCheckOutDurationFloorsWholeMinutes(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckIn(db, nil)

	session := models.CheckInSession{
		UserID:      testUser,
		UserType:    models.UserTypeMember,
		CheckInTime: time.Now().Add(-(47*time.Minute + 30*time.Second)),
		IsCheckedIn: true,
	}
	require.NoError(t, db.Create(&session).Error)

	closed, err := svc.CheckOut(context.Background(), testUser)
	require.NoError(t, err)
	require.NotNil(t, closed.CheckOutTime)
	assert.Equal(t, 47, closed.DurationMinutes(*closed.CheckOutTime))
}

func TestGetStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckIn(db, nil)
	ctx := context.Background()

	status, err := svc.GetStatus(ctx, testUser)
	require.NoError(t, err)
	assert.False(t, status.HasRecord)
	assert.False(t, status.IsCheckedIn)

	_, err = svc.CheckIn(ctx, testUser)
	require.NoError(t, err)

	status, err = svc.GetStatus(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, status.HasRecord)
	assert.True(t, status.IsCheckedIn)
	require.NotNil(t, status.Session)

	_, err = svc.CheckOut(ctx, testUser)
	require.NoError(t, err)

	status, err = svc.GetStatus(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, status.HasRecord)
	assert.False(t, status.IsCheckedIn, "historical session reports checked out")
}

func TestGetStatusReportsZeroDurationForStaleOpenRow(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckIn(db, nil)

	// Open row past the 24h window: reported as historical with no live,
	// ever-growing duration.
	require.NoError(t, db.Create(&models.CheckInSession{
		UserID:      testUser,
		UserType:    models.UserTypeMember,
		CheckInTime: time.Now().Add(-26 * time.Hour),
		IsCheckedIn: true,
	}).Error)

	status, err := svc.GetStatus(context.Background(), testUser)
	require.NoError(t, err)
	assert.True(t, status.HasRecord)
	assert.False(t, status.IsCheckedIn)
	assert.Equal(t, 0, status.DurationMinutes)
}

func TestGetWorkoutDaysCountsDistinctDates(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckIn(db, nil)

	start, _ := utils.MonthBounds(time.Now())
	// Two sessions on the first day of the month, one on the second: 2 days.
	for _, at := range []time.Time{
		start.Add(8 * time.Hour),
		start.Add(18 * time.Hour),
		start.Add(32 * time.Hour),
	} {
		out := at.Add(time.Hour)
		require.NoError(t, db.Create(&models.CheckInSession{
			UserID:       testUser,
			UserType:     models.UserTypeMember,
			CheckInTime:  at,
			CheckOutTime: &out,
		}).Error)
	}

	days, err := svc.GetWorkoutDaysThisMonth(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, int64(2), days)
}

func TestCheckInFeedsGamification(t *testing.T) {
	db := newTestDB(t)
	gam := newGamification(db)
	svc := newCheckIn(db, gam)

	_, err := svc.CheckIn(context.Background(), testUser)
	require.NoError(t, err)

	stats, err := gam.GetStats(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalCheckins)
	assert.Equal(t, 1, stats.CurrentStreak)
}
