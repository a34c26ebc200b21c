package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSameDayAcrossMidnight(t *testing.T) {
	late := time.Date(2026, 8, 26, 23, 59, 0, 0, time.UTC)
	early := time.Date(2026, 8, 27, 0, 1, 0, 0, time.UTC)

	assert.False(t, SameDay(late, early))
	assert.True(t, SameDay(late, late.Add(-12*time.Hour)))
}

func TestDayDiffUsesCalendarDates(t *testing.T) {
	late := time.Date(2026, 8, 26, 23, 59, 0, 0, time.UTC)
	early := time.Date(2026, 8, 27, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, 1, DayDiff(late, early), "two minutes apart but on different dates")
	assert.Equal(t, 0, DayDiff(early, early.Add(20*time.Hour)))
	assert.Equal(t, 3, DayDiff(late, late.AddDate(0, 0, 3)))
}

func TestStartOfISOWeek(t *testing.T) {
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	wednesday := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, monday, StartOfISOWeek(wednesday))

	sunday := time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, StartOfISOWeek(sunday), "Sunday belongs to the week started the previous Monday")

	assert.Equal(t, monday, StartOfISOWeek(monday))
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), end)
}
