package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayIndexIsMondayBased(t *testing.T) {
	monday := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, WeekdayIndex(monday))
	assert.Equal(t, 6, WeekdayIndex(monday.AddDate(0, 0, 6)))
}

func TestParseTimeOfDay(t *testing.T) {
	d, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9*time.Hour+30*time.Minute, d)

	d, err = ParseTimeOfDay("17:00:15")
	require.NoError(t, err)
	assert.Equal(t, 17*time.Hour+15*time.Second, d)

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}

func TestBuildWeeklySchedule(t *testing.T) {
	s, err := BuildWeeklySchedule([]WorkingHours{
		{Weekday: 2, StartTime: "14:00", EndTime: "18:00"},
		{Weekday: 2, StartTime: "08:00", EndTime: "12:00"},
	})
	require.NoError(t, err)
	require.Len(t, s[2], 2)
	assert.Equal(t, 8*time.Hour, s[2][0].Start)
	assert.False(t, s.IsEmpty())

	_, err = BuildWeeklySchedule([]WorkingHours{{Weekday: 7, StartTime: "08:00", EndTime: "09:00"}})
	assert.Error(t, err)
}

func TestTimeWindowOnKeepsWallClockAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 2025-03-30 is the spring-forward Sunday in Berlin.
	day := time.Date(2025, 3, 30, 0, 0, 0, 0, loc)
	iv := TimeWindow{Start: 9 * time.Hour, End: 10 * time.Hour}.On(day)

	assert.Equal(t, 9, iv.Start.Hour())
	assert.Equal(t, time.Hour, iv.End.Sub(iv.Start))
}
