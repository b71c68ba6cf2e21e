package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// WorkingHours is one recurring availability window of a provider.
// Weekday is Monday-based: 0 = Monday ... 6 = Sunday.
// StartTime and EndTime are wall-clock times in "15:04" form.
type WorkingHours struct {
	ID         int64  `json:"id" gorm:"primaryKey"`
	ProviderID int64  `json:"provider_id" gorm:"not null;index"`
	Weekday    int    `json:"weekday" gorm:"not null;check:weekday BETWEEN 0 AND 6"`
	StartTime  string `json:"start_time" gorm:"size:8;not null"`
	EndTime    string `json:"end_time" gorm:"size:8;not null"`
}

func (WorkingHours) TableName() string { return "provider_working_hours" }

// TimeWindow is a window within a day, expressed as offsets from midnight.
type TimeWindow struct {
	Start time.Duration
	End   time.Duration
}

// On anchors the window to the calendar day of date, in date's location.
func (w TimeWindow) On(date time.Time) Interval {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	return Interval{Start: addClock(midnight, w.Start), End: addClock(midnight, w.End)}
}

// addClock adds a wall-clock offset, so 09:00 stays 09:00 on DST change days.
func addClock(midnight time.Time, offset time.Duration) time.Time {
	h := int(offset / time.Hour)
	m := int((offset % time.Hour) / time.Minute)
	s := int((offset % time.Minute) / time.Second)
	y, mo, d := midnight.Date()
	return time.Date(y, mo, d, h, m, s, 0, midnight.Location())
}

// WeeklySchedule maps a Monday-based weekday index to that day's windows.
type WeeklySchedule [7][]TimeWindow

func (s WeeklySchedule) IsEmpty() bool {
	for _, windows := range s {
		if len(windows) > 0 {
			return false
		}
	}
	return true
}

// For returns the windows configured for date's weekday.
func (s WeeklySchedule) For(date time.Time) []TimeWindow {
	return s[WeekdayIndex(date)]
}

// BuildWeeklySchedule groups rows by weekday, each day ordered by start time.
func BuildWeeklySchedule(rows []WorkingHours) (WeeklySchedule, error) {
	var s WeeklySchedule
	for _, row := range rows {
		if row.Weekday < 0 || row.Weekday > 6 {
			return s, fmt.Errorf("working hours %d: weekday %d out of range", row.ID, row.Weekday)
		}
		start, err := ParseTimeOfDay(row.StartTime)
		if err != nil {
			return s, fmt.Errorf("working hours %d: %w", row.ID, err)
		}
		end, err := ParseTimeOfDay(row.EndTime)
		if err != nil {
			return s, fmt.Errorf("working hours %d: %w", row.ID, err)
		}
		s[row.Weekday] = append(s[row.Weekday], TimeWindow{Start: start, End: end})
	}
	for i := range s {
		sort.SliceStable(s[i], func(a, b int) bool { return s[i][a].Start < s[i][b].Start })
	}
	return s, nil
}

// WeekdayIndex converts Go's Sunday-based weekday to the Monday-based index.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ParseTimeOfDay accepts "15:04" or "15:04:05" and returns the offset from midnight.
func ParseTimeOfDay(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	layout := "15:04"
	if strings.Count(v, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, v)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", v)
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}
