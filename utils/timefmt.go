package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ClockLayout is the display format for slot times, e.g. "9:00 AM".
const ClockLayout = "3:04 PM"

// FormatMinutes renders minutes-from-midnight as a display clock string.
func FormatMinutes(min int) string {
	t := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(min) * time.Minute)
	return t.Format(ClockLayout)
}

// ParseDate parses a "2006-01-02" civil date at midnight in the given zone.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// MinutesOfDay returns how many minutes past local midnight the instant is.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// AtMinutes returns the instant min minutes past midnight on the given day.
func AtMinutes(dayMidnight time.Time, min int) time.Time {
	return dayMidnight.Add(time.Duration(min) * time.Minute)
}
