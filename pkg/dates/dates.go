// Package dates holds calendar-date helpers shared by the tracker and the stats engine.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// Accepted request layouts, tried in order.
var layouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Day truncates t to midnight in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves t by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// IsAfterToday reports whether the calendar date of target is strictly after
// the calendar date of now, both read in target's location.
func IsAfterToday(target, now time.Time) bool {
	return Day(target).After(Day(now.In(target.Location())))
}

// WeekdayAnchor returns the most recent date on or before today that falls on wd.
func WeekdayAnchor(today time.Time, wd time.Weekday) time.Time {
	today = Day(today)
	back := (int(today.Weekday()) - int(wd) + 7) % 7
	return AddDays(today, -back)
}

// Parse reads a date or date-time in loc. Date-only values map to midnight.
func Parse(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", value)
}
