// Time helpers.
package timeutils

import "time"

// Returns the time n calendar months before t.
//
// Unlike t.AddDate(0, -n, 0), the day of month is clamped to the last day of
// the target month instead of overflowing into the next one, so Aug 31 minus
// six months is Feb 28 (or 29), not Mar 3.
func MonthsBefore(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	// Normalize month arithmetic using the first of the month, which never
	// overflows
	first := time.Date(year, month-time.Month(n), 1, 0, 0, 0, 0, t.Location())
	targetYear, targetMonth, _ := first.Date()

	lastDay := DaysIn(targetYear, targetMonth, t.Location())
	if day > lastDay {
		day = lastDay
	}

	return time.Date(
		targetYear,
		targetMonth,
		day,
		hour,
		min,
		sec,
		t.Nanosecond(),
		t.Location(),
	)
}

// Number of days in the given month.
func DaysIn(year int, month time.Month, loc *time.Location) int {
	// Day zero of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
