// Package dates provides calendar boundary helpers and due-date parsing.
//
// All boundary functions work in the location of their argument.
package dates

import "time"

const lastMillisecond = 999 * int(time.Millisecond)

// StartOfDay returns midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, lastMillisecond, t.Location())
}

// StartOfWeek returns midnight of the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	// Weekday: Sunday=0 .. Saturday=6; shift so Monday=0 .. Sunday=6.
	offset := (int(t.Weekday()) + 6) % 7
	return StartOfDay(t).AddDate(0, 0, -offset)
}

// EndOfWeek returns 23:59:59.999 of the Sunday ending t's week.
func EndOfWeek(t time.Time) time.Time {
	return EndOfDay(StartOfWeek(t).AddDate(0, 0, 6))
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns 23:59:59.999 of the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(t.Year(), t.Month()+1, 0, 23, 59, 59, lastMillisecond, t.Location())
}

// IsSameDate reports whether a and b fall on the same calendar day.
// Each is read in its own location.
func IsSameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsInRange reports whether start <= t <= end.
func IsInRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
