package dates

import (
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// zonedLayouts carry their own offset or zone and ignore the parse location.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.UnixDate,
	"Mon Jan 02 2006 15:04:05 GMT-0700", // JavaScript Date.prototype.toString
}

// localLayouts have no zone and are read in the parse location.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// Parse normalizes a raw due date into an instant, reading zone-less
// date-times in the local time zone. See ParseIn.
func Parse(raw string) (time.Time, bool) {
	return ParseIn(raw, time.Local)
}

// ParseIn normalizes a raw due date into an instant.
//
// Plain YYYY-MM-DD values are midnight UTC. Values with an explicit offset
// keep it. Other zone-less values are read in loc. Empty or unrecognised
// input yields ok == false.
func ParseIn(raw string, loc *time.Location) (t time.Time, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		return t, true
	}

	// Date.toString appends a parenthesised zone name.
	if i := strings.Index(s, " ("); i > 0 && strings.HasSuffix(s, ")") {
		s = s[:i]
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsDateOnly reports whether raw is a plain YYYY-MM-DD date.
func IsDateOnly(raw string) bool {
	_, err := time.Parse(dateOnlyLayout, strings.TrimSpace(raw))
	return err == nil
}

// CalendarDay returns midnight in loc of the calendar day a raw due date
// denotes. A plain YYYY-MM-DD names the same day everywhere; values with a
// time of day are converted to loc first, so 2025-01-16T00:00:00Z is
// January 15th in New York.
func CalendarDay(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	t, ok := ParseIn(raw, loc)
	if !ok {
		return time.Time{}, false
	}
	if IsDateOnly(raw) {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), true
	}
	return StartOfDay(t.In(loc)), true
}
