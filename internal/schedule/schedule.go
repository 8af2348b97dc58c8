// Package schedule partitions open tasks into due-date buckets.
package schedule

import (
	"time"

	"taskview/internal/dates"
	"taskview/internal/service"
)

// Bucket names a schedule section.
type Bucket string

const (
	Overdue   Bucket = "Overdue"
	Today     Bucket = "Today"
	ThisWeek  Bucket = "This Week"
	ThisMonth Bucket = "This Month"
)

// Order is the display order of the buckets.
var Order = []Bucket{Overdue, Today, ThisWeek, ThisMonth}

// Buckets is the result of Categorize. Each task appears in at most one of
// Overdue, Today, ThisWeek or ThisMonth; input order is preserved.
type Buckets struct {
	Overdue   []service.Task
	Today     []service.Task
	ThisWeek  []service.Task
	ThisMonth []service.Task

	// Skipped holds tasks whose due date is absent or unparseable.
	Skipped []service.Task
}

// Get returns the tasks in the named bucket.
func (b Buckets) Get(name Bucket) []service.Task {
	switch name {
	case Overdue:
		return b.Overdue
	case Today:
		return b.Today
	case ThisWeek:
		return b.ThisWeek
	case ThisMonth:
		return b.ThisMonth
	default:
		return nil
	}
}

// Len returns the number of categorized tasks.
func (b Buckets) Len() int {
	return len(b.Overdue) + len(b.Today) + len(b.ThisWeek) + len(b.ThisMonth)
}

// Categorize assigns each task to the first matching bucket relative to now.
// Tasks due after the end of now's month are left out. Completion state is
// not checked; callers pass open tasks only.
func Categorize(tasks []service.Task, now time.Time) Buckets {
	loc := now.Location()
	today := dates.StartOfDay(now)
	weekStart, weekEnd := dates.StartOfWeek(now), dates.EndOfWeek(now)
	monthStart, monthEnd := dates.StartOfMonth(now), dates.EndOfMonth(now)

	var b Buckets
	for _, task := range tasks {
		day, ok := dates.CalendarDay(task.DueDate, loc)
		if !ok {
			b.Skipped = append(b.Skipped, task)
			continue
		}

		switch {
		case day.Before(today):
			b.Overdue = append(b.Overdue, task)
		case day.Equal(today):
			b.Today = append(b.Today, task)
		case dates.IsInRange(day, weekStart, weekEnd):
			b.ThisWeek = append(b.ThisWeek, task)
		case dates.IsInRange(day, monthStart, monthEnd):
			b.ThisMonth = append(b.ThisMonth, task)
		}
	}
	return b
}
