// Package filter implements the client-side substring search used when the
// backend search is unavailable.
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"taskview/internal/service"
)

// Filter returns the tasks whose title, description or any label contains
// query, ignoring case. Relative order is preserved.
func Filter(tasks []service.Task, query string) []service.Task {
	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(fold, t, needle) {
			out = append(out, t)
		}
	}
	return out
}

// Matches reports whether a single task matches query.
func Matches(t service.Task, query string) bool {
	fold := cases.Fold()
	return matches(fold, t, fold.String(query))
}

func matches(fold cases.Caser, t service.Task, needle string) bool {
	if strings.Contains(fold.String(t.Title), needle) {
		return true
	}
	if strings.Contains(fold.String(t.Description), needle) {
		return true
	}
	for _, label := range t.Labels {
		if strings.Contains(fold.String(label), needle) {
			return true
		}
	}
	return false
}
