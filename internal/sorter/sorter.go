// Package sorter orders task collections by a user-selected key.
package sorter

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"taskview/internal/service"
)

// Key selects the sort order.
type Key string

const (
	DateNewest   Key = "date-newest"
	DateOldest   Key = "date-oldest"
	TitleAsc     Key = "title-asc"
	TitleDesc    Key = "title-desc"
	PriorityHigh Key = "priority-high"
	PriorityLow  Key = "priority-low"
)

// Default is used for empty or unknown keys.
const Default = DateNewest

// Keys lists the supported keys in help order.
var Keys = []Key{DateNewest, DateOldest, TitleAsc, TitleDesc, PriorityHigh, PriorityLow}

// ParseKey returns the key named s, or Default if s is not a known key.
func ParseKey(s string) Key {
	k := Key(s)
	if slices.Contains(Keys, k) {
		return k
	}
	return Default
}

// Sorter sorts tasks, comparing titles with the collation rules of Locale.
type Sorter struct {
	Locale language.Tag
}

// New returns a Sorter for a BCP 47 locale such as "en" or "de-DE".
// Malformed locales fall back to the root collation.
func New(locale string) *Sorter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &Sorter{Locale: tag}
}

// Sort sorts with English collation. See Sorter.Sort.
func Sort(tasks []service.Task, key Key) []service.Task {
	return New("en").Sort(tasks, key)
}

// Sort returns a sorted copy of tasks. The sort is stable: tasks with equal
// keys keep their relative order. Unknown keys sort by DateNewest.
func (s *Sorter) Sort(tasks []service.Task, key Key) []service.Task {
	out := slices.Clone(tasks)

	key = ParseKey(string(key))

	var cmp func(a, b service.Task) int
	switch key {
	case DateOldest:
		cmp = func(a, b service.Task) int { return a.LastModified().Compare(b.LastModified()) }
	case TitleAsc, TitleDesc:
		// Collators are not safe for concurrent use; one per call.
		coll := collate.New(s.Locale)
		if key == TitleAsc {
			cmp = func(a, b service.Task) int { return coll.CompareString(a.Title, b.Title) }
		} else {
			cmp = func(a, b service.Task) int { return coll.CompareString(b.Title, a.Title) }
		}
	case PriorityHigh:
		cmp = func(a, b service.Task) int { return b.Priority.Rank() - a.Priority.Rank() }
	case PriorityLow:
		cmp = func(a, b service.Task) int { return a.Priority.Rank() - b.Priority.Rank() }
	default:
		cmp = func(a, b service.Task) int { return b.LastModified().Compare(a.LastModified()) }
	}

	slices.SortStableFunc(out, cmp)
	return out
}
