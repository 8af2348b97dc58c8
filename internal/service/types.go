package service

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"taskview/internal/dates"
)

// Search parameter names understood by the task listing endpoint.
const (
	ParamSemantic = "q"
	ParamContains = "contains"
)

// Priority is the importance of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ErrInvalidPriority is returned for a priority outside Low/Medium/High.
var ErrInvalidPriority = errors.New("invalid priority")

// ParsePriority matches s case-insensitively against the known priorities.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities numerically. Unknown priorities rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Task represents a single to-do item as returned by the backend.
// Completed doubles as the archived state.
type Task struct {
	ID          string
	Title       string
	Description string
	DueDate     string // raw backend text; see dates.Parse
	Priority    Priority
	Labels      []string
	Attachments []string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LastModified returns UpdatedAt, or CreatedAt when UpdatedAt is absent.
func (t Task) LastModified() time.Time {
	if !t.UpdatedAt.IsZero() {
		return t.UpdatedAt
	}
	return t.CreatedAt
}

// HasLabel reports whether the task carries label (case-insensitive).
func (t Task) HasLabel(label string) bool {
	for _, l := range t.Labels {
		if strings.EqualFold(l, label) {
			return true
		}
	}
	return false
}

// Input returns the editable fields of t, for read-modify-write updates.
func (t Task) Input() TaskInput {
	return TaskInput{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Labels:      append([]string(nil), t.Labels...),
		Attachments: append([]string(nil), t.Attachments...),
		Completed:   t.Completed,
	}
}

// TaskInput holds the fields a client may set on create or update.
type TaskInput struct {
	Title       string
	Description string
	DueDate     string
	Priority    Priority
	Labels      []string
	Attachments []string
	Completed   bool
}

// Validate checks the input before it is sent to a backend.
func (in TaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return errors.New("title required")
	}
	if in.Priority != "" && !in.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, in.Priority)
	}
	if strings.TrimSpace(in.DueDate) != "" {
		if _, ok := dates.Parse(in.DueDate); !ok {
			return fmt.Errorf("invalid due date: %s", in.DueDate)
		}
	}
	return nil
}

// Query carries the search parameters for ListTasks. Both fields may be set;
// the backend decides how to combine them.
type Query struct {
	Semantic string
	Contains string
}

// IsZero reports whether the query requests the unfiltered listing.
func (q Query) IsZero() bool {
	return q.Semantic == "" && q.Contains == ""
}

// Values encodes the query as listing endpoint parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Semantic != "" {
		v.Set(ParamSemantic, q.Semantic)
	}
	if q.Contains != "" {
		v.Set(ParamContains, q.Contains)
	}
	return v
}
