// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
	"io"
)

// Errors returned by Service implementations. Backends wrap transport errors
// so that callers can classify them with errors.Is.
var (
	// ErrNotFound is returned when a task does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when the backend rejects a duplicate (e.g. title).
	ErrConflict = errors.New("conflict")

	// ErrAuth is returned when credentials are missing, expired or revoked.
	ErrAuth = errors.New("auth error")

	// ErrUnsupported is returned when the backend cannot perform an operation.
	ErrUnsupported = errors.New("unsupported by backend")

	// ErrTimeout is returned when a backend call exceeds its deadline.
	ErrTimeout = errors.New("request timed out")
)

// Service defines the interface for task backend operations.
// Commands never import a backend package directly.
type Service interface {
	// ListTasks returns tasks in backend order. A zero Query returns the
	// unfiltered listing; otherwise the backend applies the search parameters.
	ListTasks(ctx context.Context, q Query) ([]Task, error)

	// GetTask returns a single task by ID.
	GetTask(ctx context.Context, id string) (Task, error)

	// CreateTask creates a task and returns it as stored by the backend.
	CreateTask(ctx context.Context, in TaskInput) (Task, error)

	// UpdateTask replaces the editable fields of a task.
	UpdateTask(ctx context.Context, id string, in TaskInput) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id string) error

	// SetCompleted archives (true) or restores (false) a task.
	SetCompleted(ctx context.Context, id string, completed bool) error

	// UploadAttachment stores a file and appends its reference to the task.
	UploadAttachment(ctx context.Context, id, name string, r io.Reader) (Task, error)
}
