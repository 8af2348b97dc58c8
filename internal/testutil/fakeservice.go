// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskview/internal/filter"
	"taskview/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu    sync.RWMutex
	tasks []service.Task
	files map[string][]byte // attachment ref -> content

	// Now stamps CreatedAt/UpdatedAt on mutations. Defaults to time.Now.
	Now func() time.Time

	// ListTasksHook, if set, runs before ListTasks answers. It may block
	// or return an error to simulate a slow or failing backend.
	ListTasksHook func(ctx context.Context, q service.Query) error

	// Queries records every ListTasks query in call order.
	Queries []service.Query

	// Error injection for testing
	ListTasksErr        error
	SearchErr           error // only for non-zero queries
	GetTaskErr          error
	CreateTaskErr       error
	UpdateTaskErr       error
	DeleteTaskErr       error
	SetCompletedErr     error
	UploadAttachmentErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		files: make(map[string][]byte),
		Now:   time.Now,
	}
}

// AddTask stores a task as-is, assigning an ID if it has none.
func (f *FakeService) AddTask(t service.Task) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	f.tasks = append(f.tasks, t)
	return t
}

// Task returns a stored task by ID.
func (f *FakeService) Task(id string) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	i := f.index(id)
	if i < 0 {
		return service.Task{}, false
	}
	return f.tasks[i], true
}

// File returns the content of an uploaded attachment.
func (f *FakeService) File(ref string) ([]byte, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	b, ok := f.files[ref]
	return b, ok
}

// ListTasks implements service.Service. Semantic and contains queries are
// both answered with a case-insensitive substring match.
func (f *FakeService) ListTasks(ctx context.Context, q service.Query) ([]service.Task, error) {
	f.mu.Lock()
	f.Queries = append(f.Queries, q)
	f.mu.Unlock()

	if f.ListTasksHook != nil {
		if err := f.ListTasksHook(ctx, q); err != nil {
			return nil, err
		}
	}
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	if !q.IsZero() && f.SearchErr != nil {
		return nil, f.SearchErr
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	result := slices.Clone(f.tasks)
	if q.Semantic != "" {
		result = filter.Filter(result, q.Semantic)
	}
	if q.Contains != "" {
		result = filter.Filter(result, q.Contains)
	}
	return result, nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id string) (service.Task, error) {
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	t, ok := f.Task(id)
	if !ok {
		return service.Task{}, service.ErrNotFound
	}
	return t, nil
}

// CreateTask implements service.Service. Duplicate titles are rejected
// with service.ErrConflict, as the real backend does.
func (f *FakeService) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.titleTaken(in.Title, "") {
		return service.Task{}, service.ErrConflict
	}
	now := f.Now()
	t := fromInput(uuid.NewString(), in)
	t.CreatedAt, t.UpdatedAt = now, now
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, in service.TaskInput) (service.Task, error) {
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.index(id)
	if i < 0 {
		return service.Task{}, service.ErrNotFound
	}
	if f.titleTaken(in.Title, id) {
		return service.Task{}, service.ErrConflict
	}
	t := fromInput(id, in)
	t.CreatedAt = f.tasks[i].CreatedAt
	t.UpdatedAt = f.Now()
	f.tasks[i] = t
	return t, nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.index(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks = slices.Delete(f.tasks, i, i+1)
	return nil
}

// SetCompleted implements service.Service.
func (f *FakeService) SetCompleted(ctx context.Context, id string, completed bool) error {
	if f.SetCompletedErr != nil {
		return f.SetCompletedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.index(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks[i].Completed = completed
	f.tasks[i].UpdatedAt = f.Now()
	return nil
}

// UploadAttachment implements service.Service.
func (f *FakeService) UploadAttachment(ctx context.Context, id, name string, r io.Reader) (service.Task, error) {
	if f.UploadAttachmentErr != nil {
		return service.Task{}, f.UploadAttachmentErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return service.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.index(id)
	if i < 0 {
		return service.Task{}, service.ErrNotFound
	}
	ref := "/uploads/" + id + "/" + name
	f.files[ref] = data
	f.tasks[i].Attachments = append(f.tasks[i].Attachments, ref)
	f.tasks[i].UpdatedAt = f.Now()
	return f.tasks[i], nil
}

func (f *FakeService) index(id string) int {
	return slices.IndexFunc(f.tasks, func(t service.Task) bool { return t.ID == id })
}

func (f *FakeService) titleTaken(title, exceptID string) bool {
	for _, t := range f.tasks {
		if t.ID != exceptID && strings.EqualFold(strings.TrimSpace(t.Title), strings.TrimSpace(title)) {
			return true
		}
	}
	return false
}

func fromInput(id string, in service.TaskInput) service.Task {
	return service.Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Labels:      slices.Clone(in.Labels),
		Attachments: slices.Clone(in.Attachments),
		Completed:   in.Completed,
	}
}
