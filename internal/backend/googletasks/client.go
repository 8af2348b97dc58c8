// Package googletasks implements the service.Service interface over the
// user's default Google Tasks list.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskview/internal/config"
	"taskview/internal/dates"
	"taskview/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// OAuth scope for Google Tasks
	tasksScope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Service using Google Tasks API.
// Labels, priorities, attachments and server-side search are not
// available and return service.ErrUnsupported.
type Client struct {
	svc     *tasks.Service
	listID  string
	timeout time.Duration
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, tasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read token.json (run: taskview login)", service.ErrAuth)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Create token source that auto-refreshes
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	c, err := NewWithHTTPClient(ctx, httpClient)
	if err != nil {
		return nil, err
	}
	c.timeout = cfg.Timeout()
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc, listID: DefaultListID, timeout: config.DefaultTimeout}, nil
}

// ListTasks returns every task of the default list, completed ones
// included. Search queries are not supported.
func (c *Client) ListTasks(ctx context.Context, q service.Query) ([]service.Task, error) {
	if !q.IsZero() {
		return nil, fmt.Errorf("search: %w", service.ErrUnsupported)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var result []service.Task
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, fromAPI(t))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// GetTask returns a single task.
func (c *Client) GetTask(ctx context.Context, id string) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	t, err := c.svc.Tasks.Get(c.listID, id).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return fromAPI(t), nil
}

// CreateTask inserts a task at the top of the default list.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	if err := checkSupported(in); err != nil {
		return service.Task{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	t, err := c.svc.Tasks.Insert(c.listID, toAPI(in)).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return fromAPI(t), nil
}

// UpdateTask patches title, notes, due date and status.
func (c *Client) UpdateTask(ctx context.Context, id string, in service.TaskInput) (service.Task, error) {
	if err := checkSupported(in); err != nil {
		return service.Task{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	patch := toAPI(in)
	// Empty strings must be sent to clear notes and due.
	patch.ForceSendFields = []string{"Notes", "Due"}
	t, err := c.svc.Tasks.Patch(c.listID, id, patch).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return fromAPI(t), nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// SetCompleted marks a task completed or back to needsAction.
func (c *Client) SetCompleted(ctx context.Context, id string, completed bool) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	patch := &tasks.Task{Status: statusNeedsAction, NullFields: []string{"Completed"}}
	if completed {
		patch = &tasks.Task{Status: statusCompleted}
	}
	if _, err := c.svc.Tasks.Patch(c.listID, id, patch).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// UploadAttachment is not supported by Google Tasks.
func (c *Client) UploadAttachment(ctx context.Context, id, name string, r io.Reader) (service.Task, error) {
	return service.Task{}, fmt.Errorf("attachments: %w", service.ErrUnsupported)
}

func checkSupported(in service.TaskInput) error {
	switch {
	case len(in.Labels) > 0:
		return fmt.Errorf("labels: %w", service.ErrUnsupported)
	case in.Priority != "":
		return fmt.Errorf("priority: %w", service.ErrUnsupported)
	case len(in.Attachments) > 0:
		return fmt.Errorf("attachments: %w", service.ErrUnsupported)
	}
	return nil
}

func fromAPI(t *tasks.Task) service.Task {
	out := service.Task{
		ID:          t.Id,
		Title:       t.Title,
		Description: t.Notes,
		Completed:   t.Status == statusCompleted,
	}
	// Google stores due dates at midnight UTC; keep only the calendar day.
	if due, ok := dates.ParseIn(t.Due, time.UTC); ok {
		out.DueDate = due.UTC().Format("2006-01-02")
	}
	if updated, ok := dates.ParseIn(t.Updated, time.UTC); ok {
		out.UpdatedAt = updated
	}
	return out
}

func toAPI(in service.TaskInput) *tasks.Task {
	t := &tasks.Task{
		Title:  strings.TrimSpace(in.Title),
		Notes:  in.Description,
		Status: statusNeedsAction,
	}
	if in.Completed {
		t.Status = statusCompleted
	}
	if day, ok := dates.CalendarDay(in.DueDate, time.Local); ok {
		t.Due = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	}
	return t
}

// wrapError maps API errors onto the service sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return service.ErrTimeout
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: token expired or revoked (run: taskview login)", service.ErrAuth)
		case http.StatusNotFound:
			return service.ErrNotFound
		}
	}

	// oauth2 reports refresh failures outside googleapi.Error
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: token expired or revoked (run: taskview login)", service.ErrAuth)
	}
	return err
}
