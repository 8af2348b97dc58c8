// Package rest implements the service.Service interface over the to-do
// server's JSON API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskview/internal/config"
	"taskview/internal/service"
)

// RequestIDHeader carries a per-request ID for server-side log correlation.
const RequestIDHeader = "X-Request-ID"

// Client implements service.Service against the REST API.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// New creates a client for cfg's base URL. When a token is configured every
// request carries it as a bearer token.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	base := strings.TrimSpace(cfg.Settings.BaseURL)
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base_url: %q", base)
	}

	httpClient := &http.Client{}
	if cfg.Settings.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Settings.Token,
			TokenType:   "Bearer",
		})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	c := NewWithHTTPClient(base, httpClient)
	c.timeout = cfg.Timeout()
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		timeout: config.DefaultTimeout,
	}
}

// ListTasks returns tasks in server order. Search parameters are passed
// through unmodified.
func (c *Client) ListTasks(ctx context.Context, q service.Query) ([]service.Task, error) {
	path := "/tasks"
	if !q.IsZero() {
		path += "?" + q.Values().Encode()
	}
	body, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeTasks(body)
}

// GetTask returns a single task.
func (c *Client) GetTask(ctx context.Context, id string) (service.Task, error) {
	body, err := c.do(ctx, http.MethodGet, taskPath(id), nil, "")
	if err != nil {
		return service.Task{}, err
	}
	return decodeTask(body)
}

// CreateTask creates a task. The server rejects duplicate titles with 409.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	return c.send(ctx, http.MethodPost, "/tasks", in)
}

// UpdateTask replaces the editable fields of a task.
func (c *Client) UpdateTask(ctx context.Context, id string, in service.TaskInput) (service.Task, error) {
	return c.send(ctx, http.MethodPut, taskPath(id), in)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, taskPath(id), nil, "")
	return err
}

// SetCompleted reads the task and writes it back with the new flag, since
// the API only offers full updates.
func (c *Client) SetCompleted(ctx context.Context, id string, completed bool) error {
	t, err := c.GetTask(ctx, id)
	if err != nil {
		return err
	}
	in := t.Input()
	in.Completed = completed
	_, err = c.UpdateTask(ctx, id, in)
	return err
}

// UploadAttachment posts r as the multipart field "file" and returns the
// task with the new attachment reference.
func (c *Client) UploadAttachment(ctx context.Context, id, name string, r io.Reader) (service.Task, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return service.Task{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return service.Task{}, fmt.Errorf("read attachment: %w", err)
	}
	if err := mw.Close(); err != nil {
		return service.Task{}, err
	}

	body, err := c.do(ctx, http.MethodPost, taskPath(id)+"/attachments", &buf, mw.FormDataContentType())
	if err != nil {
		return service.Task{}, err
	}
	return decodeTask(body)
}

func (c *Client) send(ctx context.Context, method, path string, in service.TaskInput) (service.Task, error) {
	payload, err := json.Marshal(encodeInput(in))
	if err != nil {
		return service.Task{}, err
	}
	body, err := c.do(ctx, method, path, bytes.NewReader(payload), "application/json")
	if err != nil {
		return service.Task{}, err
	}
	return decodeTask(body)
}

// do performs one request under the client timeout and returns the response
// body of a 2xx reply.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	logger := log.FromContext(ctx)
	logger.Debug("request", "method", method, "path", path, "id", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapError(err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			// a JSON error body may carry its own code
			apiErr.Code = resp.StatusCode
		}
		logger.Debug("request failed", "id", reqID, "status", resp.StatusCode)
		return nil, wrapError(err)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapError(err)
	}
	return data, nil
}

func taskPath(id string) string {
	return "/tasks/" + url.PathEscape(id)
}

// wrapError maps transport and HTTP errors onto the service sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return service.ErrTimeout
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Code {
	case http.StatusNotFound:
		return service.ErrNotFound
	case http.StatusConflict:
		return service.ErrConflict
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", service.ErrAuth, statusText(apiErr))
	default:
		return fmt.Errorf("server error: %s", statusText(apiErr))
	}
}

func statusText(e *googleapi.Error) string {
	if e.Message != "" {
		return fmt.Sprintf("%d %s", e.Code, e.Message)
	}
	if b := strings.TrimSpace(e.Body); b != "" && len(b) < 200 {
		return fmt.Sprintf("%d %s", e.Code, b)
	}
	return fmt.Sprintf("%d %s", e.Code, http.StatusText(e.Code))
}
