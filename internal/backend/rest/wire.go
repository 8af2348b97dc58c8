package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"taskview/internal/dates"
	"taskview/internal/service"
)

// flexBool accepts true, "true", 1 and "1" as true. Anything else,
// including null and a missing field, is false.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	switch strings.ToLower(s) {
	case "true", "1":
		*b = true
	default:
		*b = false
	}
	return nil
}

// flexString accepts a JSON string or number and keeps its text. Some
// servers send numeric ids and epoch-millisecond timestamps.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

// wireTask is a task as served by the backend. Older servers send _id.
type wireTask struct {
	ID          flexString `json:"id"`
	LegacyID    flexString `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     string     `json:"dueDate"`
	Priority    string     `json:"priority"`
	Labels      []string   `json:"labels"`
	Attachments []string   `json:"attachments"`
	Completed   flexBool   `json:"completed"`
	CreatedAt   flexString `json:"createdAt"`
	UpdatedAt   flexString `json:"updatedAt"`
}

func (w wireTask) task() service.Task {
	id := w.ID
	if id == "" {
		id = w.LegacyID
	}
	priority := service.Priority(w.Priority)
	if p, err := service.ParsePriority(w.Priority); err == nil {
		priority = p
	}
	return service.Task{
		ID:          string(id),
		Title:       w.Title,
		Description: w.Description,
		DueDate:     w.DueDate,
		Priority:    priority,
		Labels:      w.Labels,
		Attachments: w.Attachments,
		Completed:   bool(w.Completed),
		CreatedAt:   timestamp(w.CreatedAt),
		UpdatedAt:   timestamp(w.UpdatedAt),
	}
}

// timestamp reads epoch milliseconds or any layout dates.ParseIn knows.
func timestamp(raw flexString) time.Time {
	s := strings.TrimSpace(string(raw))
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	t, ok := dates.ParseIn(s, time.UTC)
	if !ok {
		return time.Time{}
	}
	return t
}

// decodeTasks accepts a bare array or an object wrapping it in "tasks"
// or "data".
func decodeTasks(body []byte) ([]service.Task, error) {
	body = bytes.TrimSpace(body)
	var wire []wireTask
	if len(body) > 0 && body[0] == '{' {
		var env struct {
			Tasks []wireTask `json:"tasks"`
			Data  []wireTask `json:"data"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("decode tasks: %w", err)
		}
		wire = env.Tasks
		if wire == nil {
			wire = env.Data
		}
	} else if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	out := make([]service.Task, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.task())
	}
	return out, nil
}

func decodeTask(body []byte) (service.Task, error) {
	var w wireTask
	if err := json.Unmarshal(body, &w); err != nil {
		return service.Task{}, fmt.Errorf("decode task: %w", err)
	}
	return w.task(), nil
}

// wireInput is the create/update request body. A nil DueDate clears it.
type wireInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     *string  `json:"dueDate"`
	Priority    string   `json:"priority,omitempty"`
	Labels      []string `json:"labels"`
	Attachments []string `json:"attachments"`
	Completed   bool     `json:"completed"`
}

func encodeInput(in service.TaskInput) wireInput {
	w := wireInput{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Priority:    string(in.Priority),
		Labels:      in.Labels,
		Attachments: in.Attachments,
		Completed:   in.Completed,
	}
	if w.Labels == nil {
		w.Labels = []string{}
	}
	if w.Attachments == nil {
		w.Attachments = []string{}
	}
	if due := strings.TrimSpace(in.DueDate); due != "" {
		w.DueDate = &due
	}
	return w
}
