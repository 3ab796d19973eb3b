package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	taskdomain "tasktracker/backend/internal/task/domain"
)

// ListParams filters GET /api/tasks. Zero values are omitted.
type ListParams struct {
	Page   int
	Limit  int
	Status string
	Search string
}

func (p ListParams) encode() string {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

type taskEnvelope struct {
	Task *taskdomain.Task `json:"task"`
}

// ListTasks returns one page of the caller's tasks.
func (s *Session) ListTasks(ctx context.Context, p ListParams) (*taskdomain.Page, error) {
	var page taskdomain.Page
	if err := s.Do(ctx, http.MethodGet, "/api/tasks"+p.encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateTask creates a task. fields uses the API's JSON names (title, description, status,
// priority, dueDate).
func (s *Session) CreateTask(ctx context.Context, fields map[string]any) (*taskdomain.Task, error) {
	return s.taskCall(ctx, http.MethodPost, "/api/tasks", fields)
}

func (s *Session) GetTask(ctx context.Context, id string) (*taskdomain.Task, error) {
	return s.taskCall(ctx, http.MethodGet, taskPath(id), nil)
}

// UpdateTask patches a task. A nil map value clears the field.
func (s *Session) UpdateTask(ctx context.Context, id string, fields map[string]any) (*taskdomain.Task, error) {
	return s.taskCall(ctx, http.MethodPatch, taskPath(id), fields)
}

// ToggleTask advances the task's status one step.
func (s *Session) ToggleTask(ctx context.Context, id string) (*taskdomain.Task, error) {
	return s.taskCall(ctx, http.MethodPatch, taskPath(id)+"/toggle", nil)
}

func (s *Session) DeleteTask(ctx context.Context, id string) error {
	return s.Do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func (s *Session) taskCall(ctx context.Context, method, path string, in any) (*taskdomain.Task, error) {
	var out taskEnvelope
	if err := s.Do(ctx, method, path, in, &out); err != nil {
		return nil, err
	}
	return out.Task, nil
}

func taskPath(id string) string {
	return "/api/tasks/" + url.PathEscape(id)
}
