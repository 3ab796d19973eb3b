// Package service implements owner-scoped task operations.
package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"tasktracker/backend/internal/policy/engine"
	"tasktracker/backend/internal/task/domain"
	"tasktracker/backend/internal/task/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
	// maxPage keeps (page-1)*limit within int range.
	maxPage = math.MaxInt32
)

// ListQuery holds the raw list query parameters.
type ListQuery struct {
	Page   string
	Limit  string
	Status string
	Search string
}

// normalize returns page >= 1 and limit in [1, maxPageSize]. Values are read from their leading
// digits ("2abc" is 2); values with no leading digits take defaults.
func (q ListQuery) normalize() (page, limit int, status domain.Status) {
	page = 1
	if n, ok := leadingInt(q.Page); ok && n > 1 {
		page = min(n, maxPage)
	}
	limit = defaultPageSize
	if n, ok := leadingInt(q.Limit); ok {
		limit = min(maxPageSize, max(1, n))
	}
	if s := domain.Status(q.Status); s.Valid() {
		status = s
	}
	return page, limit, status
}

// leadingInt parses an optional sign followed by the leading decimal digits of s.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	sign := ""
	if s != "" && (s[0] == '-' || s[0] == '+') {
		sign, s = s[:1], s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(sign + s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// TaskService is the task use-case layer. Every method is scoped to userID; tasks owned by someone
// else are indistinguishable from missing ones.
type TaskService struct {
	repo   repository.Repository
	policy engine.Evaluator
	now    func() time.Time
}

// NewTaskService returns a TaskService backed by repo. A nil policy means owner-only access.
func NewTaskService(repo repository.Repository, policy engine.Evaluator) *TaskService {
	if policy == nil {
		policy = engine.OwnerOnly{}
	}
	return &TaskService{repo: repo, policy: policy, now: time.Now}
}

// List returns one page of userID's tasks, newest first.
func (s *TaskService) List(ctx context.Context, userID string, q ListQuery) (*domain.Page, error) {
	page, limit, status := q.normalize()
	tasks, total, err := s.repo.List(ctx, domain.Filter{
		UserID: userID,
		Status: status,
		Search: strings.TrimSpace(q.Search),
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	return &domain.Page{
		Tasks: tasks,
		Pagination: domain.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

// Create validates in and stores a new task owned by userID.
func (s *TaskService) Create(ctx context.Context, userID string, in CreateInput) (*domain.Task, error) {
	t, err := in.validate()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	t.ID = uuid.New().String()
	t.UserID = userID
	t.CreatedAt = now
	t.UpdatedAt = now
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// Get returns the task when userID owns it.
func (s *TaskService) Get(ctx context.Context, userID, id string) (*domain.Task, error) {
	return s.owned(ctx, userID, id, engine.ActionRead)
}

// Update applies a partial update. Ownership is checked before the input is validated.
func (s *TaskService) Update(ctx context.Context, userID, id string, in UpdateInput) (*domain.Task, error) {
	t, err := s.owned(ctx, userID, id, engine.ActionUpdate)
	if err != nil {
		return nil, err
	}
	c, err := in.validate()
	if err != nil {
		return nil, err
	}
	c.apply(t)
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

// Toggle advances the task status one step around PENDING -> IN_PROGRESS -> COMPLETED.
func (s *TaskService) Toggle(ctx context.Context, userID, id string) (*domain.Task, error) {
	t, err := s.owned(ctx, userID, id, engine.ActionToggle)
	if err != nil {
		return nil, err
	}
	t.Status = t.Status.Next()
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	return t, nil
}

// Delete removes the task when userID owns it.
func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id, engine.ActionDelete); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// owned loads id and asks the access policy about action. Denied and missing tasks both yield
// ErrNotFound so ids of other users' tasks are not disclosed.
func (s *TaskService) owned(ctx context.Context, userID, id string, action engine.Action) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	ok, err := s.policy.Allow(ctx, userID, action, t)
	if err != nil {
		return nil, fmt.Errorf("task policy: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}
