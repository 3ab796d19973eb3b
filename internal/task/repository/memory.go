package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tasktracker/backend/internal/task/domain"
)

// Memory is an in-process Repository used by tests. It mirrors the Postgres ordering and filters.
type Memory struct {
	mu    sync.RWMutex
	tasks map[string]*domain.Task
}

var _ Repository = (*Memory)(nil)

// NewMemory returns an empty Memory repository.
func NewMemory() *Memory {
	return &Memory{tasks: make(map[string]*domain.Task)}
}

func (m *Memory) List(ctx context.Context, f domain.Filter) ([]*domain.Task, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	search := strings.ToLower(f.Search)
	var matched []*domain.Task
	for _, t := range m.tasks {
		if t.UserID != f.UserID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	total := len(matched)
	out := make([]*domain.Task, 0, f.Limit)
	for i := f.Offset; i < total && len(out) < f.Limit; i++ {
		out = append(out, cloneTask(matched[i]))
	}
	return out, total, nil
}

func (m *Memory) Get(ctx context.Context, id string) (*domain.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneTask(m.tasks[id]), nil
}

func (m *Memory) Create(ctx context.Context, t *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID] = cloneTask(t)
	return nil
}

func (m *Memory) Update(ctx context.Context, t *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[t.ID]; !ok {
		return nil
	}
	t.UpdatedAt = time.Now().UTC()
	m.tasks[t.ID] = cloneTask(t)
	return nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, id)
	return nil
}

func cloneTask(t *domain.Task) *domain.Task {
	if t == nil {
		return nil
	}
	cp := *t
	if t.Description != nil {
		d := *t.Description
		cp.Description = &d
	}
	if t.DueDate != nil {
		d := *t.DueDate
		cp.DueDate = &d
	}
	return &cp
}
