package repository

import (
	"context"
	"sort"
	"sync"

	"tasktracker/backend/internal/audit/domain"
)

// Memory keeps audit entries in process. Used by tests and local runs without Postgres.
type Memory struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

var _ Repository = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Create(_ context.Context, a *domain.AuditLog) error {
	m.mu.Lock()
	m.entries = append(m.entries, *a)
	m.mu.Unlock()
	return nil
}

func (m *Memory) ListByUser(_ context.Context, userID string, limit int) ([]*domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.AuditLog
	for i := range m.entries {
		if m.entries[i].UserID == userID {
			e := m.entries[i]
			out = append(out, &e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
