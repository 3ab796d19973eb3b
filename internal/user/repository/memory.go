package repository

import (
	"context"
	"sync"

	"tasktracker/backend/internal/user/domain"
)

// Memory is an in-process Repository for tests and local tooling. Returned users are copies.
type Memory struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

var _ Repository = (*Memory)(nil)

// NewMemory returns an empty Memory repository.
func NewMemory() *Memory {
	return &Memory{byID: make(map[string]*domain.User), byEmail: make(map[string]string)}
}

func (m *Memory) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneUser(m.byID[id]), nil
}

func (m *Memory) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	return cloneUser(m.byID[id]), nil
}

func (m *Memory) Create(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[u.Email]; ok {
		return domain.ErrEmailTaken
	}
	m.byID[u.ID] = cloneUser(u)
	m.byEmail[u.Email] = u.ID
	return nil
}

func (m *Memory) SetRefreshTokenHash(ctx context.Context, userID string, hash *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return nil
	}
	if hash == nil {
		u.RefreshTokenHash = nil
		return nil
	}
	h := *hash
	u.RefreshTokenHash = &h
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	cp := *u
	if u.RefreshTokenHash != nil {
		h := *u.RefreshTokenHash
		cp.RefreshTokenHash = &h
	}
	return &cp
}
