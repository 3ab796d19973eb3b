package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tasktracker/backend/internal/security"
	"tasktracker/backend/internal/user/domain"
)

type memUsers struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	setErr error
	getErr error
}

func newMemUsers(ids ...string) *memUsers {
	m := &memUsers{users: make(map[string]*domain.User)}
	for _, id := range ids {
		m.users[id] = &domain.User{ID: id, Email: id + "@example.com"}
	}
	return m
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) SetRefreshTokenHash(_ context.Context, id string, hash *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	if u, ok := m.users[id]; ok {
		u.RefreshTokenHash = hash
	}
	return nil
}

func TestStore_RotateMatchesClear(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers("u1")
	s := NewStore(users, security.NewTestHasher())

	if ok, err := s.Matches(ctx, "u1", "t1"); err != nil || ok {
		t.Fatalf("Matches before rotate = %v, %v; want false", ok, err)
	}
	if err := s.Rotate(ctx, "u1", "t1"); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if *users.users["u1"].RefreshTokenHash == "t1" {
		t.Fatal("plaintext token stored")
	}
	if ok, _ := s.Matches(ctx, "u1", "t1"); !ok {
		t.Fatal("Matches should accept the current token")
	}

	if err := s.Rotate(ctx, "u1", "t2"); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if ok, _ := s.Matches(ctx, "u1", "t1"); ok {
		t.Error("superseded token must not match")
	}
	if ok, _ := s.Matches(ctx, "u1", "t2"); !ok {
		t.Error("new token should match")
	}

	if err := s.Clear(ctx, "u1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := s.Clear(ctx, "u1"); err != nil {
		t.Fatalf("Clear should be idempotent: %v", err)
	}
	if ok, _ := s.Matches(ctx, "u1", "t2"); ok {
		t.Error("no token matches after Clear")
	}
}

func TestStore_MatchesUnknownUser(t *testing.T) {
	s := NewStore(newMemUsers(), security.NewTestHasher())
	ok, err := s.Matches(context.Background(), "ghost", "t")
	if err != nil || ok {
		t.Errorf("Matches unknown user = %v, %v; want false, nil", ok, err)
	}
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("db down")
	users := newMemUsers("u1")
	s := NewStore(users, security.NewTestHasher())

	users.setErr = boom
	if err := s.Rotate(ctx, "u1", "t"); !errors.Is(err, boom) {
		t.Errorf("Rotate: want wrapped db error, got %v", err)
	}
	if err := s.Clear(ctx, "u1"); !errors.Is(err, boom) {
		t.Errorf("Clear: want wrapped db error, got %v", err)
	}
	users.getErr = boom
	if _, err := s.Matches(ctx, "u1", "t"); !errors.Is(err, boom) {
		t.Errorf("Matches: want wrapped db error, got %v", err)
	}
}
