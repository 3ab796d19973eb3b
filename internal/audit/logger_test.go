package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tasktracker/backend/internal/audit/domain"
	telemetrydomain "tasktracker/backend/internal/telemetry/domain"
)

type mockAuditRepo struct {
	mu        sync.Mutex
	entries   []*domain.AuditLog
	createErr error
}

func (m *mockAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepo) ListByUser(context.Context, string, int) ([]*domain.AuditLog, error) {
	return nil, nil
}

type chanEmitter chan *telemetrydomain.Event

func (c chanEmitter) Emit(_ context.Context, e *telemetrydomain.Event) error {
	c <- e
	return nil
}

func TestLogger_LogEvent_Success(t *testing.T) {
	repo := &mockAuditRepo{}
	events := make(chanEmitter, 1)
	l := NewLogger(repo, func(context.Context) string { return "192.168.1.1" }, events, nil)

	l.LogEvent(context.Background(), "user-1", "login", "session", `{"email":"a@x.com"}`)

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.UserID != "user-1" || entry.Action != "login" || entry.Resource != "session" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.IP != "192.168.1.1" {
		t.Errorf("ip = %q", entry.IP)
	}
	if entry.ID == "" || entry.CreatedAt.IsZero() {
		t.Error("ID and CreatedAt should be set")
	}

	select {
	case ev := <-events:
		if ev.ID != entry.ID || ev.EventType != "login" || ev.Source != telemetrydomain.SourceAPI {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("telemetry event not emitted")
	}
}

func TestLogger_LogEvent_NilIPExtractor(t *testing.T) {
	repo := &mockAuditRepo{}
	NewLogger(repo, nil, nil, nil).LogEvent(context.Background(), "", "login_failure", "session", "")
	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	if repo.entries[0].IP != "unknown" {
		t.Errorf("ip = %q, want unknown", repo.entries[0].IP)
	}
}

func TestLogger_LogEvent_RepoErrorSwallowed(t *testing.T) {
	repo := &mockAuditRepo{createErr: errors.New("db down")}
	events := make(chanEmitter, 1)
	l := NewLogger(repo, nil, events, nil)
	l.LogEvent(context.Background(), "user-1", "logout", "session", "")
	select {
	case <-events:
	case <-time.After(time.Second):
		t.Fatal("event should still be emitted when persistence fails")
	}
}

func TestLogger_LogEvent_NoRepo(t *testing.T) {
	NewLogger(nil, nil, nil, nil).LogEvent(context.Background(), "u", "a", "r", "")
	Nop{}.LogEvent(context.Background(), "u", "a", "r", "")
}
