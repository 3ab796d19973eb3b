package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"tasktracker/backend/internal/audit/domain"
	"tasktracker/backend/internal/db"
	userdomain "tasktracker/backend/internal/user/domain"
	userrepo "tasktracker/backend/internal/user/repository"
)

func TestPostgresRepository_CreateAndList(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	conn, err := db.Open(dsn)
	if err != nil {
		t.Skipf("Database connection failed (expected in test environment): %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	ctx := context.Background()

	u := &userdomain.User{
		ID:           uuid.NewString(),
		Email:        "audit-" + uuid.NewString() + "@example.com",
		Name:         "Audited",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	if err := userrepo.NewPostgresRepository(conn).Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	repo := NewPostgresRepository(conn)
	now := time.Now().UTC().Truncate(time.Millisecond)
	for i, action := range []string{"login", "create"} {
		entry := &domain.AuditLog{
			ID:        uuid.NewString(),
			UserID:    u.ID,
			Action:    action,
			Resource:  "task",
			IP:        "127.0.0.1",
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Create(ctx, entry); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := repo.Create(ctx, &domain.AuditLog{ID: uuid.NewString(), Action: "login_failure", Resource: "session", CreatedAt: now}); err != nil {
		t.Fatalf("Create without user: %v", err)
	}

	got, err := repo.ListByUser(ctx, u.ID, 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 || got[0].Action != "create" || got[1].Action != "login" {
		t.Fatalf("ListByUser = %+v", got)
	}
	if got[0].Metadata != "" || got[0].UserID != u.ID {
		t.Errorf("unexpected entry %+v", got[0])
	}
}
