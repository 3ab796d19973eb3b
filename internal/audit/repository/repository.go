package repository

import (
	"context"

	"tasktracker/backend/internal/audit/domain"
)

// Repository stores audit log entries. Entries are append-only.
type Repository interface {
	Create(ctx context.Context, a *domain.AuditLog) error
	// ListByUser returns up to limit of userID's entries, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.AuditLog, error)
}
