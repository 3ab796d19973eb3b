package repository

import (
	"context"

	"tasktracker/backend/internal/task/domain"
)

// Repository defines persistence for tasks. Get returns nil, nil for a missing id; callers
// enforce ownership.
type Repository interface {
	List(ctx context.Context, f domain.Filter) ([]*domain.Task, int, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	// Update overwrites the mutable fields of t and sets UpdatedAt.
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}
