// Package engine decides task access with OPA Rego policies.
package engine

import (
	"context"

	taskdomain "tasktracker/backend/internal/task/domain"
)

// Action is the operation a user attempts on a task.
type Action string

const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionToggle Action = "toggle"
	ActionDelete Action = "delete"
)

// Evaluator decides whether userID may perform action on t.
type Evaluator interface {
	Allow(ctx context.Context, userID string, action Action, t *taskdomain.Task) (bool, error)
}

// OwnerOnly allows the task owner every action and denies everyone else.
type OwnerOnly struct{}

func (OwnerOnly) Allow(_ context.Context, userID string, _ Action, t *taskdomain.Task) (bool, error) {
	return t.OwnedBy(userID), nil
}
