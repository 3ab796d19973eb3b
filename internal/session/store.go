// Package session owns the refresh-token rotation policy over the user record: one rotating
// refresh-token hash per user, overwritten on every login or refresh and cleared on logout.
package session

import (
	"context"
	"fmt"

	"tasktracker/backend/internal/security"
	"tasktracker/backend/internal/user/domain"
)

// UserStore is the slice of the user repository the refresh-token store needs.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	SetRefreshTokenHash(ctx context.Context, userID string, hash *string) error
}

// Store persists refresh-token hashes on the user record.
type Store struct {
	users  UserStore
	hasher *security.Hasher
}

// NewStore returns a Store. hasher should use cost >= security.MinRefreshCost outside tests.
func NewStore(users UserStore, hasher *security.Hasher) *Store {
	return &Store{users: users, hasher: hasher}
}

// Rotate hashes token and overwrites the user's stored hash. It must succeed before token
// is handed to a client.
func (s *Store) Rotate(ctx context.Context, userID, token string) error {
	hash, err := s.hasher.HashRefreshToken(token)
	if err != nil {
		return fmt.Errorf("hash refresh token: %w", err)
	}
	if err := s.users.SetRefreshTokenHash(ctx, userID, &hash); err != nil {
		return fmt.Errorf("store refresh token hash: %w", err)
	}
	return nil
}

// Matches reports whether token is the user's current rotation. A missing user or missing
// hash is false; the error is reserved for storage failures.
func (s *Store) Matches(ctx context.Context, userID, token string) (bool, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}
	if u == nil || !u.HasSession() {
		return false, nil
	}
	return s.hasher.RefreshTokenMatches(*u.RefreshTokenHash, token), nil
}

// Clear nulls the stored hash. Clearing an already-empty or missing user is not an error.
func (s *Store) Clear(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshTokenHash(ctx, userID, nil); err != nil {
		return fmt.Errorf("clear refresh token hash: %w", err)
	}
	return nil
}
