package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrEmailTaken is returned by repositories when the email unique constraint is violated.
var ErrEmailTaken = errors.New("email already registered")

// User is the core user entity. PasswordHash and RefreshTokenHash never leave the server.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	// RefreshTokenHash is the bcrypt hash of the current refresh token digest; nil when no session is active.
	RefreshTokenHash *string
	CreatedAt        time.Time
}

// PublicUser is the client-facing view of a user.
type PublicUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

// Public returns the fields safe to return to clients.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// HasSession reports whether a refresh-token hash is stored.
func (u *User) HasSession() bool {
	return u.RefreshTokenHash != nil && *u.RefreshTokenHash != ""
}

// NormalizeEmail trims and lower-cases an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}
