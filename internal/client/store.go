package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CookieStore persists the refresh cookie between CLI runs. Only the refresh cookie is written;
// the access token always stays in memory.
type CookieStore struct {
	path string
}

// NewCookieStore stores the cookie under dir. An empty dir means the user config directory.
func NewCookieStore(dir string) (*CookieStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		dir = filepath.Join(base, "taskctl")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	return &CookieStore{path: filepath.Join(dir, "session")}, nil
}

func (c *CookieStore) Path() string { return c.path }

// Load returns the saved cookie value, or "" when nothing is saved.
func (c *CookieStore) Load() (string, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes value with owner-only permissions. An empty value clears the store.
func (c *CookieStore) Save(value string) error {
	if value == "" {
		return c.Clear()
	}
	if err := os.WriteFile(c.path, []byte(value), 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Chmod(c.path, 0o600)
}

func (c *CookieStore) Clear() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
