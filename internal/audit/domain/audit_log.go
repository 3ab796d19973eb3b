package domain

import "time"

// AuditLog is one recorded auth event or task mutation. UserID is empty when no user was resolved,
// as with a failed login for an unknown email. Resource is "session" or "task".
type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
