// Package domain holds the auth event published to telemetry sinks.
package domain

import "time"

// Auth event types.
const (
	EventRegister       = "register"
	EventLogin          = "login"
	EventLoginFailure   = "login_failure"
	EventRefresh        = "refresh"
	EventRefreshFailure = "refresh_failure"
	EventRefreshReuse   = "refresh_reuse"
	EventLogout         = "logout"
)

// SourceAPI marks events produced by the HTTP API.
const SourceAPI = "api"

// Event is an auth or audit event. It is the JSON payload written to Kafka and read by the worker.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	EventType string    `json:"eventType"`
	Resource  string    `json:"resource,omitempty"`
	Source    string    `json:"source"`
	IP        string    `json:"ip,omitempty"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
