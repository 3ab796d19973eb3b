package client

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

// ActivityEntry is one row of the caller's audit trail.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	IP        string    `json:"ip,omitempty"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Activity returns up to limit of the caller's audit entries, newest first. limit <= 0 uses the
// server default.
func (s *Session) Activity(ctx context.Context, limit int) ([]ActivityEntry, error) {
	path := "/api/activity"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var body struct {
		Activity []ActivityEntry `json:"activity"`
	}
	if err := s.Do(ctx, http.MethodGet, path, nil, &body); err != nil {
		return nil, err
	}
	return body.Activity, nil
}
