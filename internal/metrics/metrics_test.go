package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktracker/backend/internal/telemetry/domain"
)

func TestObserveHTTP(t *testing.T) {
	m := New("test")
	m.ObserveHTTP("GET", "/api/tasks", 200, 10*time.Millisecond)
	m.ObserveHTTP("GET", "/api/tasks", 200, 10*time.Millisecond)
	m.ObserveHTTP("GET", "", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestCount.WithLabelValues("GET", "/api/tasks", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCount.WithLabelValues("GET", "unmatched", "404")))
}

func TestEmit(t *testing.T) {
	m := New("test")
	require.NoError(t, m.Emit(context.Background(), &domain.Event{EventType: domain.EventLogin}))
	require.NoError(t, m.Emit(context.Background(), nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthEvents.WithLabelValues(domain.EventLogin)))
}

func TestHandler(t *testing.T) {
	m := New("test")
	m.ObserveHTTP("POST", "/api/auth/login", 200, time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_http_requests_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
