package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

type auditCall struct {
	userID, action, resource, metadata string
}

type recordingAudit struct {
	mu    sync.Mutex
	calls []auditCall
}

func (r *recordingAudit) LogEvent(_ context.Context, userID, action, resource, metadata string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, auditCall{userID, action, resource, metadata})
}

func TestAudit(t *testing.T) {
	rec := &recordingAudit{}
	r := newTestEngine()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-User") != "" {
			c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), c.GetHeader("X-User"), ""))
		}
	}, Audit(rec, "/api/auth"))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/api/tasks", ok)
	r.PATCH("/api/tasks/:id/toggle", ok)
	r.DELETE("/api/tasks/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.POST("/api/auth/login", ok)
	r.POST("/api/tasks", ok)

	send := func(method, path, user string) {
		req := httptest.NewRequest(method, path, nil)
		if user != "" {
			req.Header.Set("X-User", user)
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	send(http.MethodGet, "/api/tasks", "u1")
	send(http.MethodPatch, "/api/tasks/t-1/toggle", "u1")
	send(http.MethodDelete, "/api/tasks/t-2", "u1")
	send(http.MethodPost, "/api/auth/login", "u1")
	send(http.MethodPost, "/api/tasks", "")

	if len(rec.calls) != 1 {
		t.Fatalf("calls = %+v, want exactly the toggle", rec.calls)
	}
	got := rec.calls[0]
	want := auditCall{"u1", "toggle", "task", `{"status":200,"id":"t-1"}`}
	if got != want {
		t.Errorf("call = %+v, want %+v", got, want)
	}
}
