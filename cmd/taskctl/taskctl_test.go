package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktracker/backend/internal/audit"
	audithandler "tasktracker/backend/internal/audit/handler"
	auditrepo "tasktracker/backend/internal/audit/repository"
	"tasktracker/backend/internal/client"
	identityhandler "tasktracker/backend/internal/identity/handler"
	identityservice "tasktracker/backend/internal/identity/service"
	"tasktracker/backend/internal/security"
	"tasktracker/backend/internal/server"
	"tasktracker/backend/internal/server/middleware"
	"tasktracker/backend/internal/session"
	taskhandler "tasktracker/backend/internal/task/handler"
	taskrepo "tasktracker/backend/internal/task/repository"
	taskservice "tasktracker/backend/internal/task/service"
	userrepo "tasktracker/backend/internal/user/repository"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	users := userrepo.NewMemory()
	hasher := security.NewTestHasher()
	codec := security.NewTestTokenCodec()
	trail := auditrepo.NewMemory()
	auditLogger := audit.NewLogger(trail, middleware.ClientIP, nil, nil)
	auth := identityservice.NewAuthService(users, session.NewStore(users, hasher), hasher, codec, auditLogger, nil, identityservice.Options{})
	srv := httptest.NewServer(server.NewRouter(server.Deps{
		Auth:          identityhandler.NewHandler(auth, identityhandler.CookieSettings{MaxAge: time.Hour}, nil),
		Tasks:         taskhandler.NewHandler(taskservice.NewTaskService(taskrepo.NewMemory(), nil), nil),
		Activity:      audithandler.NewHandler(trail, nil),
		Authenticator: middleware.NewAuthenticator(codec),
		Audit:         auditLogger,
	}))
	t.Cleanup(srv.Close)
	return srv
}

// run executes one taskctl invocation, like a separate process sharing only the config dir.
func run(t *testing.T, serverURL, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := execute(context.Background(), append([]string{"--server", serverURL, "--config-dir", dir}, args...), &out, &out)
	return out.String(), err
}

func TestTaskctl_SessionSurvivesAcrossRuns(t *testing.T) {
	srv := newAPI(t)
	dir := t.TempDir()

	out, err := run(t, srv.URL, dir, "register", "--name", "Demo", "--email", "demo@example.com", "--password", "Passw0rd")
	require.NoError(t, err)
	assert.Contains(t, out, "demo@example.com")

	store, err := client.NewCookieStore(dir)
	require.NoError(t, err)
	saved, err := store.Load()
	require.NoError(t, err)
	require.NotEmpty(t, saved, "refresh cookie persisted")

	out, err = run(t, srv.URL, dir, "tasks", "create", "--title", "Write docs", "--priority", "HIGH")
	require.NoError(t, err)
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "PENDING", created.Status)

	rotated, err := store.Load()
	require.NoError(t, err)
	assert.NotEqual(t, saved, rotated, "every run rotates the refresh token")

	out, err = run(t, srv.URL, dir, "tasks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Write docs")
	assert.Contains(t, out, "page 1 of 1 (1 tasks)")

	out, err = run(t, srv.URL, dir, "tasks", "toggle", created.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "IN_PROGRESS")

	out, err = run(t, srv.URL, dir, "tasks", "update", created.ID, "--description", "API reference", "--clear-due")
	require.NoError(t, err)
	assert.Contains(t, out, `"description": "API reference"`)

	_, err = run(t, srv.URL, dir, "tasks", "delete", created.ID)
	require.NoError(t, err)
	_, err = run(t, srv.URL, dir, "tasks", "get", created.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Task not found")

	out, err = run(t, srv.URL, dir, "activity", "--json", "--limit", "100")
	require.NoError(t, err)
	var entries []client.ActivityEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries), out)
	seen := map[string]bool{}
	for _, e := range entries {
		seen[e.Resource+":"+e.Action] = true
	}
	for _, want := range []string{"session:register", "session:refresh", "task:create", "task:toggle", "task:update", "task:delete"} {
		assert.True(t, seen[want], "activity should include %s: %s", want, out)
	}

	out, err = run(t, srv.URL, dir, "activity")
	require.NoError(t, err)
	assert.Contains(t, out, "RESOURCE")
	assert.Contains(t, out, "delete")

	out, err = run(t, srv.URL, dir, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, err = run(t, srv.URL, dir, "tasks", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestTaskctl_LoginRequiresPassword(t *testing.T) {
	srv := newAPI(t)
	t.Setenv("TASKCTL_PASSWORD", "")
	_, err := run(t, srv.URL, t.TempDir(), "login", "--email", "demo@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password is required")
}
