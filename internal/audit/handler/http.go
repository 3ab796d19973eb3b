// Package handler serves the caller's own audit trail over HTTP.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tasktracker/backend/internal/audit/domain"
	"tasktracker/backend/internal/audit/repository"
	"tasktracker/backend/internal/platform/httpx"
	"tasktracker/backend/internal/server/middleware"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Handler struct {
	repo repository.Repository
	log  *zap.Logger
}

// NewHandler returns a Handler reading from repo.
func NewHandler(repo repository.Repository, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{repo: repo, log: log}
}

// RegisterRoutes mounts GET /activity on rg. rg must already run middleware.RequireAuth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/activity", h.List)
}

// Entry is the JSON form of one audit log row.
type Entry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	IP        string    `json:"ip,omitempty"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type listResponse struct {
	Activity []Entry `json:"activity"`
}

// List returns the caller's most recent audit entries, newest first. ?limit= is clamped to [1, 100].
func (h *Handler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c.Request.Context())
	if !ok || userID == "" {
		httpx.Error(c, http.StatusUnauthorized, httpx.MsgUnauthorized)
		return
	}
	entries, err := h.repo.ListByUser(c.Request.Context(), userID, parseLimit(c.Query("limit")))
	if err != nil {
		httpx.Internal(c, h.log, "list activity failed", err)
		return
	}
	c.JSON(http.StatusOK, listResponse{Activity: toEntries(entries)})
}

func parseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultLimit
	}
	return min(maxLimit, max(1, n))
}

func toEntries(logs []*domain.AuditLog) []Entry {
	out := make([]Entry, 0, len(logs))
	for _, l := range logs {
		out = append(out, Entry{
			ID:        l.ID,
			Action:    l.Action,
			Resource:  l.Resource,
			IP:        l.IP,
			Metadata:  l.Metadata,
			CreatedAt: l.CreatedAt,
		})
	}
	return out
}
