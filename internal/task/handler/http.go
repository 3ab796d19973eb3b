// Package handler exposes task CRUD over HTTP. Every route requires an authenticated user.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tasktracker/backend/internal/platform/httpx"
	"tasktracker/backend/internal/server/middleware"
	"tasktracker/backend/internal/task/domain"
	"tasktracker/backend/internal/task/service"
)

// TaskService is the service surface used by Handler.
type TaskService interface {
	List(ctx context.Context, userID string, q service.ListQuery) (*domain.Page, error)
	Create(ctx context.Context, userID string, in service.CreateInput) (*domain.Task, error)
	Get(ctx context.Context, userID, id string) (*domain.Task, error)
	Update(ctx context.Context, userID, id string, in service.UpdateInput) (*domain.Task, error)
	Toggle(ctx context.Context, userID, id string) (*domain.Task, error)
	Delete(ctx context.Context, userID, id string) error
}

type Handler struct {
	tasks TaskService
	log   *zap.Logger
}

// NewHandler returns a Handler.
func NewHandler(tasks TaskService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{tasks: tasks, log: log}
}

// RegisterRoutes mounts /tasks on rg. rg must already run middleware.RequireAuth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/tasks")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.PATCH("/:id/toggle", h.Toggle)
}

type taskResponse struct {
	Task *domain.Task `json:"task"`
}

func (h *Handler) List(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	page, err := h.tasks.List(c.Request.Context(), userID, service.ListQuery{
		Page:   c.Query("page"),
		Limit:  c.Query("limit"),
		Status: c.Query("status"),
		Search: c.Query("search"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) Create(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var in service.CreateInput
	if !httpx.BindJSON(c, &in) {
		return
	}
	t, err := h.tasks.Create(c.Request.Context(), userID, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskResponse{Task: t})
}

func (h *Handler) Get(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	t, err := h.tasks.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskResponse{Task: t})
}

func (h *Handler) Update(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var in service.UpdateInput
	if !httpx.BindJSON(c, &in) {
		return
	}
	t, err := h.tasks.Update(c.Request.Context(), userID, c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskResponse{Task: t})
}

func (h *Handler) Toggle(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	t, err := h.tasks.Toggle(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskResponse{Task: t})
}

func (h *Handler) Delete(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (h *Handler) userID(c *gin.Context) (string, bool) {
	id, ok := middleware.GetUserID(c.Request.Context())
	if !ok || id == "" {
		httpx.Error(c, http.StatusUnauthorized, httpx.MsgUnauthorized)
		return "", false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if httpx.WriteValidation(c, err) {
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		httpx.Error(c, http.StatusNotFound, "Task not found")
		return
	}
	httpx.Internal(c, h.log, "task request failed", err)
}
