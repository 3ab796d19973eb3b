// Package handler exposes liveness and readiness over HTTP and the gRPC health protocol.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tasktracker/backend/internal/health"
)

// ReadinessChecker is satisfied by *health.Checker.
type ReadinessChecker interface {
	Check(ctx context.Context) (health.Report, error)
}

// HTTP serves /healthz and /readyz.
type HTTP struct {
	checker ReadinessChecker
	log     *zap.Logger
}

// NewHTTP returns an HTTP health handler.
func NewHTTP(checker ReadinessChecker, log *zap.Logger) *HTTP {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTP{checker: checker, log: log}
}

// RegisterRoutes mounts GET /healthz and GET /readyz.
func (h *HTTP) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
}

// Liveness reports that the process is serving.
func (h *HTTP) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness pings dependencies and answers 503 if any is down. Failure details are logged only.
func (h *HTTP) Readiness(c *gin.Context) {
	report, err := h.checker.Check(c.Request.Context())
	if err != nil {
		h.log.Warn("readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": report})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": report})
}
