// Package server assembles the HTTP router and the optional ops gRPC server.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"tasktracker/backend/internal/audit"
	audithandler "tasktracker/backend/internal/audit/handler"
	healthhandler "tasktracker/backend/internal/health/handler"
	identityhandler "tasktracker/backend/internal/identity/handler"
	"tasktracker/backend/internal/metrics"
	"tasktracker/backend/internal/ratelimit"
	"tasktracker/backend/internal/server/middleware"
	taskhandler "tasktracker/backend/internal/task/handler"
	"tasktracker/backend/internal/validation"
	"tasktracker/backend/internal/web"
)

// Deps holds the handlers and cross-cutting services the router wires together.
type Deps struct {
	Log           *zap.Logger
	Auth          *identityhandler.Handler
	Tasks         *taskhandler.Handler
	Activity      *audithandler.Handler
	Health        *healthhandler.HTTP
	Authenticator *middleware.Authenticator
	Audit         audit.AuditLogger
	Metrics       *metrics.Metrics
	// AuthLimiter throttles /api/auth. Nil disables rate limiting.
	AuthLimiter ratelimit.Limiter
	// CORSOrigins lists browser origins allowed to send credentials. Empty disables CORS headers.
	CORSOrigins []string
	// Production switches gin to release mode.
	Production bool
}

// NewRouter returns the gin engine serving the API, the ops endpoints and the web shell.
func NewRouter(d Deps) *gin.Engine {
	if d.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	binding.Validator = validation.Default()
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Audit == nil {
		d.Audit = audit.Nop{}
	}

	r := gin.New()
	r.ContextWithFallback = true
	r.Use(
		gin.CustomRecovery(func(c *gin.Context, err any) {
			d.Log.Error("panic recovered", zap.Any("panic", err), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}),
		requestid.New(),
		middleware.ClientIPMiddleware(),
		middleware.Tracing(),
		middleware.RequestLogger(d.Log, "/healthz", "/readyz", "/metrics"),
	)
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(middleware.Gate(identityhandler.RefreshCookieName))

	if d.Health != nil {
		d.Health.RegisterRoutes(r)
	}
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	api := r.Group("/api")
	if d.Auth != nil {
		var onLimited middleware.RateLimitCounter
		if d.Metrics != nil {
			onLimited = func(route string) { d.Metrics.RateLimited.WithLabelValues(route).Inc() }
		}
		authGroup := api.Group("", middleware.RateLimit(d.AuthLimiter, onLimited, d.Log))
		d.Auth.RegisterRoutes(authGroup)
	}
	if d.Tasks != nil && d.Authenticator != nil {
		protected := api.Group("", middleware.RequireAuth(d.Authenticator), middleware.Audit(d.Audit, "/api/auth"))
		d.Tasks.RegisterRoutes(protected)
		if d.Activity != nil {
			d.Activity.RegisterRoutes(protected)
		}
	}
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	web.RegisterRoutes(r)
	return r
}
