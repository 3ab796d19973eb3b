package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tasktracker/backend/internal/platform/httpx"
	"tasktracker/backend/internal/ratelimit"
)

// RateLimitCounter is called with the route of every rejected request. nil disables it.
type RateLimitCounter func(route string)

// RateLimit rejects requests with 429 once the per-IP, per-route budget is spent. Limiter errors
// fail open so a Redis outage does not take auth down.
func RateLimit(limiter ratelimit.Limiter, onLimited RateLimitCounter, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		route := c.FullPath()
		key := route + ":" + ClientIP(c.Request.Context())
		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("rate limit check failed; allowing request", zap.String("route", route), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			if onLimited != nil {
				onLimited(route)
			}
			httpx.Error(c, http.StatusTooManyRequests, httpx.MsgTooManyRequests)
			return
		}
		c.Next()
	}
}
