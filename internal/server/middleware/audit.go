package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tasktracker/backend/internal/audit"
)

type requestMetadata struct {
	Status int    `json:"status"`
	ID     string `json:"id,omitempty"`
}

// Audit records an audit entry after each successful authenticated mutation. Reads are not
// audited. skipPrefixes names route prefixes that audit themselves (the auth routes).
func Audit(logger audit.AuditLogger, skipPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		route := c.FullPath()
		for _, p := range skipPrefixes {
			if strings.HasPrefix(route, p) {
				return
			}
		}
		status := c.Writer.Status()
		if status >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserID(c.Request.Context())
		if !ok {
			return
		}
		ar := audit.ParseRoute(c.Request.Method, route)
		meta, _ := json.Marshal(requestMetadata{Status: status, ID: c.Param("id")})
		logger.LogEvent(c.Request.Context(), userID, ar.Action, ar.Resource, string(meta))
	}
}
