package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Decision is the outcome of the route gate for one request.
type Decision int

const (
	// Allow lets the request through.
	Allow Decision = iota
	// RedirectToLogin sends the visitor to LoginPath.
	RedirectToLogin
)

// LoginPath is where gated requests without a refresh cookie are sent.
const LoginPath = "/login"

var (
	publicPrefixes = []string{"/login", "/register", "/api/auth"}
	assetPrefixes  = []string{"/_next", "/static", "/favicon"}
	// API and ops surfaces enforce their own auth and must never answer with a redirect.
	servicePrefixes = []string{"/api", "/healthz", "/readyz", "/metrics"}
)

// Decide is the route gate: public and asset paths pass, every other path needs a refresh cookie
// to be present. The cookie is not verified here; the API does that.
func Decide(path string, hasRefreshCookie bool) Decision {
	if hasAnyPrefix(path, publicPrefixes) || hasAnyPrefix(path, assetPrefixes) || strings.Contains(path, ".") {
		return Allow
	}
	if hasAnyPrefix(path, servicePrefixes) {
		return Allow
	}
	if hasRefreshCookie {
		return Allow
	}
	return RedirectToLogin
}

// hasAnyPrefix matches whole path segments, so "/api" covers "/api/tasks" but not "/apiary".
func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Gate applies Decide using the presence of a non-empty cookieName cookie.
func Gate(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := c.Cookie(cookieName)
		if Decide(c.Request.URL.Path, err == nil && v != "") == RedirectToLogin {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
