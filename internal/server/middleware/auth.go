package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tasktracker/backend/internal/platform/httpx"
	"tasktracker/backend/internal/security"
)

const bearerPrefix = "bearer "

// Gin context keys set by RequireAuth.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
)

// Authenticator resolves the caller of a request from its Bearer access token.
type Authenticator struct {
	tokens *security.TokenCodec
}

// NewAuthenticator returns an Authenticator verifying access tokens with tokens.
func NewAuthenticator(tokens *security.TokenCodec) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Authenticate returns the verified access claims for r, or nil when the header is missing,
// malformed, expired, or carries a refresh token.
func (a *Authenticator) Authenticate(r *http.Request) *security.Claims {
	token := extractBearer(r.Header.Get("Authorization"))
	if token == "" {
		return nil
	}
	return a.tokens.Verify(security.KindAccess, token)
}

// RequireAuth aborts with 401 {"error":"Unauthorized"} unless the request carries a valid access
// token. On success the identity is available via GetUserID on the request context and under
// CtxUserID/CtxEmail on the gin context.
func RequireAuth(a *Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := a.Authenticate(c.Request)
		if claims == nil {
			httpx.Error(c, http.StatusUnauthorized, httpx.MsgUnauthorized)
			return
		}
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), claims.UserID, claims.Email))
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxEmail, claims.Email)
		c.Next()
	}
}

// extractBearer returns the token from an Authorization header value, or "" if missing or malformed.
func extractBearer(header string) string {
	v := strings.TrimSpace(header)
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
