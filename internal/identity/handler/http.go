// Package handler exposes the auth endpoints over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tasktracker/backend/internal/identity/service"
	"tasktracker/backend/internal/platform/httpx"
	userdomain "tasktracker/backend/internal/user/domain"
)

// AuthService is the service surface used by Handler.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
	Login(ctx context.Context, in service.LoginInput) (*service.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*service.AuthResult, error)
	Logout(ctx context.Context, refreshToken string)
}

// Handler serves /auth/register, /auth/login, /auth/refresh and /auth/logout.
type Handler struct {
	auth    AuthService
	cookies CookieSettings
	log     *zap.Logger
}

// NewHandler returns a Handler.
func NewHandler(auth AuthService, cookies CookieSettings, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{auth: auth, cookies: cookies, log: log}
}

// RegisterRoutes mounts the auth routes on rg under /auth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/refresh", h.Refresh)
	g.POST("/logout", h.Logout)
}

type authResponse struct {
	User        userdomain.PublicUser `json:"user"`
	AccessToken string                `json:"accessToken"`
}

func (h *Handler) Register(c *gin.Context) {
	var in service.RegisterInput
	if !httpx.BindJSON(c, &in) {
		return
	}
	res, err := h.auth.Register(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, res)
}

func (h *Handler) Login(c *gin.Context) {
	var in service.LoginInput
	if !httpx.BindJSON(c, &in) {
		return
	}
	res, err := h.auth.Login(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.respond(c, http.StatusOK, res)
}

func (h *Handler) Refresh(c *gin.Context) {
	res, err := h.auth.Refresh(c.Request.Context(), refreshTokenFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.respond(c, http.StatusOK, res)
}

// Logout always succeeds from the client's point of view.
func (h *Handler) Logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context(), refreshTokenFrom(c))
	h.cookies.clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) respond(c *gin.Context, status int, res *service.AuthResult) {
	h.cookies.set(c, res.RefreshToken)
	c.JSON(status, authResponse{User: res.User, AccessToken: res.AccessToken})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if httpx.WriteValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		httpx.Error(c, http.StatusConflict, "An account with this email already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.Error(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrMissingRefreshToken):
		httpx.Error(c, http.StatusUnauthorized, "No refresh token provided")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		httpx.Error(c, http.StatusUnauthorized, "Invalid or expired refresh token")
	case errors.Is(err, service.ErrSessionNotFound):
		httpx.Error(c, http.StatusUnauthorized, "User not found or session expired")
	case errors.Is(err, service.ErrRefreshTokenMismatch):
		httpx.Error(c, http.StatusUnauthorized, "Invalid refresh token")
	default:
		httpx.Internal(c, h.log, "auth request failed", err)
	}
}
