// Package httpx holds the JSON error envelope shared by gin handlers.
package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tasktracker/backend/internal/validation"
)

// Client-facing messages shared across handlers.
const (
	MsgUnauthorized     = "Unauthorized"
	MsgValidationFailed = "Validation failed"
	MsgInternal         = "Internal server error"
	MsgTooManyRequests  = "Too many requests"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string              `json:"error"`
	Details map[string][]string `json:"details,omitempty"`
}

// Error aborts with {"error": msg}.
func Error(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg})
}

// ValidationFailed aborts with 400 and per-field details.
func ValidationFailed(c *gin.Context, verr *validation.Error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Error: MsgValidationFailed, Details: verr.Details})
}

// Internal logs err and aborts with a generic 500. Internal details never reach the client.
func Internal(c *gin.Context, log *zap.Logger, msg string, err error) {
	if log != nil {
		log.Error(msg, zap.Error(err), zap.String("path", c.FullPath()))
	}
	_ = c.Error(err)
	Error(c, http.StatusInternalServerError, MsgInternal)
}

// BindJSON decodes the body into obj using the installed binding validator. On failure it writes
// the response and returns false.
func BindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}
	var verr *validation.Error
	if errors.As(validation.Translate(err), &verr) {
		ValidationFailed(c, verr)
		return false
	}
	verr = validation.NewError()
	verr.Add("body", "Request body could not be parsed")
	ValidationFailed(c, verr)
	return false
}

// WriteValidation writes err as a validation failure when it is one and reports whether it did.
func WriteValidation(c *gin.Context, err error) bool {
	var verr *validation.Error
	if errors.As(err, &verr) {
		ValidationFailed(c, verr)
		return true
	}
	return false
}
