package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newTestEngine()
	r.Use(requestid.New(), RequestLogger(zap.New(core), "/healthz"))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusInternalServerError)
	})
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, p := range []string{"/ok", "/fail", "/healthz", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[0].ContextMap()["route"] != "/ok" {
		t.Errorf("ok entry = %+v", entries[0].ContextMap())
	}
	if entries[0].ContextMap()["request_id"] == "" {
		t.Error("request_id missing")
	}
	if entries[1].Level != zapcore.ErrorLevel || entries[1].ContextMap()["errors"] == nil {
		t.Errorf("fail entry = %v %+v", entries[1].Level, entries[1].ContextMap())
	}
	if entries[2].Level != zapcore.WarnLevel || entries[2].ContextMap()["status"] != int64(404) {
		t.Errorf("missing entry = %v %+v", entries[2].Level, entries[2].ContextMap())
	}
}
