package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		path      string
		hasCookie bool
		want      Decision
	}{
		{"/login", false, Allow},
		{"/register", false, Allow},
		{"/api/auth/refresh", false, Allow},
		{"/_next/static/chunk.js", false, Allow},
		{"/favicon.ico", false, Allow},
		{"/static/app.css", false, Allow},
		{"/robots.txt", false, Allow},
		{"/api/tasks", false, Allow},
		{"/healthz", false, Allow},
		{"/metrics", false, Allow},
		{"/api", false, Allow},
		{"/apiary", false, RedirectToLogin},
		{"/api-docs", false, RedirectToLogin},
		{"/healthzone", false, RedirectToLogin},
		{"/loginx", false, RedirectToLogin},
		{"/apiary", true, Allow},
		{"/", false, RedirectToLogin},
		{"/dashboard", false, RedirectToLogin},
		{"/tasks/new", false, RedirectToLogin},
		{"/dashboard", true, Allow},
		{"/tasks/123/edit", true, Allow},
	}
	for _, tt := range tests {
		if got := Decide(tt.path, tt.hasCookie); got != tt.want {
			t.Errorf("Decide(%q, %v) = %v, want %v", tt.path, tt.hasCookie, got, tt.want)
		}
	}
}

func TestGate(t *testing.T) {
	r := newTestEngine()
	r.Use(Gate("refreshToken"))
	r.GET("/dashboard", func(c *gin.Context) { c.String(http.StatusOK, "page") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Errorf("no cookie: status=%d location=%q", w.Code, w.Header().Get("Location"))
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: ""})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusFound {
		t.Errorf("empty cookie: status=%d, want 302", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "anything"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "page" {
		t.Errorf("with cookie: status=%d body=%q", w.Code, w.Body.String())
	}
}
