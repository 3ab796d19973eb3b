// Package web serves the embedded browser shell. Page routes all return the same document; the
// script decides what to render from the path.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var assets embed.FS

// Pages lists the browser routes served by the shell.
var Pages = []string{"/", "/login", "/register", "/dashboard", "/tasks", "/tasks/new", "/tasks/:id/edit"}

// RegisterRoutes mounts /static and every page in Pages.
func RegisterRoutes(r gin.IRouter) {
	static, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	r.StaticFS("/static", http.FS(static))
	index, err := fs.ReadFile(static, "index.html")
	if err != nil {
		panic(err)
	}
	for _, p := range Pages {
		r.GET(p, func(c *gin.Context) {
			c.Header("Cache-Control", "no-store")
			c.Data(http.StatusOK, "text/html; charset=utf-8", index)
		})
	}
}
