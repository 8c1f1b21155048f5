package handlers

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// RegisterStatic serves index.html at "/" and any other GET from dir, mirroring a
// site that ships its front-end next to the API. Dot-files (.env, .git) and
// anything under one of the private directories are never served.
func RegisterStatic(r *gin.Engine, dir string, private ...string) {
	fs := gin.Dir(dir, false)
	index := filepath.Join(dir, "index.html")

	var blocked []string
	for _, p := range private {
		if abs, err := filepath.Abs(p); err == nil {
			blocked = append(blocked, abs)
		}
	}

	r.GET("/", func(c *gin.Context) {
		c.File(index)
	})

	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		name := path.Clean("/" + c.Request.URL.Path)
		if hiddenPath(name) || insideAny(filepath.Join(dir, filepath.FromSlash(name)), blocked) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.FileFromFS(name, fs)
	})
}

func hiddenPath(name string) bool {
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

func insideAny(p string, dirs []string) bool {
	abs, err := filepath.Abs(p)
	if err != nil {
		return true
	}
	for _, d := range dirs {
		if abs == d || strings.HasPrefix(abs, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
