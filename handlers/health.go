package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/virginearth/survey-backend/pkg/logger"
)

var startTime = time.Now()

// Pinger is anything whose reachability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterHealth registers /health (liveness) and /ready (dependency checks).
func RegisterHealth(r gin.IRouter, deps map[string]Pinger) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		status := map[string]bool{}
		for name, p := range deps {
			if p == nil {
				status[name] = false
				ready = false
				continue
			}
			if err := p.Ping(ctx); err != nil {
				logger.Warnf("readiness: %s unavailable: %v", name, err)
				status[name] = false
				ready = false
				continue
			}
			status[name] = true
		}

		uptime := time.Since(startTime).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": status, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": status, "uptime": uptime})
	})
}
