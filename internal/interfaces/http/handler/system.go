package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler exposes health and readiness probes
type SystemHandler struct {
	BaseHandler
	ping    func() error
	started time.Time
	version string
}

// NewSystemHandler creates a SystemHandler. ping reports database liveness.
func NewSystemHandler(ping func() error, version string) *SystemHandler {
	return &SystemHandler{
		ping:    ping,
		started: time.Now(),
		version: version,
	}
}

// RegisterRoutes registers the probe endpoints
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/ready", h.Ready)
}

// Health reports process liveness
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}

// Ready reports whether dependencies are reachable
func (h *SystemHandler) Ready(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	h.Success(c, gin.H{"status": "ready"})
}
