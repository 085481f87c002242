package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	pingDB    func(context.Context) error
	pingCache func(context.Context) error
}

func NewHealthHandler(pingDB, pingCache func(context.Context) error) *HealthHandler {
	return &HealthHandler{
		pingDB:    pingDB,
		pingCache: pingCache,
	}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 1*time.Second)
	defer cancel()

	checks := gin.H{"db": "ok", "cache": "ok"}
	ready := true

	if h.pingDB != nil {
		if err := h.pingDB(cctx); err != nil {
			checks["db"] = err.Error()
			ready = false
		}
	}

	// cache being down degrades performance, not readiness; still report it
	if h.pingCache != nil {
		if err := h.pingCache(cctx); err != nil {
			checks["cache"] = err.Error()
		}
	}

	if !ready {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": checks})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready", "checks": checks})
}
