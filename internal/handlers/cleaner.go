package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"scnr_bridge/internal/switchbot"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK       = "ok"
	statusAccepted = "accepted"

	errResolveDevice = "failed to resolve device"
	errGetStatus     = "failed to load status"
)

// cleanCycleBudget bounds one background clean cycle end to end
// (login + lookup + ~10s readiness polling + dispatch, each call capped at 30s).
const cleanCycleBudget = 2 * time.Minute

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Trigger a clean cycle
// @Description  Starts authenticate → device lookup → readiness polling → dispatch in the background. Failures are reported through the event log and server logs only.
// @Tags         cleaner
// @Produce      json
// @Success      202  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/cleaner/clean [post]
// @Security     BearerAuth
func (h *Handler) triggerClean(c *gin.Context) {
	go func() {
		// Detached from the request: the trigger returns immediately and the
		// cycle keeps its own cancellation budget.
		ctx, cancel := context.WithTimeout(context.Background(), cleanCycleBudget)
		defer cancel()
		// Errors are already logged and recorded as events by the service.
		_ = h.services.Cleaner.Clean(ctx)
	}()
	c.JSON(http.StatusAccepted, gin.H{"status": statusAccepted})
}

// @Summary      Resolve target device
// @Tags         cleaner
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/cleaner/device [get]
// @Security     BearerAuth
func (h *Handler) getDevice(c *gin.Context) {
	ctx := c.Request.Context()
	device, err := h.services.Cleaner.Device(ctx)
	if err != nil {
		var authErr *switchbot.AuthError
		switch {
		case errors.Is(err, switchbot.ErrDeviceNotFound):
			h.logAndJSONError(c, http.StatusNotFound, "no matching device", "device_not_found", err)
		case errors.As(err, &authErr):
			h.logAndJSONError(c, http.StatusBadGateway, "vendor login failed", "device_auth_failed", err)
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errResolveDevice, "device_resolve_failed", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"device_id": device.ID})
}

// @Summary      Bridge status
// @Description  Current clean parameters and whether all five are set.
// @Tags         cleaner
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/cleaner/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.Settings.Status(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetStatus, "status_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
