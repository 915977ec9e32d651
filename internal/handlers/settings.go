package handlers

import (
	"errors"
	"net/http"

	"scnr_bridge/internal/switchbot"

	"github.com/gin-gonic/gin"
)

// Request DTO for updating a setting.
type settingRequest struct {
	Value string `json:"value" binding:"required"`
}

// SetSettingRequest is an exported model for Swagger docs of the putSetting payload.
type SetSettingRequest struct {
	// New value; numeric parameters accept textual numbers ("2", "1.0")
	Value string `json:"value" example:"ROOM_003"`
}

// @Summary      List settings
// @Description  Snapshot of the five clean parameters (room, mode, water_level, fan_level, clean_times) and which are still unset.
// @Tags         settings
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/settings [get]
// @Security     BearerAuth
func (h *Handler) getSettings(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.Settings.Status(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load settings", "settings_load_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      List room codes
// @Tags         settings
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/settings/rooms [get]
// @Security     BearerAuth
func (h *Handler) getRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.services.Settings.Rooms()})
}

// @Summary      Update one setting
// @Description  Parameters: room (configured room code), mode (sweep|sweep_mop), water_level (1-2), fan_level (1-4), clean_times (1-2).
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        name  path   string             true  "Parameter name"
// @Param        body  body   SetSettingRequest  true  "New value"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/settings/{name} [put]
// @Security     BearerAuth
func (h *Handler) putSetting(c *gin.Context) {
	var req settingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}

	name := c.Param("name")
	ctx := c.Request.Context()
	if err := h.services.Settings.Set(ctx, name, req.Value); err != nil {
		var invalid *switchbot.InvalidParameterError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to store setting", "setting_store_failed", err, "name", name)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK, "name": name, "value": req.Value})
}
