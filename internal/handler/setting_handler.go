package handler

import (
	"net/http"

	"backend/internal/auth"
	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type SettingHandler struct {
	settingService service.SettingService
	authmw         *middleware.AuthMiddleware
}

func NewSettingHandler(settingService service.SettingService, authmw *middleware.AuthMiddleware) *SettingHandler {
	return &SettingHandler{settingService: settingService, authmw: authmw}
}

func (h *SettingHandler) RegisterRoutes(router *gin.RouterGroup) {
	settings := router.Group("/settings", h.authmw.Authenticate())
	{
		settings.GET("", h.authmw.RequirePermission(auth.ResourceSettings, auth.ActionRead), h.ListSettings)
		settings.PUT("/:key", h.authmw.RequirePermission(auth.ResourceSettings, auth.ActionUpdate), h.UpdateSetting)
	}
}

// ListSettings returns all workshop settings
// @Summary      List settings
// @Description  Retrieves all workshop configuration settings
// @Tags         settings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.SettingResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/settings [get]
func (h *SettingHandler) ListSettings(c *gin.Context) {
	settings, err := h.settingService.ListSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch settings"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, settings))
}

// UpdateSetting updates the value of an existing setting key
// @Summary      Update setting
// @Description  Updates the value of an existing setting key; new keys cannot be created
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        key      path      string                        true  "Setting key"
// @Param        payload  body      service.UpdateSettingRequest  true  "Update Setting Payload"
// @Success      200      {object}  response.Response{data=service.SettingResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/settings/{key} [put]
func (h *SettingHandler) UpdateSetting(c *gin.Context) {
	key := c.Param("key")
	var req service.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	setting, err := h.settingService.UpdateSetting(c.Request.Context(), key, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, setting))
}
