package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/middleware"
	"github.com/fekuna/omnipos-register/internal/settings"
	"github.com/fekuna/omnipos-register/internal/settings/dto"
	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	uc     settings.UseCase
	logger logger.ZapLogger
}

func NewSettingsHandler(uc settings.UseCase, log logger.ZapLogger) *SettingsHandler {
	return &SettingsHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SettingsHandler) Register(r gin.IRouter) {
	r.GET("/settings", h.GetSettings)
	r.PUT("/settings", h.UpdateSettings)
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	s, err := h.uc.GetSettings(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var input dto.UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.BadRequest(c, err.Error())
		return
	}

	s, err := h.uc.UpdateSettings(c.Request.Context(), &input)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
