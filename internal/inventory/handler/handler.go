package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-register/internal/inventory"
	"github.com/fekuna/omnipos-register/internal/inventory/dto"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/middleware"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) Register(r gin.IRouter) {
	r.POST("/inventory/adjustments", h.AdjustStock)
	r.GET("/inventory/movements", h.ListMovements)
}

func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var input dto.AdjustStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.BadRequest(c, err.Error())
		return
	}
	if input.Reason == "" {
		input.Reason = "manual adjustment"
	}

	movement, err := h.uc.AdjustStock(c.Request.Context(), &input)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, movement)
}

func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var filters dto.MovementFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		middleware.BadRequest(c, err.Error())
		return
	}

	movements, err := h.uc.ListMovements(c.Request.Context(), &filters)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": movements})
}
