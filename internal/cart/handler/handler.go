package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-register/internal/cart"
	"github.com/fekuna/omnipos-register/internal/cart/dto"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/middleware"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	uc     cart.UseCase
	logger logger.ZapLogger
}

func NewCartHandler(uc cart.UseCase, log logger.ZapLogger) *CartHandler {
	return &CartHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CartHandler) Register(r gin.IRouter) {
	r.GET("/cart", h.GetCart)
	r.GET("/cart/summary", h.Summary)
	r.POST("/cart/items", h.AddItem)
	r.PATCH("/cart/items/:id", h.UpdateItem)
	r.DELETE("/cart/items/:id", h.RemoveItem)
	r.DELETE("/cart", h.Clear)
}

func (h *CartHandler) GetCart(c *gin.Context) {
	lines, err := h.uc.GetCart(c.Request.Context())
	h.respond(c, lines, err)
}

func (h *CartHandler) Summary(c *gin.Context) {
	s, err := h.uc.Summary(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var input dto.CartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.BadRequest(c, err.Error())
		return
	}
	lines, err := h.uc.AddItem(c.Request.Context(), &input)
	h.respond(c, lines, err)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	var input dto.CartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.BadRequest(c, err.Error())
		return
	}
	input.ProductID = c.Param("id")

	lines, err := h.uc.UpdateItem(c.Request.Context(), &input)
	h.respond(c, lines, err)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	lines, err := h.uc.RemoveItem(c.Request.Context(), c.Param("id"))
	h.respond(c, lines, err)
}

func (h *CartHandler) Clear(c *gin.Context) {
	lines, err := h.uc.Clear(c.Request.Context())
	h.respond(c, lines, err)
}

func (h *CartHandler) respond(c *gin.Context, lines []model.CartLine, err error) {
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": lines})
}
