package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-register/internal/category"
	"github.com/fekuna/omnipos-register/internal/category/dto"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) Register(r gin.IRouter) {
	r.GET("/categories", h.ListCategories)
	r.POST("/categories", h.AddCategory)
	r.DELETE("/categories/:name", h.RemoveCategory)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	cats, err := h.uc.ListCategories(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

func (h *CategoryHandler) AddCategory(c *gin.Context) {
	var input dto.CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.BadRequest(c, err.Error())
		return
	}

	cats, err := h.uc.AddCategory(c.Request.Context(), &input)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"categories": cats})
}

func (h *CategoryHandler) RemoveCategory(c *gin.Context) {
	cats, err := h.uc.RemoveCategory(c.Request.Context(), c.Param("name"))
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}
