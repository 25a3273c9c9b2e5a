package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/middleware"
	"github.com/fekuna/omnipos-register/internal/product"
	"github.com/fekuna/omnipos-register/internal/product/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) Register(r gin.IRouter) {
	r.GET("/products", h.ListProducts)
	r.POST("/products", h.CreateProduct)
	r.POST("/products/seed", h.Seed)
	r.GET("/products/barcode/:code", h.GetByBarcode)
	r.GET("/products/:id", h.GetProduct)
	r.PATCH("/products/:id", h.UpdateProduct)
	r.DELETE("/products/:id", h.DeleteProduct)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input dto.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.BadRequest(c, err.Error())
		return
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		h.logger.Debug("failed to create product", zap.Error(err))
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.uc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	if p == nil {
		middleware.NotFound(c, "product not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) GetByBarcode(c *gin.Context) {
	p, err := h.uc.GetByBarcode(c.Request.Context(), c.Param("code"))
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	if p == nil {
		middleware.NotFound(c, "product not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	var filters dto.ProductFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		middleware.BadRequest(c, err.Error())
		return
	}

	products, err := h.uc.ListProducts(c.Request.Context(), &filters)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var input dto.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.BadRequest(c, err.Error())
		return
	}
	input.ID = c.Param("id")

	p, err := h.uc.UpdateProduct(c.Request.Context(), &input)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.uc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) Seed(c *gin.Context) {
	seeded, err := h.uc.SeedIfEmpty(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seeded": seeded})
}
