package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-register/internal/analytics"
	"github.com/fekuna/omnipos-register/internal/analytics/dto"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	uc                analytics.UseCase
	lowStockThreshold int
	logger            logger.ZapLogger
}

// NewAnalyticsHandler serves the report routes. lowStockThreshold applies
// when a low-stock request carries no threshold.
func NewAnalyticsHandler(uc analytics.UseCase, lowStockThreshold int, log logger.ZapLogger) *AnalyticsHandler {
	return &AnalyticsHandler{
		uc:                uc,
		lowStockThreshold: lowStockThreshold,
		logger:            log,
	}
}

func (h *AnalyticsHandler) Register(r gin.IRouter) {
	g := r.Group("/analytics")
	g.GET("/sales/today", h.SalesToday)
	g.GET("/sales/month", h.SalesMonth)
	g.GET("/sales", h.SalesBetween)
	g.GET("/low-stock", h.LowStock)
}

func (h *AnalyticsHandler) SalesToday(c *gin.Context) {
	total, err := h.uc.TotalSalesToday(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}

func (h *AnalyticsHandler) SalesMonth(c *gin.Context) {
	total, err := h.uc.TotalSalesMonth(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}

func (h *AnalyticsHandler) SalesBetween(c *gin.Context) {
	var q dto.SalesRange
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.BadRequest(c, err.Error())
		return
	}
	summary, err := h.uc.SalesBetween(c.Request.Context(), q.From, q.To)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *AnalyticsHandler) LowStock(c *gin.Context) {
	var q dto.LowStockQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.BadRequest(c, err.Error())
		return
	}
	threshold := h.lowStockThreshold
	if q.Threshold != nil {
		threshold = *q.Threshold
	}

	products, err := h.uc.LowStock(c.Request.Context(), threshold)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"threshold": threshold, "products": products, "total": len(products)})
}
