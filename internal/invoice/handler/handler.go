package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-register/internal/invoice"
	"github.com/fekuna/omnipos-register/internal/invoice/dto"
	"github.com/fekuna/omnipos-register/internal/invoice/receipt"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/middleware"
	"github.com/fekuna/omnipos-register/internal/settings"
	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	uc       invoice.UseCase
	settings settings.UseCase
	logger   logger.ZapLogger
}

func NewInvoiceHandler(uc invoice.UseCase, settingsUC settings.UseCase, log logger.ZapLogger) *InvoiceHandler {
	return &InvoiceHandler{
		uc:       uc,
		settings: settingsUC,
		logger:   log,
	}
}

func (h *InvoiceHandler) Register(r gin.IRouter) {
	r.POST("/invoices", h.Checkout)
	r.GET("/invoices", h.ListInvoices)
	r.GET("/invoices/:id", h.GetInvoice)
	r.GET("/invoices/:id/receipt", h.Receipt)
}

func (h *InvoiceHandler) Checkout(c *gin.Context) {
	var input dto.CheckoutInput
	// An empty body checks out with the default payment method.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			middleware.BadRequest(c, err.Error())
			return
		}
	}

	inv, err := h.uc.Checkout(c.Request.Context(), input.PaymentMethod)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	var filters dto.InvoiceFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		middleware.BadRequest(c, err.Error())
		return
	}

	invoices, err := h.uc.ListInvoices(c.Request.Context(), &filters)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices, "total": len(invoices)})
}

func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	inv, err := h.uc.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	if inv == nil {
		middleware.NotFound(c, "invoice not found")
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) Receipt(c *gin.Context) {
	ctx := c.Request.Context()
	inv, err := h.uc.GetInvoice(ctx, c.Param("id"))
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	if inv == nil {
		middleware.NotFound(c, "invoice not found")
		return
	}

	s, err := h.settings.GetSettings(ctx)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	body, contentType, err := receipt.Render(c.DefaultQuery("format", receipt.FormatText), inv, s)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.Data(http.StatusOK, contentType, []byte(body))
}
