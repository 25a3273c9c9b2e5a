package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-register/internal/analytics"
	"github.com/fekuna/omnipos-register/internal/clock"
	"github.com/fekuna/omnipos-register/internal/invoice"
	invoiceUC "github.com/fekuna/omnipos-register/internal/invoice/usecase"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/product"
)

type analyticsUseCase struct {
	invoices invoice.Repository
	products product.Repository
	clock    clock.Clock
	logger   logger.ZapLogger
}

func NewAnalyticsUseCase(invoices invoice.Repository, products product.Repository, clk clock.Clock, log logger.ZapLogger) analytics.UseCase {
	return &analyticsUseCase{
		invoices: invoices,
		products: products,
		clock:    clk,
		logger:   log,
	}
}

func (uc *analyticsUseCase) TotalSalesToday(ctx context.Context) (float64, error) {
	return uc.totalWithPrefix(ctx, clock.Today(uc.clock))
}

func (uc *analyticsUseCase) TotalSalesMonth(ctx context.Context) (float64, error) {
	return uc.totalWithPrefix(ctx, clock.Month(uc.clock))
}

func (uc *analyticsUseCase) totalWithPrefix(ctx context.Context, prefix string) (float64, error) {
	invoices, err := uc.invoices.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, inv := range invoices {
		if strings.HasPrefix(inv.Date, prefix) {
			total += inv.Total
		}
	}
	return total, nil
}

func (uc *analyticsUseCase) SalesBetween(ctx context.Context, from, to string) (*model.SalesSummary, error) {
	invoices, err := uc.invoices.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &model.SalesSummary{From: from, To: to}
	for _, inv := range invoiceUC.Between(invoices, from, to) {
		summary.Count++
		summary.Subtotal += inv.Subtotal
		summary.Tax += inv.Tax
		summary.Total += inv.Total
		for _, l := range inv.Items {
			summary.Units += l.Qty
		}
	}
	return summary, nil
}

func (uc *analyticsUseCase) LowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	products, err := uc.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.Product{}
	for _, p := range products {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out, nil
}
