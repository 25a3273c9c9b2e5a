package analytics

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/model"
)

type UseCase interface {
	// TotalSalesToday sums invoice totals dated today by the injected clock.
	TotalSalesToday(ctx context.Context) (float64, error)
	TotalSalesMonth(ctx context.Context) (float64, error)
	SalesBetween(ctx context.Context, from, to string) (*model.SalesSummary, error)
	// LowStock lists products with stock at or below threshold.
	LowStock(ctx context.Context, threshold int) ([]model.Product, error)
}
