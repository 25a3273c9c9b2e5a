package inventory

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-register/internal/inventory/dto"
	"github.com/fekuna/omnipos-register/internal/model"
)

type UseCase interface {
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, error)
}

// Locker serializes adjustments of one product across processes.
type Locker interface {
	WithLock(ctx context.Context, key, value string, ttl time.Duration, attempts int, wait time.Duration, fn func() error) error
}
