package inventory

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/inventory/dto"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/store"
)

type Repository interface {
	// Movements / Audit
	LogMovement(ctx context.Context, movement *model.StockMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, error)

	WithTx(tx store.KV) Repository
}
