package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-register/internal/clock"
	"github.com/fekuna/omnipos-register/internal/event"
	"github.com/fekuna/omnipos-register/internal/inventory"
	"github.com/fekuna/omnipos-register/internal/inventory/dto"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/product"
	"github.com/fekuna/omnipos-register/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockTTL      = 5 * time.Second
	lockAttempts = 3
	lockWait     = 100 * time.Millisecond
)

type inventoryUseCase struct {
	store    store.Store
	repo     inventory.Repository
	products product.Repository
	locker   inventory.Locker
	events   event.Publisher
	clock    clock.Clock
	logger   logger.ZapLogger
}

// NewInventoryUseCase builds the stock use case. locker may be nil when the
// store already serializes writers for this process only.
func NewInventoryUseCase(
	st store.Store,
	repo inventory.Repository,
	products product.Repository,
	locker inventory.Locker,
	events event.Publisher,
	clk clock.Clock,
	log logger.ZapLogger,
) inventory.UseCase {
	return &inventoryUseCase{
		store:    st,
		repo:     repo,
		products: products,
		locker:   locker,
		events:   events,
		clock:    clk,
		logger:   log,
	}
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error) {
	if input.QuantityChange == 0 {
		return nil, model.ErrInvalidQuantity
	}

	if uc.locker == nil {
		return uc.adjust(ctx, input)
	}

	var movement *model.StockMovement
	lockKey := fmt.Sprintf("lock:inventory:%s", input.ProductID)
	err := uc.locker.WithLock(ctx, lockKey, uuid.New().String(), lockTTL, lockAttempts, lockWait, func() error {
		var err error
		movement, err = uc.adjust(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func (uc *inventoryUseCase) adjust(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error) {
	var movement model.StockMovement
	err := uc.store.Update(ctx, func(tx store.KV) error {
		products := uc.products.WithTx(tx)

		p, err := products.FindByID(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return model.ErrProductNotFound
		}

		quantityBefore := p.Stock
		p.Stock += input.QuantityChange
		if p.Stock < 0 {
			return fmt.Errorf("%w: %s has %d, change %d", model.ErrInsufficientStock, p.Name, quantityBefore, input.QuantityChange)
		}

		if err := products.Update(ctx, p); err != nil {
			return err
		}

		movement = model.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      p.ID,
			MovementType:   model.MovementAdjustment,
			QuantityChange: input.QuantityChange,
			QuantityBefore: quantityBefore,
			QuantityAfter:  p.Stock,
			Reason:         input.Reason,
			ReferenceID:    input.ReferenceID,
			CreatedAt:      uc.clock.Now().UTC(),
		}
		return uc.repo.WithTx(tx).LogMovement(ctx, &movement)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("stock adjusted",
		zap.String("product_id", movement.ProductID),
		zap.Int("change", movement.QuantityChange),
		zap.Int("stock", movement.QuantityAfter),
	)
	uc.events.Publish(event.Event{Type: event.StockAdjusted, Payload: &movement})

	return &movement, nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, error) {
	if filters == nil {
		filters = &dto.MovementFilters{}
	}
	return uc.repo.ListMovements(ctx, filters)
}
