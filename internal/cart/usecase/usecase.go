package usecase

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-register/internal/cart"
	"github.com/fekuna/omnipos-register/internal/cart/dto"
	"github.com/fekuna/omnipos-register/internal/event"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/product"
	"github.com/fekuna/omnipos-register/internal/settings"
	"github.com/fekuna/omnipos-register/internal/store"
	"go.uber.org/zap"
)

type cartUseCase struct {
	store    store.Store
	repo     cart.Repository
	products product.Repository
	settings settings.Repository
	events   event.Publisher
	logger   logger.ZapLogger
}

func NewCartUseCase(
	st store.Store,
	repo cart.Repository,
	products product.Repository,
	settingsRepo settings.Repository,
	events event.Publisher,
	log logger.ZapLogger,
) cart.UseCase {
	return &cartUseCase{
		store:    st,
		repo:     repo,
		products: products,
		settings: settingsRepo,
		events:   events,
		logger:   log,
	}
}

func (uc *cartUseCase) GetCart(ctx context.Context) ([]model.CartLine, error) {
	return uc.repo.Lines(ctx)
}

// Summary prices the cart at current catalog prices. Lines whose product has
// been deleted are left out.
func (uc *cartUseCase) Summary(ctx context.Context) (*model.CartSummary, error) {
	lines, err := uc.repo.Lines(ctx)
	if err != nil {
		return nil, err
	}
	products, err := uc.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	s, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]model.InvoiceLine, 0, len(lines))
	for _, l := range lines {
		p := model.FindProduct(products, l.ProductID)
		if p == nil {
			continue
		}
		items = append(items, model.InvoiceLine{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Qty:       l.Qty,
			Total:     p.Price * float64(l.Qty),
		})
	}

	totals := model.ComputeTotals(items, s.TaxRate)
	return &model.CartSummary{
		Items:    items,
		Subtotal: totals.Subtotal,
		Discount: totals.Discount,
		Tax:      totals.Tax,
		Total:    totals.Total,
		TaxRate:  s.TaxRate,
		Currency: s.Currency,
	}, nil
}

// AddItem merges qty into the product's line, creating it if needed.
func (uc *cartUseCase) AddItem(ctx context.Context, input *dto.CartItemInput) ([]model.CartLine, error) {
	if input.Qty <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	return uc.mutate(ctx, func(tx store.KV, lines []model.CartLine) ([]model.CartLine, bool, error) {
		p, err := uc.products.WithTx(tx).FindByID(ctx, input.ProductID)
		if err != nil {
			return nil, false, err
		}
		if p == nil {
			return nil, false, model.ErrProductNotFound
		}

		idx := indexOf(lines, input.ProductID)
		qty := input.Qty
		if idx >= 0 {
			qty += lines[idx].Qty
		}
		if qty > p.Stock {
			return nil, false, fmt.Errorf("%w: %s has %d in stock, cart would hold %d", model.ErrInsufficientStock, p.Name, p.Stock, qty)
		}

		if idx >= 0 {
			lines[idx].Qty = qty
		} else {
			lines = append(lines, model.CartLine{ProductID: input.ProductID, Qty: qty})
		}
		return lines, true, nil
	})
}

// UpdateItem sets the quantity of an existing line. An unknown line is left
// alone.
func (uc *cartUseCase) UpdateItem(ctx context.Context, input *dto.CartItemInput) ([]model.CartLine, error) {
	if input.Qty <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	return uc.mutate(ctx, func(tx store.KV, lines []model.CartLine) ([]model.CartLine, bool, error) {
		idx := indexOf(lines, input.ProductID)
		if idx < 0 {
			return lines, false, nil
		}

		p, err := uc.products.WithTx(tx).FindByID(ctx, input.ProductID)
		if err != nil {
			return nil, false, err
		}
		if p == nil {
			return nil, false, model.ErrProductNotFound
		}
		if input.Qty > p.Stock {
			return nil, false, fmt.Errorf("%w: %s has %d in stock, cart would hold %d", model.ErrInsufficientStock, p.Name, p.Stock, input.Qty)
		}

		lines[idx].Qty = input.Qty
		return lines, true, nil
	})
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, productID string) ([]model.CartLine, error) {
	return uc.mutate(ctx, func(_ store.KV, lines []model.CartLine) ([]model.CartLine, bool, error) {
		idx := indexOf(lines, productID)
		if idx < 0 {
			return lines, false, nil
		}
		return append(lines[:idx], lines[idx+1:]...), true, nil
	})
}

func (uc *cartUseCase) Clear(ctx context.Context) ([]model.CartLine, error) {
	return uc.mutate(ctx, func(_ store.KV, lines []model.CartLine) ([]model.CartLine, bool, error) {
		return []model.CartLine{}, len(lines) > 0, nil
	})
}

// mutate runs fn over the persisted lines in one transaction. fn reports
// whether it changed anything; unchanged carts are not rewritten.
func (uc *cartUseCase) mutate(ctx context.Context, fn func(tx store.KV, lines []model.CartLine) ([]model.CartLine, bool, error)) ([]model.CartLine, error) {
	var (
		out     []model.CartLine
		changed bool
	)
	err := uc.store.Update(ctx, func(tx store.KV) error {
		repo := uc.repo.WithTx(tx)
		lines, err := repo.Lines(ctx)
		if err != nil {
			return err
		}
		out, changed, err = fn(tx, lines)
		if err != nil || !changed {
			return err
		}
		return repo.Save(ctx, out)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		uc.logger.Debug("cart updated", zap.Int("lines", len(out)))
		uc.events.Publish(event.Event{Type: event.CartUpdated, Payload: out})
	}
	return out, nil
}

func indexOf(lines []model.CartLine, productID string) int {
	for i, l := range lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
