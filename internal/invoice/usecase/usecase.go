package usecase

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-register/internal/cart"
	"github.com/fekuna/omnipos-register/internal/clock"
	"github.com/fekuna/omnipos-register/internal/event"
	"github.com/fekuna/omnipos-register/internal/inventory"
	"github.com/fekuna/omnipos-register/internal/invoice"
	"github.com/fekuna/omnipos-register/internal/invoice/dto"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/product"
	"github.com/fekuna/omnipos-register/internal/settings"
	"github.com/fekuna/omnipos-register/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repos groups the repositories a checkout touches. Commit rebinds each of
// them to the same transaction.
type Repos struct {
	Invoices  invoice.Repository
	Cart      cart.Repository
	Products  product.Repository
	Movements inventory.Repository
	Settings  settings.Repository
}

type invoiceUseCase struct {
	store  store.Store
	repos  Repos
	events event.Publisher
	clock  clock.Clock
	logger logger.ZapLogger
}

func NewInvoiceUseCase(st store.Store, repos Repos, events event.Publisher, clk clock.Clock, log logger.ZapLogger) invoice.UseCase {
	return &invoiceUseCase{
		store:  st,
		repos:  repos,
		events: events,
		clock:  clk,
		logger: log,
	}
}

func (uc *invoiceUseCase) Generate(ctx context.Context, paymentMethod string) (*model.Invoice, error) {
	lines, err := uc.repos.Cart.Lines(ctx)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, model.ErrEmptyCart
	}

	products, err := uc.repos.Products.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	s, err := uc.repos.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]model.InvoiceLine, 0, len(lines))
	for _, l := range lines {
		p := model.FindProduct(products, l.ProductID)
		if p == nil {
			return nil, fmt.Errorf("%w: cart line %s", model.ErrProductNotFound, l.ProductID)
		}
		items = append(items, model.InvoiceLine{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Qty:       l.Qty,
			Total:     p.Price * float64(l.Qty),
		})
	}

	if paymentMethod == "" {
		paymentMethod = model.DefaultPaymentMethod
	}

	totals := model.ComputeTotals(items, s.TaxRate)
	return &model.Invoice{
		ID:            uuid.New().String(),
		Date:          clock.Today(uc.clock),
		Items:         items,
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaymentMethod: paymentMethod,
	}, nil
}

// Commit records inv, deducts its stock and empties the cart in one
// transaction. An invoice id already in history fails with
// ErrInvoiceCommitted, and a cart that no longer holds exactly the invoiced
// lines fails with ErrCartChanged; neither changes anything. Lines whose
// product has since been deleted are recorded without a stock change.
func (uc *invoiceUseCase) Commit(ctx context.Context, inv *model.Invoice) error {
	if inv == nil || len(inv.Items) == 0 {
		return model.ErrEmptyCart
	}

	err := uc.store.Update(ctx, func(tx store.KV) error {
		invoices := uc.repos.Invoices.WithTx(tx)
		cartRepo := uc.repos.Cart.WithTx(tx)
		products := uc.repos.Products.WithTx(tx)
		movements := uc.repos.Movements.WithTx(tx)

		existing, err := invoices.FindByID(ctx, inv.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: %s", model.ErrInvoiceCommitted, inv.ID)
		}

		lines, err := cartRepo.Lines(ctx)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return model.ErrEmptyCart
		}
		if !cartMatches(lines, inv.Items) {
			return fmt.Errorf("%w: %s", model.ErrCartChanged, inv.ID)
		}

		now := uc.clock.Now().UTC()
		for _, item := range inv.Items {
			p, err := products.FindByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				uc.logger.Warn("committing line for deleted product", zap.String("product_id", item.ProductID))
				continue
			}
			if p.Stock < item.Qty {
				return fmt.Errorf("%w: %s has %d, invoice needs %d", model.ErrInsufficientStock, p.Name, p.Stock, item.Qty)
			}

			before := p.Stock
			p.Stock -= item.Qty
			if err := products.Update(ctx, p); err != nil {
				return err
			}
			err = movements.LogMovement(ctx, &model.StockMovement{
				ID:             uuid.New().String(),
				ProductID:      p.ID,
				MovementType:   model.MovementSale,
				QuantityChange: -item.Qty,
				QuantityBefore: before,
				QuantityAfter:  p.Stock,
				Reason:         "Sale",
				ReferenceID:    inv.ID,
				CreatedAt:      now,
			})
			if err != nil {
				return err
			}
		}

		if err := invoices.Append(ctx, inv); err != nil {
			return err
		}
		return cartRepo.Save(ctx, []model.CartLine{})
	})
	if err != nil {
		return err
	}

	uc.logger.Info("invoice committed",
		zap.String("invoice_id", inv.ID),
		zap.Int("lines", len(inv.Items)),
		zap.Float64("total", inv.Total),
	)
	uc.events.Publish(event.Event{Type: event.InvoiceCommitted, Payload: inv})
	return nil
}

// cartMatches reports whether the cart holds exactly the invoiced quantity of
// each product.
func cartMatches(lines []model.CartLine, items []model.InvoiceLine) bool {
	want := make(map[string]int, len(items))
	for _, it := range items {
		want[it.ProductID] += it.Qty
	}
	have := make(map[string]int, len(lines))
	for _, l := range lines {
		have[l.ProductID] += l.Qty
	}
	if len(want) != len(have) {
		return false
	}
	for id, qty := range want {
		if have[id] != qty {
			return false
		}
	}
	return true
}

func (uc *invoiceUseCase) Checkout(ctx context.Context, paymentMethod string) (*model.Invoice, error) {
	inv, err := uc.Generate(ctx, paymentMethod)
	if err != nil {
		return nil, err
	}
	if err := uc.Commit(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (uc *invoiceUseCase) GetInvoice(ctx context.Context, id string) (*model.Invoice, error) {
	return uc.repos.Invoices.FindByID(ctx, id)
}

func (uc *invoiceUseCase) ListInvoices(ctx context.Context, filters *dto.InvoiceFilters) ([]model.Invoice, error) {
	invoices, err := uc.repos.Invoices.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if filters == nil {
		return invoices, nil
	}
	return Between(invoices, filters.From, filters.To), nil
}

// Between keeps invoices dated within [from, to]. ISO dates compare
// lexically; an empty bound is open.
func Between(invoices []model.Invoice, from, to string) []model.Invoice {
	out := []model.Invoice{}
	for _, inv := range invoices {
		if from != "" && inv.Date < from {
			continue
		}
		if to != "" && inv.Date > to {
			continue
		}
		out = append(out, inv)
	}
	return out
}
