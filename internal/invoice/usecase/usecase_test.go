package usecase

import (
	"context"
	"testing"
	"time"

	cartRepo "github.com/fekuna/omnipos-register/internal/cart/repository"
	"github.com/fekuna/omnipos-register/internal/clock"
	"github.com/fekuna/omnipos-register/internal/event"
	invDto "github.com/fekuna/omnipos-register/internal/inventory/dto"
	invRepo "github.com/fekuna/omnipos-register/internal/inventory/repository"
	"github.com/fekuna/omnipos-register/internal/invoice"
	"github.com/fekuna/omnipos-register/internal/invoice/dto"
	"github.com/fekuna/omnipos-register/internal/invoice/repository"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	prodRepo "github.com/fekuna/omnipos-register/internal/product/repository"
	setRepo "github.com/fekuna/omnipos-register/internal/settings/repository"
	"github.com/fekuna/omnipos-register/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	uc    invoice.UseCase
	st    *store.MemoryStore
	repos Repos
	rec   *event.Recorder
	clk   *clock.Fixed
}

func newFixture(t *testing.T, products []model.Product, lines []model.CartLine) *fixture {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, store.Save(ctx, st, store.KeyProducts, products))
	require.NoError(t, store.Save(ctx, st, store.KeyCart, lines))

	repos := Repos{
		Invoices:  repository.NewKVRepository(st),
		Cart:      cartRepo.NewKVRepository(st),
		Products:  prodRepo.NewKVRepository(st),
		Movements: invRepo.NewKVRepository(st),
		Settings:  setRepo.NewKVRepository(st),
	}
	rec := &event.Recorder{}
	clk := clock.NewFixed(time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC))
	return &fixture{
		uc:    NewInvoiceUseCase(st, repos, rec, clk, logger.NewNop()),
		st:    st,
		repos: repos,
		rec:   rec,
		clk:   clk,
	}
}

var shelf = []model.Product{
	{ID: "a", Name: "Bananas", Price: 1.20, Stock: 10, Category: "Fruits & Vegetables"},
	{ID: "b", Name: "Tomatoes", Price: 2.10, Stock: 4, Category: "Fruits & Vegetables"},
}

func TestGenerate_Totals(t *testing.T) {
	f := newFixture(t, shelf, []model.CartLine{{ProductID: "a", Qty: 2}, {ProductID: "b", Qty: 1}})

	inv, err := f.uc.Generate(context.Background(), "")
	require.NoError(t, err)

	assert.NotEmpty(t, inv.ID)
	assert.Equal(t, "2024-03-15", inv.Date)
	assert.Equal(t, model.DefaultPaymentMethod, inv.PaymentMethod)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, model.InvoiceLine{ProductID: "a", Name: "Bananas", Price: 1.20, Qty: 2, Total: 2.40}, inv.Items[0])
	assert.InDelta(t, 4.50, inv.Subtotal, 1e-9)
	assert.InDelta(t, 0.225, inv.Tax, 1e-9)
	assert.InDelta(t, 4.725, inv.Total, 1e-9)
	assert.Zero(t, inv.Discount)

	// Generate does not persist anything.
	invoices, err := f.repos.Invoices.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, invoices)
	assert.Empty(t, f.rec.Events())
}

func TestGenerate_Errors(t *testing.T) {
	f := newFixture(t, shelf, nil)
	_, err := f.uc.Generate(context.Background(), "Card")
	assert.ErrorIs(t, err, model.ErrEmptyCart)

	f = newFixture(t, shelf, []model.CartLine{{ProductID: "gone", Qty: 1}})
	_, err = f.uc.Generate(context.Background(), "Card")
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestCommit_DeductsStockOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shelf, []model.CartLine{{ProductID: "a", Qty: 3}})

	inv, err := f.uc.Generate(ctx, "Card")
	require.NoError(t, err)
	require.NoError(t, f.uc.Commit(ctx, inv))

	p, err := f.repos.Products.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)

	lines, err := f.repos.Cart.Lines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)

	stored, err := f.uc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Card", stored.PaymentMethod)

	moves, err := f.repos.Movements.ListMovements(ctx, &invDto.MovementFilters{})
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, model.MovementSale, moves[0].MovementType)
	assert.Equal(t, -3, moves[0].QuantityChange)
	assert.Equal(t, 10, moves[0].QuantityBefore)
	assert.Equal(t, inv.ID, moves[0].ReferenceID)

	// A second commit of the same invoice is rejected and changes nothing.
	err = f.uc.Commit(ctx, inv)
	assert.ErrorIs(t, err, model.ErrInvoiceCommitted)

	p, err = f.repos.Products.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)
	all, err := f.uc.ListInvoices(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.Equal(t, []string{event.InvoiceCommitted}, f.rec.Types())
}

func TestCommit_StaleInvoiceAfterRefill(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shelf, []model.CartLine{{ProductID: "a", Qty: 1}})

	inv, err := f.uc.Generate(ctx, "")
	require.NoError(t, err)
	require.NoError(t, f.uc.Commit(ctx, inv))

	// The next customer fills the cart before the old invoice is replayed.
	next := []model.CartLine{{ProductID: "b", Qty: 2}}
	require.NoError(t, f.repos.Cart.Save(ctx, next))

	err = f.uc.Commit(ctx, inv)
	assert.ErrorIs(t, err, model.ErrInvoiceCommitted)

	a, err := f.repos.Products.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 9, a.Stock)
	b, err := f.repos.Products.FindByID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 4, b.Stock)

	lines, err := f.repos.Cart.Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, next, lines)

	all, err := f.repos.Invoices.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, inv.ID, all[0].ID)
	assert.Equal(t, []string{event.InvoiceCommitted}, f.rec.Types())
}

func TestCommit_CartChangedSinceGenerate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shelf, []model.CartLine{{ProductID: "a", Qty: 2}})

	inv, err := f.uc.Generate(ctx, "")
	require.NoError(t, err)

	for _, lines := range [][]model.CartLine{
		{{ProductID: "a", Qty: 3}},
		{{ProductID: "a", Qty: 2}, {ProductID: "b", Qty: 1}},
		{{ProductID: "b", Qty: 2}},
	} {
		require.NoError(t, f.repos.Cart.Save(ctx, lines))
		err = f.uc.Commit(ctx, inv)
		assert.ErrorIs(t, err, model.ErrCartChanged)

		got, err := f.repos.Cart.Lines(ctx)
		require.NoError(t, err)
		assert.Equal(t, lines, got)
	}

	a, err := f.repos.Products.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 10, a.Stock)
	all, err := f.repos.Invoices.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, f.rec.Events())
}

func TestCommit_InsufficientStockChangesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shelf, []model.CartLine{{ProductID: "a", Qty: 2}, {ProductID: "b", Qty: 2}})

	inv, err := f.uc.Generate(ctx, "")
	require.NoError(t, err)

	// Stock of b drops below the invoiced quantity between generate and commit.
	require.NoError(t, store.Save(ctx, f.st, store.KeyProducts, []model.Product{
		shelf[0],
		{ID: "b", Name: "Tomatoes", Price: 2.10, Stock: 1, Category: "Fruits & Vegetables"},
	}))

	err = f.uc.Commit(ctx, inv)
	assert.ErrorIs(t, err, model.ErrInsufficientStock)

	a, err := f.repos.Products.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 10, a.Stock)

	lines, err := f.repos.Cart.Lines(ctx)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	all, err := f.repos.Invoices.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, f.rec.Events())
}

func TestCommit_SkipsDeletedProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shelf, []model.CartLine{{ProductID: "a", Qty: 1}, {ProductID: "b", Qty: 1}})

	inv, err := f.uc.Generate(ctx, "")
	require.NoError(t, err)
	deleted, err := f.repos.Products.Delete(ctx, "b")
	require.NoError(t, err)
	require.True(t, deleted)

	require.NoError(t, f.uc.Commit(ctx, inv))
	a, err := f.repos.Products.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 9, a.Stock)
}

func TestCommit_Rejects(t *testing.T) {
	f := newFixture(t, shelf, nil)
	assert.ErrorIs(t, f.uc.Commit(context.Background(), nil), model.ErrEmptyCart)
	assert.ErrorIs(t, f.uc.Commit(context.Background(), &model.Invoice{ID: "x"}), model.ErrEmptyCart)
}

func TestCheckoutAndList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shelf, []model.CartLine{{ProductID: "a", Qty: 1}})

	first, err := f.uc.Checkout(ctx, "Cash")
	require.NoError(t, err)

	_, err = f.uc.Checkout(ctx, "Cash")
	assert.ErrorIs(t, err, model.ErrEmptyCart)

	f.clk.Advance(48 * time.Hour)
	require.NoError(t, store.Save(ctx, f.st, store.KeyCart, []model.CartLine{{ProductID: "b", Qty: 1}}))
	second, err := f.uc.Checkout(ctx, "Card")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-17", second.Date)

	all, err := f.uc.ListInvoices(ctx, &dto.InvoiceFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := f.uc.ListInvoices(ctx, &dto.InvoiceFilters{From: "2024-03-15", To: "2024-03-15"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].ID)

	got, err = f.uc.ListInvoices(ctx, &dto.InvoiceFilters{From: "2024-03-16"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, second.ID, got[0].ID)

	missing, err := f.uc.GetInvoice(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
