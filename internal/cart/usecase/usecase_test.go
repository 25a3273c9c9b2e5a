package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-register/internal/cart"
	"github.com/fekuna/omnipos-register/internal/cart/dto"
	"github.com/fekuna/omnipos-register/internal/cart/repository"
	"github.com/fekuna/omnipos-register/internal/event"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	prodRepo "github.com/fekuna/omnipos-register/internal/product/repository"
	setRepo "github.com/fekuna/omnipos-register/internal/settings/repository"
	"github.com/fekuna/omnipos-register/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUseCase(t *testing.T, products ...model.Product) (cart.UseCase, *store.MemoryStore, *event.Recorder) {
	t.Helper()
	st := store.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), st, store.KeyProducts, products))
	rec := &event.Recorder{}
	uc := NewCartUseCase(st, repository.NewKVRepository(st), prodRepo.NewKVRepository(st), setRepo.NewKVRepository(st), rec, logger.NewNop())
	return uc, st, rec
}

var (
	bananas  = model.Product{ID: "p1", Name: "Bananas", Price: 1.2, Stock: 80, Category: "Fruits & Vegetables"}
	tomatoes = model.Product{ID: "p2", Name: "Tomatoes", Price: 2.1, Stock: 3, Category: "Fruits & Vegetables"}
)

func TestAddItem_MergesLines(t *testing.T) {
	for _, q := range [][2]int{{1, 1}, {2, 5}, {10, 30}} {
		uc, _, _ := newTestUseCase(t, bananas)
		ctx := context.Background()

		_, err := uc.AddItem(ctx, &dto.CartItemInput{ProductID: "p1", Qty: q[0]})
		require.NoError(t, err)
		lines, err := uc.AddItem(ctx, &dto.CartItemInput{ProductID: "p1", Qty: q[1]})
		require.NoError(t, err)

		require.Len(t, lines, 1)
		assert.Equal(t, q[0]+q[1], lines[0].Qty)

		stored, err := uc.GetCart(ctx)
		require.NoError(t, err)
		assert.Equal(t, lines, stored)
	}
}

func TestAddItem_Rejects(t *testing.T) {
	uc, _, rec := newTestUseCase(t, bananas, tomatoes)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, &dto.CartItemInput{ProductID: "ghost", Qty: 1})
	assert.ErrorIs(t, err, model.ErrProductNotFound)

	_, err = uc.AddItem(ctx, &dto.CartItemInput{ProductID: "p1", Qty: 0})
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)

	_, err = uc.AddItem(ctx, &dto.CartItemInput{ProductID: "p1", Qty: -2})
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)

	_, err = uc.AddItem(ctx, &dto.CartItemInput{ProductID: "p2", Qty: 2})
	require.NoError(t, err)
	// 2 in the cart + 2 more exceeds the 3 in stock.
	_, err = uc.AddItem(ctx, &dto.CartItemInput{ProductID: "p2", Qty: 2})
	assert.ErrorIs(t, err, model.ErrInsufficientStock)

	lines, err := uc.GetCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: "p2", Qty: 2}}, lines)
	assert.Equal(t, []string{event.CartUpdated}, rec.Types())
}

func TestUpdateItem(t *testing.T) {
	uc, _, _ := newTestUseCase(t, bananas, tomatoes)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, &dto.CartItemInput{ProductID: "p1", Qty: 1})
	require.NoError(t, err)

	lines, err := uc.UpdateItem(ctx, &dto.CartItemInput{ProductID: "p1", Qty: 7})
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: "p1", Qty: 7}}, lines)

	// Unknown line: no-op.
	lines, err = uc.UpdateItem(ctx, &dto.CartItemInput{ProductID: "p2", Qty: 1})
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: "p1", Qty: 7}}, lines)

	_, err = uc.UpdateItem(ctx, &dto.CartItemInput{ProductID: "p1", Qty: 81})
	assert.ErrorIs(t, err, model.ErrInsufficientStock)

	_, err = uc.UpdateItem(ctx, &dto.CartItemInput{ProductID: "p1", Qty: 0})
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)
}

func TestUpdateItem_DeletedProduct(t *testing.T) {
	uc, st, _ := newTestUseCase(t, bananas)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, &dto.CartItemInput{ProductID: "p1", Qty: 1})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, st, store.KeyProducts, []model.Product{}))

	_, err = uc.UpdateItem(ctx, &dto.CartItemInput{ProductID: "p1", Qty: 2})
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestRemoveAndClear_Idempotent(t *testing.T) {
	uc, _, rec := newTestUseCase(t, bananas, tomatoes)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, &dto.CartItemInput{ProductID: "p1", Qty: 1})
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, &dto.CartItemInput{ProductID: "p2", Qty: 1})
	require.NoError(t, err)

	lines, err := uc.RemoveItem(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: "p2", Qty: 1}}, lines)

	lines, err = uc.RemoveItem(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: "p2", Qty: 1}}, lines)

	lines, err = uc.Clear(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)

	lines, err = uc.Clear(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)

	// add, add, remove, clear
	assert.Len(t, rec.Types(), 4)
}

func TestSummary(t *testing.T) {
	uc, st, _ := newTestUseCase(t, bananas, tomatoes)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, &dto.CartItemInput{ProductID: "p1", Qty: 2})
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, &dto.CartItemInput{ProductID: "p2", Qty: 1})
	require.NoError(t, err)

	s, err := uc.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, s.Items, 2)
	assert.InDelta(t, 4.50, s.Subtotal, 1e-9)
	assert.InDelta(t, 0.225, s.Tax, 1e-9)
	assert.InDelta(t, 4.725, s.Total, 1e-9)
	assert.Zero(t, s.Discount)
	assert.Equal(t, 5.0, s.TaxRate)
	assert.Equal(t, "USD", s.Currency)

	// Deleted products drop out of the summary.
	require.NoError(t, store.Save(ctx, st, store.KeyProducts, []model.Product{bananas}))
	s, err = uc.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, s.Items, 1)
	assert.InDelta(t, 2.40, s.Subtotal, 1e-9)
}
