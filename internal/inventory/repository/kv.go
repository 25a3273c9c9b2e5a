package repository

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/inventory"
	"github.com/fekuna/omnipos-register/internal/inventory/dto"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/store"
)

type KVRepository struct {
	kv store.KV
}

func NewKVRepository(kv store.KV) *KVRepository {
	return &KVRepository{kv: kv}
}

func (r *KVRepository) WithTx(tx store.KV) inventory.Repository {
	return &KVRepository{kv: tx}
}

func (r *KVRepository) load(ctx context.Context) ([]model.StockMovement, error) {
	return store.Load(ctx, r.kv, store.KeyMovements, []model.StockMovement{})
}

func (r *KVRepository) LogMovement(ctx context.Context, m *model.StockMovement) error {
	movements, err := r.load(ctx)
	if err != nil {
		return err
	}
	return store.Save(ctx, r.kv, store.KeyMovements, append(movements, *m))
}

// ListMovements returns matching movements, newest first.
func (r *KVRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, error) {
	movements, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	out := []model.StockMovement{}
	for i := len(movements) - 1; i >= 0; i-- {
		m := movements[i]
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.MovementType != "" && m.MovementType != f.MovementType {
			continue
		}
		if f.ReferenceID != "" && m.ReferenceID != f.ReferenceID {
			continue
		}
		out = append(out, m)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}
