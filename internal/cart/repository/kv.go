package repository

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/cart"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/store"
)

type KVRepository struct {
	kv store.KV
}

func NewKVRepository(kv store.KV) *KVRepository {
	return &KVRepository{kv: kv}
}

func (r *KVRepository) WithTx(tx store.KV) cart.Repository {
	return &KVRepository{kv: tx}
}

func (r *KVRepository) Lines(ctx context.Context) ([]model.CartLine, error) {
	lines, err := store.Load(ctx, r.kv, store.KeyCart, []model.CartLine{})
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []model.CartLine{}
	}
	return lines, nil
}

func (r *KVRepository) Save(ctx context.Context, lines []model.CartLine) error {
	if lines == nil {
		lines = []model.CartLine{}
	}
	return store.Save(ctx, r.kv, store.KeyCart, lines)
}
