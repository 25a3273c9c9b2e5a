package repository

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/category"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/store"
)

type KVRepository struct {
	kv store.KV
}

func NewKVRepository(kv store.KV) *KVRepository {
	return &KVRepository{kv: kv}
}

func (r *KVRepository) WithTx(tx store.KV) category.Repository {
	return &KVRepository{kv: tx}
}

func (r *KVRepository) FindAll(ctx context.Context) ([]string, error) {
	categories, err := store.Load[[]string](ctx, r.kv, store.KeyCategories, nil)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		return model.DefaultCategories(), nil
	}
	return categories, nil
}

func (r *KVRepository) SaveAll(ctx context.Context, categories []string) error {
	if categories == nil {
		categories = []string{}
	}
	return store.Save(ctx, r.kv, store.KeyCategories, categories)
}
