package repository

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/settings"
	"github.com/fekuna/omnipos-register/internal/store"
)

type KVRepository struct {
	kv store.KV
}

func NewKVRepository(kv store.KV) *KVRepository {
	return &KVRepository{kv: kv}
}

func (r *KVRepository) WithTx(tx store.KV) settings.Repository {
	return &KVRepository{kv: tx}
}

func (r *KVRepository) Get(ctx context.Context) (model.Settings, error) {
	return store.Load(ctx, r.kv, store.KeySettings, model.DefaultSettings())
}

func (r *KVRepository) Save(ctx context.Context, s model.Settings) error {
	return store.Save(ctx, r.kv, store.KeySettings, s)
}
