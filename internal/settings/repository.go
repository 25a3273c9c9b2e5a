package settings

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/store"
)

type Repository interface {
	// Get returns the stored settings, or the defaults when none are stored.
	Get(ctx context.Context) (model.Settings, error)
	Save(ctx context.Context, s model.Settings) error

	WithTx(tx store.KV) Repository
}
