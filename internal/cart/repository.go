package cart

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/store"
)

type Repository interface {
	Lines(ctx context.Context) ([]model.CartLine, error)
	Save(ctx context.Context, lines []model.CartLine) error

	WithTx(tx store.KV) Repository
}
