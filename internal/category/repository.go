package category

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/store"
)

type Repository interface {
	// FindAll returns the persisted set, or the default set when none is stored.
	FindAll(ctx context.Context) ([]string, error)
	SaveAll(ctx context.Context, categories []string) error

	// WithTx binds the repository to a transaction handle from store.Update.
	WithTx(tx store.KV) Repository
}
