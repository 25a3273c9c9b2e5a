package invoice

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/store"
)

type Repository interface {
	FindAll(ctx context.Context) ([]model.Invoice, error)
	FindByID(ctx context.Context, id string) (*model.Invoice, error)
	Append(ctx context.Context, inv *model.Invoice) error

	WithTx(tx store.KV) Repository
}
