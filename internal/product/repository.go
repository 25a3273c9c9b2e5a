package product

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/store"
)

type Repository interface {
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) (bool, error)
	SaveAll(ctx context.Context, products []model.Product) error

	// Check barcode uniqueness
	IsBarcodeUnique(ctx context.Context, barcode, excludeID string) (bool, error)

	// WithTx binds the repository to a transaction handle from store.Update.
	WithTx(tx store.KV) Repository
}

// Indexer mirrors products into a search engine.
type Indexer interface {
	IndexProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, id string) error
	// SearchProducts returns matching product ids, best match first.
	SearchProducts(ctx context.Context, keyword, category string) ([]string, error)
}
