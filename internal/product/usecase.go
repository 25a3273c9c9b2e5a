package product

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	AddProduct(ctx context.Context, product *model.Product) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	// SeedIfEmpty loads the starter catalog when no product exists yet.
	SeedIfEmpty(ctx context.Context) (bool, error)
	// Reindex pushes every product to the search index.
	Reindex(ctx context.Context) (int, error)
}
