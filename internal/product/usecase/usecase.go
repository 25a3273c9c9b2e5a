package usecase

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/fekuna/omnipos-register/internal/category"
	"github.com/fekuna/omnipos-register/internal/clock"
	"github.com/fekuna/omnipos-register/internal/event"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/product"
	"github.com/fekuna/omnipos-register/internal/product/dto"
	"github.com/fekuna/omnipos-register/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type productUseCase struct {
	store   store.Store
	repo    product.Repository
	catRepo category.Repository
	index   product.Indexer
	events  event.Publisher
	clock   clock.Clock
	logger  logger.ZapLogger
}

// NewProductUseCase wires the catalog. index may be nil, in which case
// search runs against the stored list only.
func NewProductUseCase(
	st store.Store,
	repo product.Repository,
	catRepo category.Repository,
	index product.Indexer,
	events event.Publisher,
	clk clock.Clock,
	log logger.ZapLogger,
) product.UseCase {
	return &productUseCase{
		store:   st,
		repo:    repo,
		catRepo: catRepo,
		index:   index,
		events:  events,
		clock:   clk,
		logger:  log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	p := &model.Product{
		Name:     strings.TrimSpace(input.Name),
		Price:    input.Price,
		Stock:    input.Stock,
		Category: input.Category,
		Barcode:  strings.TrimSpace(input.Barcode),
		Expiry:   input.Expiry,
		Image:    input.Image,
	}
	return uc.AddProduct(ctx, p)
}

func (uc *productUseCase) AddProduct(ctx context.Context, in *model.Product) (*model.Product, error) {
	p := *in
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Created == "" {
		p.Created = clock.Today(uc.clock)
	}

	err := uc.store.Update(ctx, func(tx store.KV) error {
		repo := uc.repo.WithTx(tx)

		categories, err := uc.catRepo.WithTx(tx).FindAll(ctx)
		if err != nil {
			return err
		}
		if err := validateProduct(&p, categories, true); err != nil {
			return err
		}

		unique, err := repo.IsBarcodeUnique(ctx, p.Barcode, "")
		if err != nil {
			return err
		}
		if !unique {
			return model.ErrDuplicateBarcode
		}

		return repo.Create(ctx, &p)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("product created", zap.String("product_id", p.ID), zap.String("name", p.Name))
	uc.events.Publish(event.Event{Type: event.ProductCreated, Payload: &p})

	// Sync to Elastic
	go uc.syncToElastic(context.Background(), p)

	return &p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *productUseCase) GetByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	return uc.repo.FindByBarcode(ctx, strings.TrimSpace(barcode))
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	if filters == nil {
		filters = &dto.ProductFilters{}
	}

	products, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	// Search via Elastic when a keyword is given
	if filters.Keyword != "" && uc.index != nil {
		ids, err := uc.index.SearchProducts(ctx, filters.Keyword, filters.Category)
		if err == nil {
			out := make([]model.Product, 0, len(ids))
			for _, id := range ids {
				// The index may lag behind deletes.
				if p := model.FindProduct(products, id); p != nil {
					out = append(out, *p)
				}
			}
			if filters.SortBy != "" {
				sortProducts(out, filters.SortBy, filters.SortOrder)
			}
			return out, nil
		}
		// If ES fails, fall through to the stored list
		uc.logger.Error("ES search failed, falling back to local filter", zap.Error(err))
	}

	out := filterProducts(products, filters.Keyword, filters.Category)
	sortProducts(out, filters.SortBy, filters.SortOrder)
	return out, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	var updated model.Product
	err := uc.store.Update(ctx, func(tx store.KV) error {
		repo := uc.repo.WithTx(tx)

		p, err := repo.FindByID(ctx, input.ID)
		if err != nil {
			return err
		}
		if p == nil {
			return model.ErrProductNotFound
		}

		categoryChanged := input.Category != nil && *input.Category != p.Category
		applyUpdate(p, input)

		categories, err := uc.catRepo.WithTx(tx).FindAll(ctx)
		if err != nil {
			return err
		}
		// A product may keep a category that was since removed from the set.
		if err := validateProduct(p, categories, categoryChanged); err != nil {
			return err
		}

		if input.Barcode != nil {
			unique, err := repo.IsBarcodeUnique(ctx, p.Barcode, p.ID)
			if err != nil {
				return err
			}
			if !unique {
				return model.ErrDuplicateBarcode
			}
		}

		updated = *p
		return repo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("product updated", zap.String("product_id", updated.ID))
	uc.events.Publish(event.Event{Type: event.ProductUpdated, Payload: &updated})

	go uc.syncToElastic(context.Background(), updated)

	return &updated, nil
}

// DeleteProduct is idempotent: deleting an unknown id is not an error.
func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	var existed bool
	err := uc.store.Update(ctx, func(tx store.KV) error {
		var err error
		existed, err = uc.repo.WithTx(tx).Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	if !existed {
		return nil
	}

	uc.logger.Info("product deleted", zap.String("product_id", id))
	uc.events.Publish(event.Event{Type: event.ProductDeleted, Payload: map[string]string{"id": id}})

	go uc.removeFromElastic(context.Background(), id)

	return nil
}

func (uc *productUseCase) Reindex(ctx context.Context) (int, error) {
	if uc.index == nil {
		return 0, nil
	}
	products, err := uc.repo.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	for i := range products {
		if err := uc.index.IndexProduct(ctx, &products[i]); err != nil {
			return i, err
		}
	}
	return len(products), nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p model.Product) {
	if uc.index == nil {
		return
	}
	if err := uc.index.IndexProduct(ctx, &p); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) removeFromElastic(ctx context.Context, id string) {
	if uc.index == nil {
		return
	}
	if err := uc.index.DeleteProduct(ctx, id); err != nil {
		uc.logger.Error("failed to remove product from index", zap.String("product_id", id), zap.Error(err))
	}
}

func applyUpdate(p *model.Product, in *dto.UpdateProductInput) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Barcode != nil {
		p.Barcode = strings.TrimSpace(*in.Barcode)
	}
	if in.Expiry != nil {
		p.Expiry = *in.Expiry
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
}

func filterProducts(products []model.Product, keyword, category string) []model.Product {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if keyword != "" && !strings.Contains(strings.ToLower(p.Name), keyword) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// sortProducts orders by name, price or stock. Any other key keeps the
// stored order.
func sortProducts(products []model.Product, by, order string) {
	var fn func(a, b model.Product) int
	switch by {
	case "name":
		fn = func(a, b model.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case "price":
		fn = func(a, b model.Product) int { return cmp.Compare(a.Price, b.Price) }
	case "stock":
		fn = func(a, b model.Product) int { return cmp.Compare(a.Stock, b.Stock) }
	default:
		return
	}
	if strings.EqualFold(order, "desc") {
		asc := fn
		fn = func(a, b model.Product) int { return asc(b, a) }
	}
	slices.SortStableFunc(products, fn)
}
