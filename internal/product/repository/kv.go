package repository

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/product"
	"github.com/fekuna/omnipos-register/internal/store"
)

// KVRepository persists the whole product list under one key. Every write
// rewrites the list.
type KVRepository struct {
	kv store.KV
}

func NewKVRepository(kv store.KV) *KVRepository {
	return &KVRepository{kv: kv}
}

func (r *KVRepository) WithTx(tx store.KV) product.Repository {
	return &KVRepository{kv: tx}
}

func (r *KVRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	products, err := store.Load(ctx, r.kv, store.KeyProducts, []model.Product{})
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

func (r *KVRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	products, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	p := model.FindProduct(products, id)
	if p == nil {
		return nil, nil
	}
	found := *p
	return &found, nil
}

func (r *KVRepository) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	if barcode == "" {
		return nil, nil
	}
	products, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.Barcode == barcode {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (r *KVRepository) Create(ctx context.Context, p *model.Product) error {
	products, err := r.FindAll(ctx)
	if err != nil {
		return err
	}
	if model.FindProduct(products, p.ID) != nil {
		return fmt.Errorf("product %s already exists", p.ID)
	}
	return r.SaveAll(ctx, append(products, *p))
}

func (r *KVRepository) Update(ctx context.Context, p *model.Product) error {
	products, err := r.FindAll(ctx)
	if err != nil {
		return err
	}
	existing := model.FindProduct(products, p.ID)
	if existing == nil {
		return model.ErrProductNotFound
	}
	*existing = *p
	return r.SaveAll(ctx, products)
}

// Delete removes the product and reports whether it existed.
func (r *KVRepository) Delete(ctx context.Context, id string) (bool, error) {
	products, err := r.FindAll(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return false, nil
	}
	return true, r.SaveAll(ctx, kept)
}

func (r *KVRepository) SaveAll(ctx context.Context, products []model.Product) error {
	if products == nil {
		products = []model.Product{}
	}
	return store.Save(ctx, r.kv, store.KeyProducts, products)
}

func (r *KVRepository) IsBarcodeUnique(ctx context.Context, barcode, excludeID string) (bool, error) {
	if barcode == "" {
		return true, nil
	}
	products, err := r.FindAll(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range products {
		if p.Barcode == barcode && p.ID != excludeID {
			return false, nil
		}
	}
	return true, nil
}
