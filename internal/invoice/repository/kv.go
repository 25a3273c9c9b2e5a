package repository

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/invoice"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/store"
)

type KVRepository struct {
	kv store.KV
}

func NewKVRepository(kv store.KV) *KVRepository {
	return &KVRepository{kv: kv}
}

func (r *KVRepository) WithTx(tx store.KV) invoice.Repository {
	return &KVRepository{kv: tx}
}

// FindAll returns invoices in commit order.
func (r *KVRepository) FindAll(ctx context.Context) ([]model.Invoice, error) {
	invoices, err := store.Load(ctx, r.kv, store.KeyInvoices, []model.Invoice{})
	if err != nil {
		return nil, err
	}
	if invoices == nil {
		invoices = []model.Invoice{}
	}
	return invoices, nil
}

func (r *KVRepository) FindByID(ctx context.Context, id string) (*model.Invoice, error) {
	invoices, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		if invoices[i].ID == id {
			return &invoices[i], nil
		}
	}
	return nil, nil
}

func (r *KVRepository) Append(ctx context.Context, inv *model.Invoice) error {
	invoices, err := r.FindAll(ctx)
	if err != nil {
		return err
	}
	return store.Save(ctx, r.kv, store.KeyInvoices, append(invoices, *inv))
}
