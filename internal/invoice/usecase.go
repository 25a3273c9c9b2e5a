package invoice

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/invoice/dto"
	"github.com/fekuna/omnipos-register/internal/model"
)

type UseCase interface {
	// Generate builds an invoice from the current cart without persisting it.
	Generate(ctx context.Context, paymentMethod string) (*model.Invoice, error)
	// Commit deducts stock, records inv and empties the cart atomically.
	Commit(ctx context.Context, inv *model.Invoice) error
	Checkout(ctx context.Context, paymentMethod string) (*model.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*model.Invoice, error)
	ListInvoices(ctx context.Context, filters *dto.InvoiceFilters) ([]model.Invoice, error)
}
