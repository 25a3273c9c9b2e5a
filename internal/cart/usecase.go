package cart

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/cart/dto"
	"github.com/fekuna/omnipos-register/internal/model"
)

// UseCase mutators return the cart lines as persisted after the change.
type UseCase interface {
	GetCart(ctx context.Context) ([]model.CartLine, error)
	Summary(ctx context.Context) (*model.CartSummary, error)
	AddItem(ctx context.Context, input *dto.CartItemInput) ([]model.CartLine, error)
	UpdateItem(ctx context.Context, input *dto.CartItemInput) ([]model.CartLine, error)
	RemoveItem(ctx context.Context, productID string) ([]model.CartLine, error)
	Clear(ctx context.Context) ([]model.CartLine, error)
}
