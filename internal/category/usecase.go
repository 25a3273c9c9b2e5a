package category

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/category/dto"
)

type UseCase interface {
	ListCategories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, input *dto.CreateCategoryInput) ([]string, error)
	RemoveCategory(ctx context.Context, name string) ([]string, error)
}
