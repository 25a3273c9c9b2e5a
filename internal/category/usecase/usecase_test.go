package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-register/internal/category/dto"
	"github.com/fekuna/omnipos-register/internal/category/repository"
	"github.com/fekuna/omnipos-register/internal/event"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUseCase(t *testing.T) (*categoryUseCase, *event.Recorder) {
	t.Helper()
	st := store.NewMemoryStore()
	rec := &event.Recorder{}
	uc := NewCategoryUseCase(st, repository.NewKVRepository(st), rec, logger.NewNop())
	return uc.(*categoryUseCase), rec
}

func TestListCategories_Defaults(t *testing.T) {
	uc, _ := newTestUseCase(t)

	cats, err := uc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCategories(), cats)
	assert.Len(t, cats, 10)
}

func TestAddCategory(t *testing.T) {
	uc, rec := newTestUseCase(t)
	ctx := context.Background()

	cats, err := uc.AddCategory(ctx, &dto.CreateCategoryInput{Name: "  Pet Food "})
	require.NoError(t, err)
	assert.Equal(t, "Pet Food", cats[len(cats)-1])

	stored, err := uc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, cats, stored)
	assert.Equal(t, []string{event.CategoriesUpdated}, rec.Types())
}

func TestAddCategory_Rejects(t *testing.T) {
	uc, rec := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.AddCategory(ctx, &dto.CreateCategoryInput{Name: "Dairy"})
	assert.ErrorIs(t, err, model.ErrDuplicateCategory)

	_, err = uc.AddCategory(ctx, &dto.CreateCategoryInput{Name: "   "})
	assert.ErrorIs(t, err, model.ErrValidation)

	assert.Empty(t, rec.Types())
}

func TestRemoveCategory_Idempotent(t *testing.T) {
	uc, rec := newTestUseCase(t)
	ctx := context.Background()

	cats, err := uc.RemoveCategory(ctx, "Frozen")
	require.NoError(t, err)
	assert.NotContains(t, cats, "Frozen")
	assert.Len(t, cats, 9)

	again, err := uc.RemoveCategory(ctx, "Frozen")
	require.NoError(t, err)
	assert.Equal(t, cats, again)
	assert.Equal(t, []string{event.CategoriesUpdated}, rec.Types())
}
