package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-register/internal/category"
	"github.com/fekuna/omnipos-register/internal/category/dto"
	"github.com/fekuna/omnipos-register/internal/event"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/store"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	store  store.Store
	repo   category.Repository
	events event.Publisher
	logger logger.ZapLogger
}

func NewCategoryUseCase(st store.Store, repo category.Repository, events event.Publisher, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		store:  st,
		repo:   repo,
		events: events,
		logger: log,
	}
}

func (uc *categoryUseCase) ListCategories(ctx context.Context) ([]string, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *categoryUseCase) AddCategory(ctx context.Context, input *dto.CreateCategoryInput) ([]string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &model.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	var out []string
	err := uc.store.Update(ctx, func(tx store.KV) error {
		repo := uc.repo.WithTx(tx)
		categories, err := repo.FindAll(ctx)
		if err != nil {
			return err
		}
		if model.HasCategory(categories, name) {
			return model.ErrDuplicateCategory
		}
		out = append(categories, name)
		return repo.SaveAll(ctx, out)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("category added", zap.String("category", name))
	uc.events.Publish(event.Event{Type: event.CategoriesUpdated, Payload: out})
	return out, nil
}

// RemoveCategory drops name from the set. Products keep their category
// string even when it no longer matches an entry.
func (uc *categoryUseCase) RemoveCategory(ctx context.Context, name string) ([]string, error) {
	var (
		out     []string
		removed bool
	)
	err := uc.store.Update(ctx, func(tx store.KV) error {
		repo := uc.repo.WithTx(tx)
		categories, err := repo.FindAll(ctx)
		if err != nil {
			return err
		}
		out = make([]string, 0, len(categories))
		for _, c := range categories {
			if c == name {
				removed = true
				continue
			}
			out = append(out, c)
		}
		if !removed {
			return nil
		}
		return repo.SaveAll(ctx, out)
	})
	if err != nil {
		return nil, err
	}

	if removed {
		uc.events.Publish(event.Event{Type: event.CategoriesUpdated, Payload: out})
	}
	return out, nil
}
