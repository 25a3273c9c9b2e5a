package usecase

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/event"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/settings"
	"github.com/fekuna/omnipos-register/internal/settings/dto"
	"go.uber.org/zap"
)

type settingsUseCase struct {
	repo   settings.Repository
	events event.Publisher
	logger logger.ZapLogger
}

func NewSettingsUseCase(repo settings.Repository, events event.Publisher, log logger.ZapLogger) settings.UseCase {
	return &settingsUseCase{
		repo:   repo,
		events: events,
		logger: log,
	}
}

func (uc *settingsUseCase) GetSettings(ctx context.Context) (model.Settings, error) {
	return uc.repo.Get(ctx)
}

// UpdateSettings stores input as-is. Tax rate and currency are not checked.
func (uc *settingsUseCase) UpdateSettings(ctx context.Context, input *dto.UpdateSettingsInput) (model.Settings, error) {
	s := model.Settings{
		StoreName: input.StoreName,
		TaxRate:   input.TaxRate,
		Currency:  input.Currency,
	}
	if err := uc.repo.Save(ctx, s); err != nil {
		return model.Settings{}, err
	}

	uc.logger.Info("settings updated",
		zap.String("store_name", s.StoreName),
		zap.Float64("tax_rate", s.TaxRate),
		zap.String("currency", s.Currency),
	)
	uc.events.Publish(event.Event{Type: event.SettingsUpdated, Payload: s})
	return s, nil
}
