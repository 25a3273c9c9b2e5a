package settings

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/settings/dto"
)

type UseCase interface {
	GetSettings(ctx context.Context) (model.Settings, error)
	UpdateSettings(ctx context.Context, input *dto.UpdateSettingsInput) (model.Settings, error)
}
