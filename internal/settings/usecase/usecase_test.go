package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-register/internal/event"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/settings/dto"
	"github.com/fekuna/omnipos-register/internal/settings/repository"
	"github.com/fekuna/omnipos-register/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettings_Defaults(t *testing.T) {
	st := store.NewMemoryStore()
	uc := NewSettingsUseCase(repository.NewKVRepository(st), event.Nop{}, logger.NewNop())

	s, err := uc.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Settings{StoreName: "My Supermarket", TaxRate: 5, Currency: "USD"}, s)
}

func TestUpdateSettings_ReplacesWholesale(t *testing.T) {
	st := store.NewMemoryStore()
	rec := &event.Recorder{}
	uc := NewSettingsUseCase(repository.NewKVRepository(st), rec, logger.NewNop())
	ctx := context.Background()

	// No bounds checks: negative tax and odd currency codes are stored.
	_, err := uc.UpdateSettings(ctx, &dto.UpdateSettingsInput{StoreName: "Corner Shop", TaxRate: -2, Currency: "xx"})
	require.NoError(t, err)

	_, err = uc.UpdateSettings(ctx, &dto.UpdateSettingsInput{TaxRate: 8})
	require.NoError(t, err)

	s, err := uc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Settings{TaxRate: 8}, s)
	assert.Equal(t, []string{event.SettingsUpdated, event.SettingsUpdated}, rec.Types())
}
