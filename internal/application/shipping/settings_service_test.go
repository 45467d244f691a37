package shipping

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mydfacylita/backend/internal/domain/shared"
)

func TestSettingsService(t *testing.T) {
	ctx := context.Background()

	t.Run("empty table returns configuration defaults", func(t *testing.T) {
		service := NewSettingsService(&fakeSettingsRepo{}, "01310100")

		dto, err := service.GetSettings(ctx)
		require.NoError(t, err)
		assert.False(t, dto.CorreiosEnabled)
		assert.Equal(t, "01310100", dto.OriginCEP)
	})

	t.Run("first update creates the singleton row", func(t *testing.T) {
		repo := &fakeSettingsRepo{}
		service := NewSettingsService(repo, "01310100")

		dto, err := service.UpdateSettings(ctx, UpdateSettingsInput{
			CorreiosEnabled: true,
			OriginCEP:       "04538-132",
		})
		require.NoError(t, err)
		assert.True(t, dto.CorreiosEnabled)
		assert.Equal(t, "04538132", dto.OriginCEP)
		require.NotNil(t, repo.settings)
	})

	t.Run("subsequent update mutates the existing row", func(t *testing.T) {
		repo := &fakeSettingsRepo{}
		service := NewSettingsService(repo, "01310100")

		_, err := service.UpdateSettings(ctx, UpdateSettingsInput{CorreiosEnabled: true, OriginCEP: "04538132"})
		require.NoError(t, err)
		firstID := repo.settings.ID

		dto, err := service.UpdateSettings(ctx, UpdateSettingsInput{CorreiosEnabled: false, OriginCEP: "20040-020"})
		require.NoError(t, err)
		assert.False(t, dto.CorreiosEnabled)
		assert.Equal(t, "20040020", dto.OriginCEP)
		assert.Equal(t, firstID, repo.settings.ID)
	})

	t.Run("invalid origin CEP is rejected", func(t *testing.T) {
		service := NewSettingsService(&fakeSettingsRepo{}, "01310100")

		_, err := service.UpdateSettings(ctx, UpdateSettingsInput{OriginCEP: "123"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CEP", domainErr.Code)
	})
}
