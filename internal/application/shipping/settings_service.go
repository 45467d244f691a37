package shipping

import (
	"context"
	"errors"

	"github.com/mydfacylita/backend/internal/domain/shared"
	"github.com/mydfacylita/backend/internal/domain/shipping"
)

// SettingsService manages the singleton shipping settings row
type SettingsService struct {
	settings         shipping.SettingsRepository
	defaultOriginCEP string
}

// NewSettingsService creates a new settings service
func NewSettingsService(settings shipping.SettingsRepository, defaultOriginCEP string) *SettingsService {
	return &SettingsService{
		settings:         settings,
		defaultOriginCEP: defaultOriginCEP,
	}
}

// GetSettings returns the stored settings, or configuration defaults while
// the table is still empty
func (s *SettingsService) GetSettings(ctx context.Context) (*SettingsDTO, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &SettingsDTO{
				CorreiosEnabled: false,
				OriginCEP:       s.defaultOriginCEP,
			}, nil
		}
		return nil, err
	}
	return &SettingsDTO{
		CorreiosEnabled: settings.CorreiosEnabled,
		OriginCEP:       settings.OriginCEP,
	}, nil
}

// UpdateSettings upserts the settings row
func (s *SettingsService) UpdateSettings(ctx context.Context, input UpdateSettingsInput) (*SettingsDTO, error) {
	settings, err := s.settings.Get(ctx)
	switch {
	case err == nil:
		if err := settings.Update(input.OriginCEP, input.CorreiosEnabled); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		settings, err = shipping.NewSettings(input.OriginCEP, input.CorreiosEnabled)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.settings.Save(ctx, settings); err != nil {
		return nil, err
	}
	return &SettingsDTO{
		CorreiosEnabled: settings.CorreiosEnabled,
		OriginCEP:       settings.OriginCEP,
	}, nil
}
