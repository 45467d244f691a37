package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mydfacylita/backend/internal/domain/shared"
	"github.com/mydfacylita/backend/internal/domain/shipping"
)

// GormSettingsRepository implements shipping.SettingsRepository using GORM.
// Settings are a singleton row; Get returns shared.ErrNotFound until the
// first Save.
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the singleton settings row
func (r *GormSettingsRepository) Get(ctx context.Context) (*shipping.Settings, error) {
	var settings shipping.Settings
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// Save creates or updates the settings row
func (r *GormSettingsRepository) Save(ctx context.Context, settings *shipping.Settings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

// Ensure GormSettingsRepository implements SettingsRepository
var _ shipping.SettingsRepository = (*GormSettingsRepository)(nil)
