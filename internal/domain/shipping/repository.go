package shipping

import (
	"context"

	"github.com/google/uuid"

	"github.com/mydfacylita/backend/internal/domain/shared"
)

// RuleRepository persists shipping rules
type RuleRepository interface {
	Save(ctx context.Context, rule *ShippingRule) error
	FindByID(ctx context.Context, id uuid.UUID) (*ShippingRule, error)
	// FindActive returns all active rules ordered by descending priority
	FindActive(ctx context.Context) ([]ShippingRule, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ShippingRule, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BoxRepository persists the packaging box catalog
type BoxRepository interface {
	Save(ctx context.Context, box *PackagingBox) error
	FindByID(ctx context.Context, id uuid.UUID) (*PackagingBox, error)
	FindByCode(ctx context.Context, code string) (*PackagingBox, error)
	// FindActive returns active boxes ordered by ascending inner volume
	FindActive(ctx context.Context) ([]PackagingBox, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PackagingBox, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SettingsRepository persists the singleton shipping settings row
type SettingsRepository interface {
	Get(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, settings *Settings) error
}
