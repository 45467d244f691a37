package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mydfacylita/backend/internal/domain/shared"
	"github.com/mydfacylita/backend/internal/domain/shipping"
)

// GormRuleRepository implements shipping.RuleRepository using GORM
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates a new GormRuleRepository
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// Save creates or updates a shipping rule
func (r *GormRuleRepository) Save(ctx context.Context, rule *shipping.ShippingRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

// FindByID finds a shipping rule by its ID
func (r *GormRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.ShippingRule, error) {
	var rule shipping.ShippingRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// FindActive returns all active rules ordered by descending priority
func (r *GormRuleRepository) FindActive(ctx context.Context) ([]shipping.ShippingRule, error) {
	var rules []shipping.ShippingRule
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("priority DESC, created_at ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// FindAll finds all rules matching the filter
func (r *GormRuleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]shipping.ShippingRule, error) {
	var rules []shipping.ShippingRule
	query := r.applyFilter(r.db.WithContext(ctx).Model(&shipping.ShippingRule{}), filter)
	if err := query.Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// Count counts rules matching the filter
func (r *GormRuleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&shipping.ShippingRule{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete deletes a shipping rule
func (r *GormRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&shipping.ShippingRule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormRuleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("priority DESC, created_at ASC")
	}

	return query
}

func (r *GormRuleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		case "region_type":
			query = query.Where("region_type = ?", value)
		}
	}

	return query
}

// Ensure GormRuleRepository implements RuleRepository
var _ shipping.RuleRepository = (*GormRuleRepository)(nil)
