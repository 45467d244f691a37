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

// GormBoxRepository implements shipping.BoxRepository using GORM
type GormBoxRepository struct {
	db *gorm.DB
}

// NewGormBoxRepository creates a new GormBoxRepository
func NewGormBoxRepository(db *gorm.DB) *GormBoxRepository {
	return &GormBoxRepository{db: db}
}

// Save creates or updates a packaging box
func (r *GormBoxRepository) Save(ctx context.Context, box *shipping.PackagingBox) error {
	return r.db.WithContext(ctx).Save(box).Error
}

// FindByID finds a packaging box by its ID
func (r *GormBoxRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.PackagingBox, error) {
	var box shipping.PackagingBox
	if err := r.db.WithContext(ctx).First(&box, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &box, nil
}

// FindByCode finds a packaging box by its unique code
func (r *GormBoxRepository) FindByCode(ctx context.Context, code string) (*shipping.PackagingBox, error) {
	var box shipping.PackagingBox
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&box).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &box, nil
}

// FindActive returns active boxes ordered by ascending inner volume
func (r *GormBoxRepository) FindActive(ctx context.Context) ([]shipping.PackagingBox, error) {
	var boxes []shipping.PackagingBox
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("inner_length_cm * inner_width_cm * inner_height_cm ASC").
		Find(&boxes).Error; err != nil {
		return nil, err
	}
	return boxes, nil
}

// FindAll finds all boxes matching the filter
func (r *GormBoxRepository) FindAll(ctx context.Context, filter shared.Filter) ([]shipping.PackagingBox, error) {
	var boxes []shipping.PackagingBox
	query := r.db.WithContext(ctx).Model(&shipping.PackagingBox{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}
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
		query = query.Order("sort_order ASC, code ASC")
	}

	if err := query.Find(&boxes).Error; err != nil {
		return nil, err
	}
	return boxes, nil
}

// Delete deletes a packaging box
func (r *GormBoxRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&shipping.PackagingBox{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormBoxRepository implements BoxRepository
var _ shipping.BoxRepository = (*GormBoxRepository)(nil)
