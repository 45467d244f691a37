package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mydfacylita/backend/internal/domain/catalog"
	"github.com/mydfacylita/backend/internal/domain/shared"
)

// GormCategoryRepository implements catalog.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindWithAncestors returns the category plus up to ImportAncestryDepth levels
// of parents, keyed by id. A dangling parent reference stops the walk rather
// than failing the lookup.
func (r *GormCategoryRepository) FindWithAncestors(ctx context.Context, id uuid.UUID) (map[uuid.UUID]*catalog.Category, error) {
	result := make(map[uuid.UUID]*catalog.Category)

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result[current.ID] = current

	for hop := 0; hop < catalog.ImportAncestryDepth && current.ParentID != nil; hop++ {
		parent, err := r.FindByID(ctx, *current.ParentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				break
			}
			return nil, err
		}
		result[parent.ID] = parent
		current = parent
	}

	return result, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
