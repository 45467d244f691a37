package catalog

import (
	"github.com/google/uuid"

	"github.com/mydfacylita/backend/internal/domain/shared"
)

// ImportAncestryDepth is how many parent levels are consulted when deciding
// whether a category counts as imported
const ImportAncestryDepth = 2

// Category is a product category. Quote classification only needs the
// parent link and the imported flag; the full tree lives in the admin panel.
type Category struct {
	shared.BaseAggregateRoot
	Name     string     `gorm:"type:varchar(100);not null"`
	Slug     string     `gorm:"type:varchar(120);not null;uniqueIndex"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"`
	// Imported marks categories whose products are cross-border dropship
	Imported bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name, slug string, parentID *uuid.UUID, imported bool) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Category slug cannot be empty")
	}
	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		ParentID:          parentID,
		Imported:          imported,
	}, nil
}

// ResolveImported walks the category ancestry, up to ImportAncestryDepth
// parent hops, and reports whether the category or any consulted ancestor is
// flagged imported. Missing parents end the walk without error.
func ResolveImported(cat *Category, byID map[uuid.UUID]*Category) bool {
	current := cat
	for hop := 0; current != nil && hop <= ImportAncestryDepth; hop++ {
		if current.Imported {
			return true
		}
		if current.ParentID == nil {
			return false
		}
		current = byID[*current.ParentID]
	}
	return false
}
