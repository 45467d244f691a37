package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository reads products for quoting
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	Save(ctx context.Context, product *Product) error
}

// CategoryRepository reads categories for quoting
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	// FindWithAncestors returns the category plus up to ImportAncestryDepth
	// levels of parents, keyed by id
	FindWithAncestors(ctx context.Context, id uuid.UUID) (map[uuid.UUID]*Category, error)
	Save(ctx context.Context, category *Category) error
}

// SupplierRepository reads suppliers for quoting
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	Save(ctx context.Context, supplier *Supplier) error
}
