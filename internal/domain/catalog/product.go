package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mydfacylita/backend/internal/domain/shared"
)

// Product is the catalog read model a quote request resolves its lines
// against. Listing, media, and pricing management live elsewhere; quoting
// needs price, physical attributes, and the category/supplier links that
// drive classification.
type Product struct {
	shared.BaseAggregateRoot
	Name       string          `gorm:"type:varchar(200);not null"`
	SKU        string          `gorm:"type:varchar(60);not null;uniqueIndex"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	WeightKg   float64         `gorm:"not null;default:0"`
	LengthCm   float64         `gorm:"not null;default:0"`
	WidthCm    float64         `gorm:"not null;default:0"`
	HeightCm   float64         `gorm:"not null;default:0"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index"`
	SupplierID *uuid.UUID      `gorm:"type:uuid;index"`
	// SellerID is set when a third-party seller owns the listing
	SellerID *uuid.UUID `gorm:"type:uuid;index"`
	// ExternalID is the upstream marketplace product id for dropship items
	ExternalID string `gorm:"type:varchar(60);index"`
	Active     bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product
func NewProduct(name, sku string, price decimal.Decimal) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               sku,
		Price:             price,
		Active:            true,
	}, nil
}

// SetDimensions sets the product's physical attributes used for packaging
func (p *Product) SetDimensions(weightKg, lengthCm, widthCm, heightCm float64) error {
	if weightKg < 0 || lengthCm < 0 || widthCm < 0 || heightCm < 0 {
		return shared.NewDomainError("INVALID_DIMENSIONS", "Product dimensions cannot be negative")
	}
	p.WeightKg = weightKg
	p.LengthCm = lengthCm
	p.WidthCm = widthCm
	p.HeightCm = heightCm
	return nil
}
