package shipping

import (
	"sort"
	"time"

	"github.com/mydfacylita/backend/internal/domain/shared"
)

// Correios-mandated minimums for a shippable package
const (
	MinPackageWeightKg = 0.3
	MinPackageLengthCm = 16.0
	MinPackageWidthCm  = 11.0
	MinPackageHeightCm = 2.0
)

// VolumetricDivisor converts cubic centimeters to billable kilograms
const VolumetricDivisor = 6000.0

// PackagingBox is a catalog entry describing a box or bag the warehouse
// packs orders into. Admin-managed, read-only during quoting.
type PackagingBox struct {
	shared.BaseAggregateRoot
	Code          string  `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string  `gorm:"type:varchar(100);not null"`
	InnerLengthCm float64 `gorm:"not null"`
	InnerWidthCm  float64 `gorm:"not null"`
	InnerHeightCm float64 `gorm:"not null"`
	MaxWeightKg   float64 `gorm:"not null"`
	SortOrder     int     `gorm:"not null;default:0"`
	Active        bool    `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (PackagingBox) TableName() string {
	return "packaging_boxes"
}

// NewPackagingBox creates a new active packaging box
func NewPackagingBox(code, name string, lengthCm, widthCm, heightCm, maxWeightKg float64) (*PackagingBox, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Box code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Box name cannot be empty")
	}
	if lengthCm <= 0 || widthCm <= 0 || heightCm <= 0 {
		return nil, shared.NewDomainError("INVALID_DIMENSIONS", "Box dimensions must be positive")
	}
	if maxWeightKg <= 0 {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Box weight capacity must be positive")
	}
	return &PackagingBox{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		InnerLengthCm:     lengthCm,
		InnerWidthCm:      widthCm,
		InnerHeightCm:     heightCm,
		MaxWeightKg:       maxWeightKg,
		Active:            true,
	}, nil
}

// Update replaces the box's dimensions and capacity
func (b *PackagingBox) Update(name string, lengthCm, widthCm, heightCm, maxWeightKg float64) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Box name cannot be empty")
	}
	if lengthCm <= 0 || widthCm <= 0 || heightCm <= 0 {
		return shared.NewDomainError("INVALID_DIMENSIONS", "Box dimensions must be positive")
	}
	if maxWeightKg <= 0 {
		return shared.NewDomainError("INVALID_CAPACITY", "Box weight capacity must be positive")
	}
	b.Name = name
	b.InnerLengthCm = lengthCm
	b.InnerWidthCm = widthCm
	b.InnerHeightCm = heightCm
	b.MaxWeightKg = maxWeightKg
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// InnerVolumeCm3 returns the usable volume of the box
func (b *PackagingBox) InnerVolumeCm3() float64 {
	return b.InnerLengthCm * b.InnerWidthCm * b.InnerHeightCm
}

// PackagingResult is the outcome of selecting a box for a cart.
// It is always usable: when no catalog box fits, the result degrades to
// best-effort dimensions instead of failing.
type PackagingResult struct {
	Box                *PackagingBox
	TotalWeightKg      float64
	VolumetricWeightKg float64
	LengthCm           float64
	WidthCm            float64
	HeightCm           float64
	// Utilization is the fraction of the chosen box's volume occupied by
	// the items, in [0,1]. Zero when no box was chosen.
	Utilization float64
	// Oversize is set when the items exceed every catalog box and the
	// largest box was used as a best-effort estimate.
	Oversize bool
}

// BillableWeightKg returns the weight carriers bill on: the greater of the
// actual and volumetric weights.
func (p PackagingResult) BillableWeightKg() float64 {
	if p.VolumetricWeightKg > p.TotalWeightKg {
		return p.VolumetricWeightKg
	}
	return p.TotalWeightKg
}

// SelectPackaging picks the smallest active box that holds the cart's total
// item volume and weight. With an empty catalog, zero items, or items that
// exceed every box, it degrades to usable defaults; it never fails.
func SelectPackaging(items []CartLineItem, catalog []PackagingBox) PackagingResult {
	var totalWeight, totalVolume float64
	for _, item := range items {
		qty := float64(item.Quantity)
		totalWeight += item.UnitWeightKg * qty
		totalVolume += item.UnitLengthCm * item.UnitWidthCm * item.UnitHeightCm * qty
	}

	result := PackagingResult{TotalWeightKg: totalWeight}

	boxes := make([]PackagingBox, 0, len(catalog))
	for _, b := range catalog {
		if b.Active {
			boxes = append(boxes, b)
		}
	}
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].InnerVolumeCm3() < boxes[j].InnerVolumeCm3()
	})

	// Carts without measurable volume skip the catalog entirely; the
	// dimension floors below produce the default package.
	if totalVolume > 0 {
		for i := range boxes {
			box := boxes[i]
			if totalVolume <= box.InnerVolumeCm3() && totalWeight <= box.MaxWeightKg {
				result.Box = &box
				result.LengthCm = box.InnerLengthCm
				result.WidthCm = box.InnerWidthCm
				result.HeightCm = box.InnerHeightCm
				result.Utilization = safeRatio(totalVolume, box.InnerVolumeCm3())
				break
			}
		}
	}

	if result.Box == nil && len(boxes) > 0 && totalVolume > 0 {
		// Nothing fits: estimate with the largest box rather than failing
		largest := boxes[len(boxes)-1]
		result.Box = &largest
		result.LengthCm = largest.InnerLengthCm
		result.WidthCm = largest.InnerWidthCm
		result.HeightCm = largest.InnerHeightCm
		result.Utilization = safeRatio(totalVolume, largest.InnerVolumeCm3())
		result.Oversize = true
	}

	applyPackageFloors(&result)
	result.VolumetricWeightKg = result.LengthCm * result.WidthCm * result.HeightCm / VolumetricDivisor
	return result
}

// applyPackageFloors clamps weight and dimensions to the carrier minimums
func applyPackageFloors(r *PackagingResult) {
	if r.TotalWeightKg < MinPackageWeightKg {
		r.TotalWeightKg = MinPackageWeightKg
	}
	if r.LengthCm < MinPackageLengthCm {
		r.LengthCm = MinPackageLengthCm
	}
	if r.WidthCm < MinPackageWidthCm {
		r.WidthCm = MinPackageWidthCm
	}
	if r.HeightCm < MinPackageHeightCm {
		r.HeightCm = MinPackageHeightCm
	}
}

func safeRatio(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	ratio := part / whole
	if ratio > 1 {
		return 1
	}
	return ratio
}
