package shipping

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mydfacylita/backend/internal/domain/shipping"
)

// ---------------------------------------------------------------------------
// Quote DTOs
// ---------------------------------------------------------------------------

// QuoteItemInput is one cart line in a quote request
type QuoteItemInput struct {
	ProductID string `json:"id"`
	Quantity  int    `json:"quantity"`
}

// QuoteInput is the application-level quote request
type QuoteInput struct {
	CEP       string           `json:"cep"`
	CartValue *float64         `json:"cart_value,omitempty"`
	Items     []QuoteItemInput `json:"items"`
}

// PackagingDTO describes the box chosen for the shipment
type PackagingDTO struct {
	BoxCode            string  `json:"box_code,omitempty"`
	BoxName            string  `json:"box_name,omitempty"`
	TotalWeightKg      float64 `json:"total_weight_kg"`
	VolumetricWeightKg float64 `json:"volumetric_weight_kg"`
	BillableWeightKg   float64 `json:"billable_weight_kg"`
	LengthCm           float64 `json:"length_cm"`
	WidthCm            float64 `json:"width_cm"`
	HeightCm           float64 `json:"height_cm"`
	Utilization        float64 `json:"utilization"`
	Oversize           bool    `json:"oversize,omitempty"`
}

// QuoteOptionDTO is one alternative carrier offer
type QuoteOptionDTO struct {
	Service      string `json:"service"`
	Carrier      string `json:"carrier"`
	Cost         string `json:"cost"`
	DeliveryDays int    `json:"delivery_days"`
}

// PromoDTO is the "add R$X more" storefront hint
type PromoDTO struct {
	MissingAmount string `json:"missing_amount"`
	Message       string `json:"message"`
}

// QuoteResult is the application-level quote response
type QuoteResult struct {
	ShippingCost    string           `json:"shipping_cost"`
	DeliveryDays    int              `json:"delivery_days"`
	IsFree          bool             `json:"is_free"`
	ShippingMethod  string           `json:"shipping_method"`
	ShippingService string           `json:"shipping_service,omitempty"`
	ShippingCarrier string           `json:"shipping_carrier,omitempty"`
	Packaging       *PackagingDTO    `json:"packaging,omitempty"`
	Options         []QuoteOptionDTO `json:"shipping_options,omitempty"`
	Promo           *PromoDTO        `json:"promo,omitempty"`
}

func toQuoteResult(quote shipping.ShippingQuote) *QuoteResult {
	result := &QuoteResult{
		ShippingCost:    quote.Cost.StringFixed(2),
		DeliveryDays:    quote.DeliveryDays,
		IsFree:          quote.IsFree,
		ShippingMethod:  string(quote.Method),
		ShippingService: quote.Service,
		ShippingCarrier: quote.Carrier,
	}

	if quote.Packaging != nil {
		result.Packaging = toPackagingDTO(quote.Packaging)
	}
	for _, opt := range quote.Options {
		result.Options = append(result.Options, QuoteOptionDTO{
			Service:      opt.Service,
			Carrier:      opt.Carrier,
			Cost:         opt.Cost.StringFixed(2),
			DeliveryDays: opt.DeliveryDays,
		})
	}
	if quote.Promo != nil {
		result.Promo = &PromoDTO{
			MissingAmount: quote.Promo.MissingAmount.StringFixed(2),
			Message:       quote.Promo.Message,
		}
	}
	return result
}

func toPackagingDTO(p *shipping.PackagingResult) *PackagingDTO {
	dto := &PackagingDTO{
		TotalWeightKg:      p.TotalWeightKg,
		VolumetricWeightKg: p.VolumetricWeightKg,
		BillableWeightKg:   p.BillableWeightKg(),
		LengthCm:           p.LengthCm,
		WidthCm:            p.WidthCm,
		HeightCm:           p.HeightCm,
		Utilization:        p.Utilization,
		Oversize:           p.Oversize,
	}
	if p.Box != nil {
		dto.BoxCode = p.Box.Code
		dto.BoxName = p.Box.Name
	}
	return dto
}

// ---------------------------------------------------------------------------
// Rule DTOs
// ---------------------------------------------------------------------------

// RuleDTO is the admin view of a shipping rule
type RuleDTO struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Priority     int      `json:"priority"`
	RegionType   string   `json:"region_type"`
	RegionData   string   `json:"region_data,omitempty"`
	MinCartValue *string  `json:"min_cart_value,omitempty"`
	MaxCartValue *string  `json:"max_cart_value,omitempty"`
	MinWeightKg  *float64 `json:"min_weight_kg,omitempty"`
	MaxWeightKg  *float64 `json:"max_weight_kg,omitempty"`
	FlatCost     string   `json:"flat_cost"`
	CostPerKg    string   `json:"cost_per_kg"`
	FreeShipMin  *string  `json:"free_ship_min,omitempty"`
	DeliveryDays int      `json:"delivery_days"`
	Active       bool     `json:"active"`
	Version      int      `json:"version"`
}

// CreateRuleInput carries the fields for a new rule
type CreateRuleInput struct {
	Name         string   `json:"name"`
	Priority     int      `json:"priority"`
	RegionType   string   `json:"region_type"`
	RegionData   string   `json:"region_data"`
	MinCartValue *float64 `json:"min_cart_value"`
	MaxCartValue *float64 `json:"max_cart_value"`
	MinWeightKg  *float64 `json:"min_weight_kg"`
	MaxWeightKg  *float64 `json:"max_weight_kg"`
	FlatCost     float64  `json:"flat_cost"`
	CostPerKg    float64  `json:"cost_per_kg"`
	FreeShipMin  *float64 `json:"free_ship_min"`
	DeliveryDays int      `json:"delivery_days"`
}

// UpdateRuleInput carries the mutable fields of a rule
type UpdateRuleInput struct {
	Name         string   `json:"name"`
	Priority     int      `json:"priority"`
	RegionType   string   `json:"region_type"`
	RegionData   string   `json:"region_data"`
	MinCartValue *float64 `json:"min_cart_value"`
	MaxCartValue *float64 `json:"max_cart_value"`
	MinWeightKg  *float64 `json:"min_weight_kg"`
	MaxWeightKg  *float64 `json:"max_weight_kg"`
	FlatCost     float64  `json:"flat_cost"`
	CostPerKg    float64  `json:"cost_per_kg"`
	FreeShipMin  *float64 `json:"free_ship_min"`
	DeliveryDays int      `json:"delivery_days"`
	Active       *bool    `json:"active"`
}

// RuleListResult is a page of rules
type RuleListResult struct {
	Rules []RuleDTO `json:"rules"`
	Total int64     `json:"total"`
}

func toRuleDTO(rule *shipping.ShippingRule) RuleDTO {
	dto := RuleDTO{
		ID:           rule.ID.String(),
		Name:         rule.Name,
		Priority:     rule.Priority,
		RegionType:   string(rule.RegionType),
		RegionData:   rule.RegionData,
		MinWeightKg:  rule.MinWeightKg,
		MaxWeightKg:  rule.MaxWeightKg,
		FlatCost:     rule.FlatCost.StringFixed(2),
		CostPerKg:    rule.CostPerKg.StringFixed(2),
		DeliveryDays: rule.DeliveryDays,
		Active:       rule.Active,
		Version:      rule.Version,
	}
	dto.MinCartValue = decimalString(rule.MinCartValue)
	dto.MaxCartValue = decimalString(rule.MaxCartValue)
	dto.FreeShipMin = decimalString(rule.FreeShipMin)
	return dto
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

func decimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

// ---------------------------------------------------------------------------
// Box DTOs
// ---------------------------------------------------------------------------

// BoxDTO is the admin view of a packaging box
type BoxDTO struct {
	ID            string  `json:"id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	InnerLengthCm float64 `json:"inner_length_cm"`
	InnerWidthCm  float64 `json:"inner_width_cm"`
	InnerHeightCm float64 `json:"inner_height_cm"`
	MaxWeightKg   float64 `json:"max_weight_kg"`
	InnerVolume   float64 `json:"inner_volume_cm3"`
	SortOrder     int     `json:"sort_order"`
	Active        bool    `json:"active"`
	Version       int     `json:"version"`
}

// CreateBoxInput carries the fields for a new packaging box
type CreateBoxInput struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	InnerLengthCm float64 `json:"inner_length_cm"`
	InnerWidthCm  float64 `json:"inner_width_cm"`
	InnerHeightCm float64 `json:"inner_height_cm"`
	MaxWeightKg   float64 `json:"max_weight_kg"`
	SortOrder     int     `json:"sort_order"`
}

// UpdateBoxInput carries the mutable fields of a packaging box
type UpdateBoxInput struct {
	Name          string  `json:"name"`
	InnerLengthCm float64 `json:"inner_length_cm"`
	InnerWidthCm  float64 `json:"inner_width_cm"`
	InnerHeightCm float64 `json:"inner_height_cm"`
	MaxWeightKg   float64 `json:"max_weight_kg"`
	SortOrder     int     `json:"sort_order"`
	Active        *bool   `json:"active"`
}

// BoxListResult is a page of boxes
type BoxListResult struct {
	Boxes []BoxDTO `json:"boxes"`
	Total int      `json:"total"`
}

func toBoxDTO(box *shipping.PackagingBox) BoxDTO {
	return BoxDTO{
		ID:            box.ID.String(),
		Code:          box.Code,
		Name:          box.Name,
		InnerLengthCm: box.InnerLengthCm,
		InnerWidthCm:  box.InnerWidthCm,
		InnerHeightCm: box.InnerHeightCm,
		MaxWeightKg:   box.MaxWeightKg,
		InnerVolume:   box.InnerVolumeCm3(),
		SortOrder:     box.SortOrder,
		Active:        box.Active,
		Version:       box.Version,
	}
}

// ---------------------------------------------------------------------------
// Settings DTOs
// ---------------------------------------------------------------------------

// SettingsDTO is the admin view of shipping settings
type SettingsDTO struct {
	CorreiosEnabled bool   `json:"correios_enabled"`
	OriginCEP       string `json:"origin_cep"`
}

// UpdateSettingsInput carries the mutable settings fields
type UpdateSettingsInput struct {
	CorreiosEnabled bool   `json:"correios_enabled"`
	OriginCEP       string `json:"origin_cep"`
}

func parseID(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}
