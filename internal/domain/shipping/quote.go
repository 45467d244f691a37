package shipping

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemOrigin classifies who fulfills a cart line
type ItemOrigin string

const (
	// OriginPlatform is stock fulfilled by the platform's own warehouse
	OriginPlatform ItemOrigin = "platform"
	// OriginSeller is stock fulfilled by a third-party marketplace seller
	OriginSeller ItemOrigin = "seller"
	// OriginDropship is a cross-border item shipped by an external marketplace
	OriginDropship ItemOrigin = "dropship"
)

// CartLineItem is one line of a quote request, resolved against the catalog.
// Built fresh per request and discarded after the response.
type CartLineItem struct {
	ProductID    uuid.UUID
	Quantity     int
	UnitPrice    decimal.Decimal
	UnitWeightKg float64
	UnitLengthCm float64
	UnitWidthCm  float64
	UnitHeightCm float64
	Origin       ItemOrigin
	SellerID     *uuid.UUID
	// ExternalID is the upstream marketplace product id for dropship lines
	ExternalID string
}

// IsImported reports whether the line ships cross-border
func (i CartLineItem) IsImported() bool {
	return i.Origin == OriginDropship
}

// QuoteOption is one carrier service offer inside a quote
type QuoteOption struct {
	Service      string          `json:"service"`
	Carrier      string          `json:"carrier"`
	Cost         decimal.Decimal `json:"cost"`
	DeliveryDays int             `json:"delivery_days"`
}

// PromoHint tells the storefront how much more the customer must add to the
// cart to unlock free or cheaper shipping.
type PromoHint struct {
	MissingAmount decimal.Decimal `json:"missing_amount"`
	Message       string          `json:"message"`
}

// QuoteMethod identifies which path produced the quote
type QuoteMethod string

const (
	MethodRule          QuoteMethod = "rule"
	MethodCarrier       QuoteMethod = "carrier"
	MethodInternational QuoteMethod = "international"
	MethodFallback      QuoteMethod = "fallback"
)

// ShippingQuote is the final answer for a quote request. It is ephemeral:
// computed per request, returned to the caller, never persisted.
type ShippingQuote struct {
	Cost         decimal.Decimal
	DeliveryDays int
	IsFree       bool
	Method       QuoteMethod
	Service      string
	Carrier      string
	Packaging    *PackagingResult
	Options      []QuoteOption
	Promo        *PromoHint
}
