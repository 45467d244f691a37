package shipping

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoRates indicates an adapter answered but offered no usable rate
var ErrNoRates = errors.New("shipping: no usable rates returned")

// RateRequest describes a domestic package for a carrier rate lookup
type RateRequest struct {
	OriginCEP      CEP
	DestinationCEP CEP
	WeightKg       float64
	LengthCm       float64
	WidthCm        float64
	HeightCm       float64
	DeclaredValue  decimal.Decimal
}

// CarrierGateway obtains domestic rate options from an external carrier.
// Implementations must return ErrNoRates when the carrier answers with an
// empty or fully errored option set.
type CarrierGateway interface {
	Rates(ctx context.Context, req RateRequest) ([]QuoteOption, error)
}

// Address is a postal-code resolution result
type Address struct {
	CEP      CEP
	State    string
	City     string
	District string
}

// PostalLookup resolves a CEP to its state and city
type PostalLookup interface {
	Lookup(ctx context.Context, cep CEP) (*Address, error)
}

// MarketplaceFreightRequest describes a cross-border dropship line for a
// marketplace freight query
type MarketplaceFreightRequest struct {
	// ExternalProductID is the marketplace's product identifier
	ExternalProductID string
	Quantity          int
	DestinationCEP    CEP
	ProductPrice      decimal.Decimal
}

// MarketplaceFreightGateway obtains delivery options for a dropship item
// from the upstream marketplace. Implementations must return ErrNoRates when
// the marketplace offers no deliverable option.
type MarketplaceFreightGateway interface {
	FreightOptions(ctx context.Context, req MarketplaceFreightRequest) ([]QuoteOption, error)
}
