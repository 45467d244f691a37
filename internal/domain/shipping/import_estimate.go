package shipping

import (
	"github.com/shopspring/decimal"
)

// Public-facing labels for cross-border quotes. The upstream marketplace's
// own name is never shown to the storefront.
const (
	ServiceInternationalStandard = "Entrega Internacional"
	ServiceInternationalExpress  = "Entrega Internacional Expressa"
	CarrierInternational         = "Internacional"
)

// Deterministic import estimate, used whenever the marketplace cannot be
// consulted. Values are in BRL and business days.
var (
	// ImportFreeShippingMin is the product price at which the estimated
	// import freight becomes free
	ImportFreeShippingMin = decimal.NewFromFloat(150.00)
	// ImportBaseCost is the flat component of the paid estimate
	ImportBaseCost = decimal.NewFromFloat(25.90)
	// ImportCostPerKg is the weight component of the paid estimate
	ImportCostPerKg = decimal.NewFromFloat(4.50)

	importTier100 = decimal.NewFromFloat(100.00)
	importTier50  = decimal.NewFromFloat(50.00)

	importSurcharge100 = decimal.NewFromFloat(10.00)
	importSurcharge50  = decimal.NewFromFloat(5.00)
)

// EstimateImportFreight computes the fallback cross-border quote from the
// product price and weight alone: free above the threshold, otherwise base
// cost plus per-kg and price-tier surcharges. Delivery windows widen as the
// price tier drops, mirroring the slower postal channels cheap imports use.
func EstimateImportFreight(productPrice decimal.Decimal, weightKg float64) ShippingQuote {
	quote := ShippingQuote{
		Method:  MethodInternational,
		Service: ServiceInternationalStandard,
		Carrier: CarrierInternational,
	}

	switch {
	case productPrice.GreaterThanOrEqual(ImportFreeShippingMin):
		quote.DeliveryDays = 15
	case productPrice.GreaterThanOrEqual(importTier100):
		quote.DeliveryDays = 20
	case productPrice.GreaterThanOrEqual(importTier50):
		quote.DeliveryDays = 30
	default:
		quote.DeliveryDays = 45
	}

	if productPrice.GreaterThanOrEqual(ImportFreeShippingMin) {
		quote.Cost = decimal.Zero
		quote.IsFree = true
		return quote
	}

	cost := ImportBaseCost.Add(ImportCostPerKg.Mul(decimal.NewFromFloat(weightKg)))
	switch {
	case productPrice.GreaterThanOrEqual(importTier100):
		cost = cost.Add(importSurcharge100)
	case productPrice.GreaterThanOrEqual(importTier50):
		cost = cost.Add(importSurcharge50)
	}

	quote.Cost = cost.Round(2)
	return quote
}
