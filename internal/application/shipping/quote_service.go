package shipping

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mydfacylita/backend/internal/domain/catalog"
	"github.com/mydfacylita/backend/internal/domain/shared"
	"github.com/mydfacylita/backend/internal/domain/shipping"
)

// QuoteConfig holds the operator-tunable quote parameters that do not live
// in the settings table
type QuoteConfig struct {
	// FallbackCost is the flat rate when no rule or carrier applies
	FallbackCost float64
	// FallbackDeliveryDays accompanies FallbackCost
	FallbackDeliveryDays int
	// FallbackFreeMin drives the promo hint on fallback quotes; zero disables
	FallbackFreeMin float64
	// DefaultOriginCEP is used until the settings row exists
	DefaultOriginCEP string
}

// QuoteService assembles shipping quotes. The flow is a small state machine:
// classify the cart, then either the imported path (marketplace freight with
// a deterministic estimate behind it) or the domestic path (packaging, rule
// matching, carrier lookup, flat fallback). Every failure past request
// validation degrades to a usable quote.
type QuoteService struct {
	rules      shipping.RuleRepository
	boxes      shipping.BoxRepository
	settings   shipping.SettingsRepository
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	suppliers  catalog.SupplierRepository

	carrier     shipping.CarrierGateway
	marketplace shipping.MarketplaceFreightGateway

	config QuoteConfig
	logger *zap.Logger
}

// NewQuoteService creates a new quote service. carrier and marketplace may
// be nil when the respective integration is not configured.
func NewQuoteService(
	rules shipping.RuleRepository,
	boxes shipping.BoxRepository,
	settings shipping.SettingsRepository,
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	suppliers catalog.SupplierRepository,
	carrier shipping.CarrierGateway,
	marketplace shipping.MarketplaceFreightGateway,
	config QuoteConfig,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		rules:       rules,
		boxes:       boxes,
		settings:    settings,
		products:    products,
		categories:  categories,
		suppliers:   suppliers,
		carrier:     carrier,
		marketplace: marketplace,
		config:      config,
		logger:      logger.Named("quote"),
	}
}

// Quote computes a shipping quote for a cart. The only errors it returns are
// request validation failures; everything downstream degrades to a fallback
// quote so checkout is never blocked by a shipping-rate failure.
func (s *QuoteService) Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error) {
	dest, err := shipping.ParseCEP(input.CEP)
	if err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Quote request must contain at least one item")
	}

	lines, err := s.resolveLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	cartValue := decimal.Zero
	for _, line := range lines {
		cartValue = cartValue.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	if input.CartValue != nil {
		cartValue = decimal.NewFromFloat(*input.CartValue)
	}

	// CLASSIFY: any imported line routes the whole cart down the
	// international path. The first imported line is taken as representative
	// of the international portion.
	for i := range lines {
		if lines[i].IsImported() {
			quote := s.importedQuote(ctx, dest, lines[i])
			return toQuoteResult(quote), nil
		}
	}

	quote := s.domesticQuote(ctx, dest, cartValue, lines)
	return toQuoteResult(quote), nil
}

// resolveLines loads products and classifies each line's fulfillment origin
func (s *QuoteService) resolveLines(ctx context.Context, items []QuoteItemInput) ([]shipping.CartLineItem, error) {
	ids := make([]uuid.UUID, 0, len(items))
	quantities := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
		}
		id, err := parseID(item.ProductID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT_ID", fmt.Sprintf("Invalid product id %q", item.ProductID))
		}
		ids = append(ids, id)
		quantities[id] += item.Quantity
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]shipping.CartLineItem, 0, len(quantities))
	seen := make(map[uuid.UUID]bool, len(quantities))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		product, ok := byID[id]
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", fmt.Sprintf("Product %s does not exist", id))
		}

		line := shipping.CartLineItem{
			ProductID:    product.ID,
			Quantity:     quantities[id],
			UnitPrice:    product.Price,
			UnitWeightKg: product.WeightKg,
			UnitLengthCm: product.LengthCm,
			UnitWidthCm:  product.WidthCm,
			UnitHeightCm: product.HeightCm,
			Origin:       shipping.OriginPlatform,
			SellerID:     product.SellerID,
			ExternalID:   product.ExternalID,
		}
		if product.SellerID != nil {
			line.Origin = shipping.OriginSeller
		}
		if s.isImported(ctx, product) {
			line.Origin = shipping.OriginDropship
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// isImported reports whether a product is cross-border dropship: its
// category ancestry must carry the imported flag AND its supplier must be a
// recognized international marketplace. Lookup failures classify as
// domestic; a misclassification here only changes which estimate the
// customer sees.
func (s *QuoteService) isImported(ctx context.Context, product *catalog.Product) bool {
	if product.CategoryID == nil || product.SupplierID == nil {
		return false
	}

	ancestry, err := s.categories.FindWithAncestors(ctx, *product.CategoryID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("category ancestry lookup failed",
				zap.String("product_id", product.ID.String()),
				zap.Error(err))
		}
		return false
	}
	cat, ok := ancestry[*product.CategoryID]
	if !ok || !catalog.ResolveImported(cat, ancestry) {
		return false
	}

	supplier, err := s.suppliers.FindByID(ctx, *product.SupplierID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("supplier lookup failed",
				zap.String("product_id", product.ID.String()),
				zap.Error(err))
		}
		return false
	}
	return supplier.IsInternationalMarketplace()
}

// importedQuote handles the international path: ask the marketplace for
// real options, and on any failure fall back to the deterministic estimate.
func (s *QuoteService) importedQuote(ctx context.Context, dest shipping.CEP, line shipping.CartLineItem) shipping.ShippingQuote {
	if s.marketplace != nil && line.ExternalID != "" {
		options, err := s.marketplace.FreightOptions(ctx, shipping.MarketplaceFreightRequest{
			ExternalProductID: line.ExternalID,
			Quantity:          line.Quantity,
			DestinationCEP:    dest,
			ProductPrice:      line.UnitPrice,
		})
		if err == nil && len(options) > 0 {
			best := options[0]
			return shipping.ShippingQuote{
				Cost:         best.Cost,
				DeliveryDays: best.DeliveryDays,
				IsFree:       best.Cost.IsZero(),
				Method:       shipping.MethodInternational,
				Service:      best.Service,
				Carrier:      best.Carrier,
				Options:      options,
			}
		}
		s.logger.Warn("marketplace freight unavailable, using estimate",
			zap.String("external_id", line.ExternalID),
			zap.Error(err))
	}

	weight := line.UnitWeightKg * float64(line.Quantity)
	return shipping.EstimateImportFreight(line.UnitPrice, weight)
}

// domesticQuote handles the domestic path: packaging, rule matching, then
// the carrier, then the flat fallback.
func (s *QuoteService) domesticQuote(ctx context.Context, dest shipping.CEP, cartValue decimal.Decimal, lines []shipping.CartLineItem) shipping.ShippingQuote {
	boxes, err := s.boxes.FindActive(ctx)
	if err != nil {
		s.logger.Warn("box catalog unavailable, packaging degrades to floors", zap.Error(err))
		boxes = nil
	}
	packaging := shipping.SelectPackaging(lines, boxes)
	billable := packaging.BillableWeightKg()

	rules, err := s.rules.FindActive(ctx)
	if err != nil {
		s.logger.Warn("rule set unavailable, skipping rule matching", zap.Error(err))
		rules = nil
	}

	outcome := shipping.MatchRule(rules, dest, cartValue, billable)
	if outcome.Rule != nil {
		return s.ruleQuote(outcome.Rule, cartValue, billable, &packaging)
	}

	if quote, ok := s.carrierQuote(ctx, dest, cartValue, billable, &packaging); ok {
		quote.Promo = s.promoFromOutcome(outcome, cartValue)
		return quote
	}

	return s.fallbackQuote(cartValue, outcome, &packaging)
}

func (s *QuoteService) ruleQuote(rule *shipping.ShippingRule, cartValue decimal.Decimal, billable float64, packaging *shipping.PackagingResult) shipping.ShippingQuote {
	if rule.RegionType == shipping.RegionCity {
		// City rules match every destination; keep the gap visible in logs
		s.logger.Warn("city-scoped rule matched without city filtering",
			zap.String("rule_id", rule.ID.String()),
			zap.String("rule_name", rule.Name))
	}

	cost, free := rule.Cost(cartValue, billable)
	quote := shipping.ShippingQuote{
		Cost:         cost,
		DeliveryDays: rule.DeliveryDays,
		IsFree:       free,
		Method:       shipping.MethodRule,
		Service:      rule.Name,
		Packaging:    packaging,
	}

	// Matched but not free: hint how much more unlocks free shipping
	if !free && rule.FreeShipMin != nil && cartValue.LessThan(*rule.FreeShipMin) {
		missing := rule.FreeShipMin.Sub(cartValue)
		quote.Promo = promoHint(missing)
	}
	return quote
}

func (s *QuoteService) carrierQuote(ctx context.Context, dest shipping.CEP, cartValue decimal.Decimal, billable float64, packaging *shipping.PackagingResult) (shipping.ShippingQuote, bool) {
	settings := s.loadSettings(ctx)
	if !settings.CorreiosEnabled || s.carrier == nil {
		return shipping.ShippingQuote{}, false
	}

	options, err := s.carrier.Rates(ctx, shipping.RateRequest{
		OriginCEP:      settings.Origin(),
		DestinationCEP: dest,
		WeightKg:       billable,
		LengthCm:       packaging.LengthCm,
		WidthCm:        packaging.WidthCm,
		HeightCm:       packaging.HeightCm,
		DeclaredValue:  cartValue,
	})
	if err != nil || len(options) == 0 {
		s.logger.Warn("carrier rates unavailable, using fallback", zap.Error(err))
		return shipping.ShippingQuote{}, false
	}

	best := options[0]
	return shipping.ShippingQuote{
		Cost:         best.Cost,
		DeliveryDays: best.DeliveryDays,
		Method:       shipping.MethodCarrier,
		Service:      best.Service,
		Carrier:      best.Carrier,
		Packaging:    packaging,
		Options:      options,
	}, true
}

func (s *QuoteService) fallbackQuote(cartValue decimal.Decimal, outcome shipping.MatchOutcome, packaging *shipping.PackagingResult) shipping.ShippingQuote {
	quote := shipping.ShippingQuote{
		Cost:         decimal.NewFromFloat(s.config.FallbackCost).Round(2),
		DeliveryDays: s.config.FallbackDeliveryDays,
		Method:       shipping.MethodFallback,
		Service:      "Entrega Padrão",
		Packaging:    packaging,
	}

	quote.Promo = s.promoFromOutcome(outcome, cartValue)
	if quote.Promo == nil && s.config.FallbackFreeMin > 0 {
		freeMin := decimal.NewFromFloat(s.config.FallbackFreeMin)
		if cartValue.LessThan(freeMin) {
			quote.Promo = promoHint(freeMin.Sub(cartValue))
		}
	}
	return quote
}

// promoFromOutcome converts the rule scan's side channel into a storefront hint
func (s *QuoteService) promoFromOutcome(outcome shipping.MatchOutcome, cartValue decimal.Decimal) *shipping.PromoHint {
	if outcome.MissingForCheaper == nil {
		return nil
	}
	return promoHint(*outcome.MissingForCheaper)
}

func promoHint(missing decimal.Decimal) *shipping.PromoHint {
	return &shipping.PromoHint{
		MissingAmount: missing.Round(2),
		Message:       fmt.Sprintf("Adicione R$ %s em produtos para desbloquear frete mais barato", missing.Round(2).StringFixed(2)),
	}
}

// loadSettings returns the stored settings, or defaults built from
// configuration when the table is still empty
func (s *QuoteService) loadSettings(ctx context.Context) *shipping.Settings {
	settings, err := s.settings.Get(ctx)
	if err == nil {
		return settings
	}
	if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Warn("settings lookup failed, using defaults", zap.Error(err))
	}
	defaults, derr := shipping.NewSettings(s.config.DefaultOriginCEP, false)
	if derr != nil {
		return &shipping.Settings{CorreiosEnabled: false}
	}
	return defaults
}
