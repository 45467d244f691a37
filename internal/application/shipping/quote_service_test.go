package shipping

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mydfacylita/backend/internal/domain/catalog"
	"github.com/mydfacylita/backend/internal/domain/shared"
	"github.com/mydfacylita/backend/internal/domain/shipping"
)

type quoteFixture struct {
	rules       *fakeRuleRepo
	boxes       *fakeBoxRepo
	settings    *fakeSettingsRepo
	products    *fakeProductRepo
	categories  *fakeCategoryRepo
	suppliers   *fakeSupplierRepo
	carrier     *stubCarrier
	marketplace *stubMarketplace
	config      QuoteConfig
}

func newQuoteFixture() *quoteFixture {
	return &quoteFixture{
		rules:      newFakeRuleRepo(),
		boxes:      newFakeBoxRepo(),
		settings:   &fakeSettingsRepo{},
		products:   newFakeProductRepo(),
		categories: newFakeCategoryRepo(),
		suppliers:  newFakeSupplierRepo(),
		config: QuoteConfig{
			FallbackCost:         15.00,
			FallbackDeliveryDays: 10,
			DefaultOriginCEP:     "01310100",
		},
	}
}

func (f *quoteFixture) service() *QuoteService {
	var carrier shipping.CarrierGateway
	if f.carrier != nil {
		carrier = f.carrier
	}
	var marketplace shipping.MarketplaceFreightGateway
	if f.marketplace != nil {
		marketplace = f.marketplace
	}
	return NewQuoteService(
		f.rules, f.boxes, f.settings,
		f.products, f.categories, f.suppliers,
		carrier, marketplace,
		f.config, zap.NewNop(),
	)
}

func (f *quoteFixture) addProduct(t *testing.T, price, weightKg float64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("Produto Teste", "SKU-"+uuid.NewString()[:8], decimal.NewFromFloat(price))
	require.NoError(t, err)
	require.NoError(t, product.SetDimensions(weightKg, 20, 15, 10))
	f.products.add(product)
	return product
}

func (f *quoteFixture) addImportedProduct(t *testing.T, price, weightKg float64, externalID string) *catalog.Product {
	t.Helper()
	category, err := catalog.NewCategory("Importados", "importados-"+uuid.NewString()[:8], nil, true)
	require.NoError(t, err)
	f.categories.add(category)

	supplier, err := catalog.NewSupplier("AliExpress Dropship", "https://aliexpress.com")
	require.NoError(t, err)
	f.suppliers.add(supplier)

	product := f.addProduct(t, price, weightKg)
	product.CategoryID = &category.ID
	product.SupplierID = &supplier.ID
	product.ExternalID = externalID
	return product
}

func mustRule(t *testing.T, name string, priority int, regionType shipping.RegionType, regionData string, flatCost, costPerKg float64, days int) *shipping.ShippingRule {
	t.Helper()
	rule, err := shipping.NewShippingRule(name, priority, regionType, regionData,
		decimal.NewFromFloat(flatCost), decimal.NewFromFloat(costPerKg), days)
	require.NoError(t, err)
	return rule
}

func quoteItems(products ...*catalog.Product) []QuoteItemInput {
	items := make([]QuoteItemInput, 0, len(products))
	for _, p := range products {
		items = append(items, QuoteItemInput{ProductID: p.ID.String(), Quantity: 1})
	}
	return items
}

func TestQuoteService_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid CEP is rejected", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addProduct(t, 50, 1)

		_, err := f.service().Quote(ctx, QuoteInput{CEP: "123", Items: quoteItems(product)})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CEP", domainErr.Code)
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		f := newQuoteFixture()

		_, err := f.service().Quote(ctx, QuoteInput{CEP: "01310-100"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_CART", domainErr.Code)
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addProduct(t, 50, 1)

		_, err := f.service().Quote(ctx, QuoteInput{
			CEP:   "01310-100",
			Items: []QuoteItemInput{{ProductID: product.ID.String(), Quantity: 0}},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})

	t.Run("malformed product id is rejected", func(t *testing.T) {
		f := newQuoteFixture()

		_, err := f.service().Quote(ctx, QuoteInput{
			CEP:   "01310-100",
			Items: []QuoteItemInput{{ProductID: "not-a-uuid", Quantity: 1}},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PRODUCT_ID", domainErr.Code)
	})

	t.Run("unknown product is rejected", func(t *testing.T) {
		f := newQuoteFixture()

		_, err := f.service().Quote(ctx, QuoteInput{
			CEP:   "01310-100",
			Items: []QuoteItemInput{{ProductID: uuid.NewString(), Quantity: 1}},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRODUCT_NOT_FOUND", domainErr.Code)
	})
}

func TestQuoteService_RuleMatching(t *testing.T) {
	ctx := context.Background()

	t.Run("highest priority matching rule wins", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addProduct(t, 50, 1)
		f.rules.add(mustRule(t, "Promo Nacional", 10, shipping.RegionNationwide, "", 20.00, 0, 5))
		f.rules.add(mustRule(t, "Tabela Base", 5, shipping.RegionNationwide, "", 30.00, 0, 7))

		result, err := f.service().Quote(ctx, QuoteInput{CEP: "01310-100", Items: quoteItems(product)})
		require.NoError(t, err)
		assert.Equal(t, "20.00", result.ShippingCost)
		assert.Equal(t, 5, result.DeliveryDays)
		assert.Equal(t, "rule", result.ShippingMethod)
		assert.Equal(t, "Promo Nacional", result.ShippingService)
		assert.False(t, result.IsFree)
	})

	t.Run("state rule matches the destination UF", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addProduct(t, 50, 1)
		f.rules.add(mustRule(t, "Frete RJ", 10, shipping.RegionStates, `["RJ"]`, 12.00, 0, 4))
		f.rules.add(mustRule(t, "Frete SP", 5, shipping.RegionStates, `["SP"]`, 9.00, 0, 2))

		// 01310-100 is São Paulo: the higher-priority RJ rule must not match
		result, err := f.service().Quote(ctx, QuoteInput{CEP: "01310-100", Items: quoteItems(product)})
		require.NoError(t, err)
		assert.Equal(t, "Frete SP", result.ShippingService)
		assert.Equal(t, "9.00", result.ShippingCost)
	})

	t.Run("free shipping above the rule threshold", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addProduct(t, 180, 1)
		rule := mustRule(t, "Frete Nacional", 1, shipping.RegionNationwide, "", 25.00, 0, 7)
		freeMin := decimal.NewFromFloat(150)
		require.NoError(t, rule.SetFreeShippingMin(&freeMin))
		f.rules.add(rule)

		result, err := f.service().Quote(ctx, QuoteInput{CEP: "01310-100", Items: quoteItems(product)})
		require.NoError(t, err)
		assert.True(t, result.IsFree)
		assert.Equal(t, "0.00", result.ShippingCost)
		assert.Nil(t, result.Promo)
	})

	t.Run("promo hint when below the free shipping threshold", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addProduct(t, 100, 1)
		rule := mustRule(t, "Frete Nacional", 1, shipping.RegionNationwide, "", 25.00, 0, 7)
		freeMin := decimal.NewFromFloat(150)
		require.NoError(t, rule.SetFreeShippingMin(&freeMin))
		f.rules.add(rule)

		result, err := f.service().Quote(ctx, QuoteInput{CEP: "01310-100", Items: quoteItems(product)})
		require.NoError(t, err)
		assert.False(t, result.IsFree)
		require.NotNil(t, result.Promo)
		assert.Equal(t, "50.00", result.Promo.MissingAmount)
	})

	t.Run("per-kg pricing uses the floored billable weight", func(t *testing.T) {
		f := newQuoteFixture()
		// 50g item: carriers bill at least 300g
		product := f.addProduct(t, 40, 0.05)
		f.rules.add(mustRule(t, "Frete Nacional", 1, shipping.RegionNationwide, "", 10.00, 10.00, 7))

		result, err := f.service().Quote(ctx, QuoteInput{CEP: "01310-100", Items: quoteItems(product)})
		require.NoError(t, err)
		assert.Equal(t, "13.00", result.ShippingCost)
		require.NotNil(t, result.Packaging)
		assert.InDelta(t, 0.3, result.Packaging.BillableWeightKg, 1e-9)
		assert.Equal(t, 16.0, result.Packaging.LengthCm)
		assert.Equal(t, 11.0, result.Packaging.WidthCm)
		assert.Equal(t, 2.0, result.Packaging.HeightCm)
	})

	t.Run("duplicate items are merged into one line", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addProduct(t, 10, 1)
		f.rules.add(mustRule(t, "Frete Nacional", 1, shipping.RegionNationwide, "", 10.00, 1.00, 7))

		result, err := f.service().Quote(ctx, QuoteInput{
			CEP: "01310-100",
			Items: []QuoteItemInput{
				{ProductID: product.ID.String(), Quantity: 1},
				{ProductID: product.ID.String(), Quantity: 2},
			},
		})
		require.NoError(t, err)
		// 3kg merged: 10.00 + 3 x 1.00
		assert.Equal(t, "13.00", result.ShippingCost)
	})

	t.Run("explicit cart value overrides the computed total", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addProduct(t, 10, 1)
		rule := mustRule(t, "Frete Nacional", 1, shipping.RegionNationwide, "", 25.00, 0, 7)
		freeMin := decimal.NewFromFloat(400)
		require.NoError(t, rule.SetFreeShippingMin(&freeMin))
		f.rules.add(rule)

		override := 500.0
		result, err := f.service().Quote(ctx, QuoteInput{
			CEP:       "01310-100",
			CartValue: &override,
			Items:     quoteItems(product),
		})
		require.NoError(t, err)
		assert.True(t, result.IsFree)
	})
}

func TestQuoteService_Carrier(t *testing.T) {
	ctx := context.Background()

	enableCorreios := func(t *testing.T, f *quoteFixture) {
		t.Helper()
		settings, err := shipping.NewSettings("04538-132", true)
		require.NoError(t, err)
		f.settings.settings = settings
	}

	t.Run("cheapest carrier option becomes the primary quote", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addProduct(t, 120, 1)
		enableCorreios(t, f)
		f.carrier = &stubCarrier{options: []shipping.QuoteOption{
			{Service: "PAC", Carrier: "Correios", Cost: decimal.NewFromFloat(19.90), DeliveryDays: 8},
			{Service: "SEDEX", Carrier: "Correios", Cost: decimal.NewFromFloat(27.30), DeliveryDays: 3},
		}}

		result, err := f.service().Quote(ctx, QuoteInput{CEP: "01310-100", Items: quoteItems(product)})
		require.NoError(t, err)
		assert.Equal(t, "carrier", result.ShippingMethod)
		assert.Equal(t, "19.90", result.ShippingCost)
		assert.Equal(t, 8, result.DeliveryDays)
		assert.Equal(t, "PAC", result.ShippingService)
		assert.Len(t, result.Options, 2)

		require.NotNil(t, f.carrier.lastReq)
		assert.Equal(t, "04538132", f.carrier.lastReq.OriginCEP.String())
		assert.Equal(t, "01310100", f.carrier.lastReq.DestinationCEP.String())
		assert.True(t, f.carrier.lastReq.DeclaredValue.Equal(decimal.NewFromInt(120)))
	})

	t.Run("carrier failure degrades to the fallback", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addProduct(t, 120, 1)
		enableCorreios(t, f)
		f.carrier = &stubCarrier{err: errors.New("gateway timeout")}

		result, err := f.service().Quote(ctx, QuoteInput{CEP: "01310-100", Items: quoteItems(product)})
		require.NoError(t, err)
		assert.Equal(t, "fallback", result.ShippingMethod)
		assert.Equal(t, "15.00", result.ShippingCost)
	})

	t.Run("carrier is skipped when disabled in settings", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addProduct(t, 120, 1)
		f.carrier = &stubCarrier{options: []shipping.QuoteOption{
			{Service: "PAC", Carrier: "Correios", Cost: decimal.NewFromFloat(19.90), DeliveryDays: 8},
		}}

		// Settings table empty: Correios defaults to disabled
		result, err := f.service().Quote(ctx, QuoteInput{CEP: "01310-100", Items: quoteItems(product)})
		require.NoError(t, err)
		assert.Equal(t, "fallback", result.ShippingMethod)
		assert.Nil(t, f.carrier.lastReq)
	})
}

func TestQuoteService_Fallback(t *testing.T) {
	ctx := context.Background()

	t.Run("flat fallback when nothing else applies", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addProduct(t, 100, 1)

		result, err := f.service().Quote(ctx, QuoteInput{
			CEP: "01310-100",
			Items: []QuoteItemInput{
				{ProductID: product.ID.String(), Quantity: 2},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "15.00", result.ShippingCost)
		assert.Equal(t, 10, result.DeliveryDays)
		assert.False(t, result.IsFree)
		assert.Equal(t, "fallback", result.ShippingMethod)
		assert.Equal(t, "Entrega Padrão", result.ShippingService)
		require.NotNil(t, result.Packaging)
	})

	t.Run("promo hint from an unmet rule minimum", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addProduct(t, 100, 1)
		rule := mustRule(t, "Frete Premium", 10, shipping.RegionNationwide, "", 5.00, 0, 3)
		minCart := decimal.NewFromFloat(250)
		require.NoError(t, rule.SetCartValueWindow(&minCart, nil))
		f.rules.add(rule)

		// Cart is 200: the 250-minimum rule misses by 50
		result, err := f.service().Quote(ctx, QuoteInput{
			CEP: "01310-100",
			Items: []QuoteItemInput{
				{ProductID: product.ID.String(), Quantity: 2},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "fallback", result.ShippingMethod)
		require.NotNil(t, result.Promo)
		assert.Equal(t, "50.00", result.Promo.MissingAmount)
	})

	t.Run("configured free minimum drives the fallback hint", func(t *testing.T) {
		f := newQuoteFixture()
		f.config.FallbackFreeMin = 150
		product := f.addProduct(t, 100, 1)

		result, err := f.service().Quote(ctx, QuoteInput{CEP: "01310-100", Items: quoteItems(product)})
		require.NoError(t, err)
		require.NotNil(t, result.Promo)
		assert.Equal(t, "50.00", result.Promo.MissingAmount)
	})

	t.Run("repository failures still produce a quote", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addProduct(t, 100, 1)
		f.rules.err = errors.New("db down")
		f.boxes.err = errors.New("db down")
		f.settings.err = errors.New("db down")

		result, err := f.service().Quote(ctx, QuoteInput{CEP: "01310-100", Items: quoteItems(product)})
		require.NoError(t, err)
		assert.Equal(t, "fallback", result.ShippingMethod)
		assert.Equal(t, "15.00", result.ShippingCost)
	})
}

func TestQuoteService_Imported(t *testing.T) {
	ctx := context.Background()

	t.Run("marketplace options win over the estimate", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addImportedProduct(t, 80, 0.5, "ali-1001")
		f.marketplace = &stubMarketplace{options: []shipping.QuoteOption{
			{Service: shipping.ServiceInternationalStandard, Carrier: shipping.CarrierInternational, Cost: decimal.NewFromFloat(12.34), DeliveryDays: 28},
			{Service: shipping.ServiceInternationalExpress, Carrier: shipping.CarrierInternational, Cost: decimal.NewFromFloat(45.00), DeliveryDays: 12},
		}}

		result, err := f.service().Quote(ctx, QuoteInput{
			CEP: "01310-100",
			Items: []QuoteItemInput{
				{ProductID: product.ID.String(), Quantity: 2},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "international", result.ShippingMethod)
		assert.Equal(t, "12.34", result.ShippingCost)
		assert.Equal(t, 28, result.DeliveryDays)
		assert.Len(t, result.Options, 2)

		require.NotNil(t, f.marketplace.lastReq)
		assert.Equal(t, "ali-1001", f.marketplace.lastReq.ExternalProductID)
		assert.Equal(t, 2, f.marketplace.lastReq.Quantity)
		assert.Equal(t, "01310100", f.marketplace.lastReq.DestinationCEP.String())
	})

	t.Run("zero-cost marketplace option is free", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addImportedProduct(t, 80, 0.5, "ali-1001")
		f.marketplace = &stubMarketplace{options: []shipping.QuoteOption{
			{Service: shipping.ServiceInternationalStandard, Carrier: shipping.CarrierInternational, Cost: decimal.Zero, DeliveryDays: 30},
		}}

		result, err := f.service().Quote(ctx, QuoteInput{CEP: "01310-100", Items: quoteItems(product)})
		require.NoError(t, err)
		assert.True(t, result.IsFree)
		assert.Equal(t, "0.00", result.ShippingCost)
	})

	t.Run("unreachable marketplace falls back to the estimate", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addImportedProduct(t, 80, 1, "ali-1001")
		f.marketplace = &stubMarketplace{err: errors.New("connection refused")}

		result, err := f.service().Quote(ctx, QuoteInput{CEP: "01310-100", Items: quoteItems(product)})
		require.NoError(t, err)
		assert.Equal(t, "international", result.ShippingMethod)
		// 25.90 base + 4.50/kg + 5.00 surcharge for the 50-100 price band
		assert.Equal(t, "35.40", result.ShippingCost)
		assert.Equal(t, 30, result.DeliveryDays)
		assert.False(t, result.IsFree)
	})

	t.Run("estimate is free at and above 150", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addImportedProduct(t, 200, 0.5, "ali-1001")

		// No marketplace gateway configured at all
		result, err := f.service().Quote(ctx, QuoteInput{CEP: "01310-100", Items: quoteItems(product)})
		require.NoError(t, err)
		assert.True(t, result.IsFree)
		assert.Equal(t, "0.00", result.ShippingCost)
		assert.Equal(t, 15, result.DeliveryDays)
	})

	t.Run("estimate is not free just below 150", func(t *testing.T) {
		f := newQuoteFixture()
		product := f.addImportedProduct(t, 149.99, 0.5, "ali-1001")

		result, err := f.service().Quote(ctx, QuoteInput{CEP: "01310-100", Items: quoteItems(product)})
		require.NoError(t, err)
		assert.False(t, result.IsFree)
		// 25.90 base + 4.50 x 0.5kg + 10.00 surcharge for the 100-150 band
		assert.Equal(t, "38.15", result.ShippingCost)
		assert.Equal(t, 20, result.DeliveryDays)
	})

	t.Run("imported line routes a mixed cart internationally", func(t *testing.T) {
		f := newQuoteFixture()
		domestic := f.addProduct(t, 50, 1)
		imported := f.addImportedProduct(t, 200, 0.5, "ali-1001")
		f.rules.add(mustRule(t, "Frete Nacional", 1, shipping.RegionNationwide, "", 10.00, 0, 7))

		result, err := f.service().Quote(ctx, QuoteInput{CEP: "01310-100", Items: quoteItems(domestic, imported)})
		require.NoError(t, err)
		assert.Equal(t, "international", result.ShippingMethod)
	})

	t.Run("domestic supplier keeps an imported category domestic", func(t *testing.T) {
		f := newQuoteFixture()
		category, err := catalog.NewCategory("Importados", "importados", nil, true)
		require.NoError(t, err)
		f.categories.add(category)
		supplier, err := catalog.NewSupplier("Distribuidora Nacional", "https://distribuidora.com.br")
		require.NoError(t, err)
		f.suppliers.add(supplier)

		product := f.addProduct(t, 80, 1)
		product.CategoryID = &category.ID
		product.SupplierID = &supplier.ID

		result, err := f.service().Quote(ctx, QuoteInput{CEP: "01310-100", Items: quoteItems(product)})
		require.NoError(t, err)
		assert.Equal(t, "fallback", result.ShippingMethod)
	})

	t.Run("imported flag is inherited through the ancestry", func(t *testing.T) {
		f := newQuoteFixture()
		root, err := catalog.NewCategory("Importados", "importados", nil, true)
		require.NoError(t, err)
		child, err := catalog.NewCategory("Eletrônicos", "eletronicos", &root.ID, false)
		require.NoError(t, err)
		leaf, err := catalog.NewCategory("Fones", "fones", &child.ID, false)
		require.NoError(t, err)
		f.categories.add(root)
		f.categories.add(child)
		f.categories.add(leaf)

		supplier, err := catalog.NewSupplier("AliExpress", "https://aliexpress.com")
		require.NoError(t, err)
		f.suppliers.add(supplier)

		product := f.addProduct(t, 80, 1)
		product.CategoryID = &leaf.ID
		product.SupplierID = &supplier.ID
		product.ExternalID = "ali-2002"

		result, err := f.service().Quote(ctx, QuoteInput{CEP: "01310-100", Items: quoteItems(product)})
		require.NoError(t, err)
		assert.Equal(t, "international", result.ShippingMethod)
	})
}
