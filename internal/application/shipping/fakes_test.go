package shipping

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/mydfacylita/backend/internal/domain/catalog"
	"github.com/mydfacylita/backend/internal/domain/shared"
	"github.com/mydfacylita/backend/internal/domain/shipping"
)

// In-memory repository fakes shared across the service tests

type fakeRuleRepo struct {
	rules map[uuid.UUID]*shipping.ShippingRule
	err   error
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{rules: make(map[uuid.UUID]*shipping.ShippingRule)}
}

func (f *fakeRuleRepo) add(rule *shipping.ShippingRule) {
	f.rules[rule.ID] = rule
}

func (f *fakeRuleRepo) Save(_ context.Context, rule *shipping.ShippingRule) error {
	if f.err != nil {
		return f.err
	}
	f.rules[rule.ID] = rule
	return nil
}

func (f *fakeRuleRepo) FindByID(_ context.Context, id uuid.UUID) (*shipping.ShippingRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	rule, ok := f.rules[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return rule, nil
}

func (f *fakeRuleRepo) FindActive(_ context.Context) ([]shipping.ShippingRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []shipping.ShippingRule
	for _, r := range f.rules {
		if r.Active {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out, nil
}

func (f *fakeRuleRepo) FindAll(_ context.Context, _ shared.Filter) ([]shipping.ShippingRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []shipping.ShippingRule
	for _, r := range f.rules {
		out = append(out, *r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out, nil
}

func (f *fakeRuleRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.rules)), nil
}

func (f *fakeRuleRepo) Delete(_ context.Context, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.rules[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.rules, id)
	return nil
}

type fakeBoxRepo struct {
	boxes map[uuid.UUID]*shipping.PackagingBox
	err   error
}

func newFakeBoxRepo() *fakeBoxRepo {
	return &fakeBoxRepo{boxes: make(map[uuid.UUID]*shipping.PackagingBox)}
}

func (f *fakeBoxRepo) add(box *shipping.PackagingBox) {
	f.boxes[box.ID] = box
}

func (f *fakeBoxRepo) Save(_ context.Context, box *shipping.PackagingBox) error {
	if f.err != nil {
		return f.err
	}
	f.boxes[box.ID] = box
	return nil
}

func (f *fakeBoxRepo) FindByID(_ context.Context, id uuid.UUID) (*shipping.PackagingBox, error) {
	if f.err != nil {
		return nil, f.err
	}
	box, ok := f.boxes[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return box, nil
}

func (f *fakeBoxRepo) FindByCode(_ context.Context, code string) (*shipping.PackagingBox, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.boxes {
		if b.Code == code {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeBoxRepo) FindActive(_ context.Context) ([]shipping.PackagingBox, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []shipping.PackagingBox
	for _, b := range f.boxes {
		if b.Active {
			out = append(out, *b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].InnerVolumeCm3() < out[j].InnerVolumeCm3() })
	return out, nil
}

func (f *fakeBoxRepo) FindAll(_ context.Context, _ shared.Filter) ([]shipping.PackagingBox, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []shipping.PackagingBox
	for _, b := range f.boxes {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBoxRepo) Delete(_ context.Context, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.boxes[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.boxes, id)
	return nil
}

type fakeSettingsRepo struct {
	settings *shipping.Settings
	err      error
}

func (f *fakeSettingsRepo) Get(_ context.Context) (*shipping.Settings, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.settings == nil {
		return nil, shared.ErrNotFound
	}
	return f.settings, nil
}

func (f *fakeSettingsRepo) Save(_ context.Context, settings *shipping.Settings) error {
	if f.err != nil {
		return f.err
	}
	f.settings = settings
	return nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
	err      error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (f *fakeProductRepo) add(product *catalog.Product) {
	f.products[product.ID] = product
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []catalog.Product
	seen := make(map[uuid.UUID]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Save(_ context.Context, product *catalog.Product) error {
	if f.err != nil {
		return f.err
	}
	f.products[product.ID] = product
	return nil
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*catalog.Category
	err        error
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]*catalog.Category)}
}

func (f *fakeCategoryRepo) add(category *catalog.Category) {
	f.categories[category.ID] = category
}

func (f *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.categories[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (f *fakeCategoryRepo) FindWithAncestors(_ context.Context, id uuid.UUID) (map[uuid.UUID]*catalog.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	current, ok := f.categories[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := map[uuid.UUID]*catalog.Category{current.ID: current}
	for hop := 0; hop < catalog.ImportAncestryDepth && current.ParentID != nil; hop++ {
		parent, ok := f.categories[*current.ParentID]
		if !ok {
			break
		}
		out[parent.ID] = parent
		current = parent
	}
	return out, nil
}

func (f *fakeCategoryRepo) Save(_ context.Context, category *catalog.Category) error {
	if f.err != nil {
		return f.err
	}
	f.categories[category.ID] = category
	return nil
}

type fakeSupplierRepo struct {
	suppliers map[uuid.UUID]*catalog.Supplier
	err       error
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{suppliers: make(map[uuid.UUID]*catalog.Supplier)}
}

func (f *fakeSupplierRepo) add(supplier *catalog.Supplier) {
	f.suppliers[supplier.ID] = supplier
}

func (f *fakeSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Supplier, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.suppliers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (f *fakeSupplierRepo) Save(_ context.Context, supplier *catalog.Supplier) error {
	if f.err != nil {
		return f.err
	}
	f.suppliers[supplier.ID] = supplier
	return nil
}

type stubCarrier struct {
	options []shipping.QuoteOption
	err     error
	lastReq *shipping.RateRequest
}

func (s *stubCarrier) Rates(_ context.Context, req shipping.RateRequest) ([]shipping.QuoteOption, error) {
	s.lastReq = &req
	if s.err != nil {
		return nil, s.err
	}
	return s.options, nil
}

type stubMarketplace struct {
	options []shipping.QuoteOption
	err     error
	lastReq *shipping.MarketplaceFreightRequest
}

func (s *stubMarketplace) FreightOptions(_ context.Context, req shipping.MarketplaceFreightRequest) ([]shipping.QuoteOption, error) {
	s.lastReq = &req
	if s.err != nil {
		return nil, s.err
	}
	return s.options, nil
}

var (
	_ shipping.RuleRepository            = (*fakeRuleRepo)(nil)
	_ shipping.BoxRepository             = (*fakeBoxRepo)(nil)
	_ shipping.SettingsRepository        = (*fakeSettingsRepo)(nil)
	_ catalog.ProductRepository          = (*fakeProductRepo)(nil)
	_ catalog.CategoryRepository         = (*fakeCategoryRepo)(nil)
	_ catalog.SupplierRepository         = (*fakeSupplierRepo)(nil)
	_ shipping.CarrierGateway            = (*stubCarrier)(nil)
	_ shipping.MarketplaceFreightGateway = (*stubMarketplace)(nil)
)
