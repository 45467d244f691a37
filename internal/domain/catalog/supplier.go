package catalog

import (
	"strings"

	"github.com/mydfacylita/backend/internal/domain/shared"
)

// marketplaceDomains is the allow-list of international marketplaces whose
// products are dropshipped cross-border. Matching is by substring against
// the supplier's name or site URL.
var marketplaceDomains = []string{
	"aliexpress",
	"alibaba",
	"alicdn",
}

// Supplier is a product source: either a domestic distributor or an
// international marketplace.
type Supplier struct {
	shared.BaseAggregateRoot
	Name    string `gorm:"type:varchar(100);not null"`
	SiteURL string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(name, siteURL string) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SiteURL:           siteURL,
	}, nil
}

// IsInternationalMarketplace reports whether the supplier is a recognized
// cross-border marketplace
func (s *Supplier) IsInternationalMarketplace() bool {
	name := strings.ToLower(s.Name)
	site := strings.ToLower(s.SiteURL)
	for _, domain := range marketplaceDomains {
		if strings.Contains(name, domain) || strings.Contains(site, domain) {
			return true
		}
	}
	return false
}
