package shipping

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEstimateImportFreight(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		weightKg float64
		wantCost float64
		wantFree bool
		wantDays int
	}{
		{
			name:     "free above the threshold",
			price:    200.00,
			weightKg: 2.0,
			wantCost: 0,
			wantFree: true,
			wantDays: 15,
		},
		{
			name:     "exactly at the threshold is free",
			price:    150.00,
			weightKg: 1.0,
			wantCost: 0,
			wantFree: true,
			wantDays: 15,
		},
		{
			name:     "tier 100 pays the higher surcharge",
			price:    120.00,
			weightKg: 1.0,
			wantCost: 25.90 + 4.50 + 10.00,
			wantDays: 20,
		},
		{
			name:     "tier 50 pays the lower surcharge",
			price:    60.00,
			weightKg: 0.5,
			wantCost: 25.90 + 2.25 + 5.00,
			wantDays: 30,
		},
		{
			name:     "cheap item pays base plus weight only",
			price:    20.00,
			weightKg: 0.3,
			wantCost: 25.90 + 1.35,
			wantDays: 45,
		},
		{
			name:     "just under the threshold is not free",
			price:    149.99,
			weightKg: 1.0,
			wantCost: 25.90 + 4.50 + 10.00,
			wantDays: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := EstimateImportFreight(decimal.NewFromFloat(tt.price), tt.weightKg)

			assert.Equal(t, MethodInternational, quote.Method)
			assert.Equal(t, tt.wantFree, quote.IsFree)
			assert.Equal(t, tt.wantDays, quote.DeliveryDays)
			assert.True(t, quote.Cost.Equal(decimal.NewFromFloat(tt.wantCost)),
				"cost = %s, want %v", quote.Cost, tt.wantCost)
			assert.Equal(t, CarrierInternational, quote.Carrier)
		})
	}
}
