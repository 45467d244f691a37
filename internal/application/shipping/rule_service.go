package shipping

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/mydfacylita/backend/internal/domain/shared"
	"github.com/mydfacylita/backend/internal/domain/shipping"
)

// RuleService manages the admin-facing shipping rule catalog
type RuleService struct {
	rules shipping.RuleRepository
}

// NewRuleService creates a new rule service
func NewRuleService(rules shipping.RuleRepository) *RuleService {
	return &RuleService{rules: rules}
}

// CreateRule creates a new shipping rule
func (s *RuleService) CreateRule(ctx context.Context, input CreateRuleInput) (*RuleDTO, error) {
	regionType := shipping.RegionType(input.RegionType)
	if err := validateRegionData(regionType, input.RegionData); err != nil {
		return nil, err
	}

	rule, err := shipping.NewShippingRule(
		input.Name,
		input.Priority,
		regionType,
		input.RegionData,
		decimal.NewFromFloat(input.FlatCost),
		decimal.NewFromFloat(input.CostPerKg),
		input.DeliveryDays,
	)
	if err != nil {
		return nil, err
	}

	if err := rule.SetCartValueWindow(decimalPtr(input.MinCartValue), decimalPtr(input.MaxCartValue)); err != nil {
		return nil, err
	}
	if err := rule.SetWeightWindow(input.MinWeightKg, input.MaxWeightKg); err != nil {
		return nil, err
	}
	if err := rule.SetFreeShippingMin(decimalPtr(input.FreeShipMin)); err != nil {
		return nil, err
	}

	if err := s.rules.Save(ctx, rule); err != nil {
		return nil, err
	}

	dto := toRuleDTO(rule)
	return &dto, nil
}

// UpdateRule updates an existing shipping rule
func (s *RuleService) UpdateRule(ctx context.Context, id string, input UpdateRuleInput) (*RuleDTO, error) {
	ruleID, err := parseID(id)
	if err != nil {
		return nil, shared.ErrInvalidInput
	}

	rule, err := s.rules.FindByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	regionType := shipping.RegionType(input.RegionType)
	if !shipping.ValidRegionType(regionType) {
		return nil, shared.NewDomainError("INVALID_REGION_TYPE", "Unknown region type")
	}
	if err := validateRegionData(regionType, input.RegionData); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Rule name cannot be empty")
	}
	flatCost := decimal.NewFromFloat(input.FlatCost)
	costPerKg := decimal.NewFromFloat(input.CostPerKg)
	if flatCost.IsNegative() || costPerKg.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Shipping costs cannot be negative")
	}
	if input.DeliveryDays <= 0 {
		return nil, shared.NewDomainError("INVALID_DELIVERY_DAYS", "Delivery days must be positive")
	}

	rule.Name = input.Name
	rule.Priority = input.Priority
	rule.RegionType = regionType
	rule.RegionData = input.RegionData
	rule.FlatCost = flatCost
	rule.CostPerKg = costPerKg
	rule.DeliveryDays = input.DeliveryDays

	if err := rule.SetCartValueWindow(decimalPtr(input.MinCartValue), decimalPtr(input.MaxCartValue)); err != nil {
		return nil, err
	}
	if err := rule.SetWeightWindow(input.MinWeightKg, input.MaxWeightKg); err != nil {
		return nil, err
	}
	if err := rule.SetFreeShippingMin(decimalPtr(input.FreeShipMin)); err != nil {
		return nil, err
	}

	if input.Active != nil && *input.Active != rule.Active {
		if *input.Active {
			err = rule.Activate()
		} else {
			err = rule.Deactivate()
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.rules.Save(ctx, rule); err != nil {
		return nil, err
	}

	dto := toRuleDTO(rule)
	return &dto, nil
}

// GetRule returns a single rule by id
func (s *RuleService) GetRule(ctx context.Context, id string) (*RuleDTO, error) {
	ruleID, err := parseID(id)
	if err != nil {
		return nil, shared.ErrInvalidInput
	}
	rule, err := s.rules.FindByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	dto := toRuleDTO(rule)
	return &dto, nil
}

// ListRules returns a page of rules plus the total count
func (s *RuleService) ListRules(ctx context.Context, filter shared.Filter) (*RuleListResult, error) {
	rules, err := s.rules.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.rules.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := &RuleListResult{
		Rules: make([]RuleDTO, 0, len(rules)),
		Total: total,
	}
	for i := range rules {
		result.Rules = append(result.Rules, toRuleDTO(&rules[i]))
	}
	return result, nil
}

// DeleteRule removes a rule
func (s *RuleService) DeleteRule(ctx context.Context, id string) error {
	ruleID, err := parseID(id)
	if err != nil {
		return shared.ErrInvalidInput
	}
	return s.rules.Delete(ctx, ruleID)
}

// validateRegionData rejects region payloads the matcher could never use.
// Matching degrades gracefully on malformed payloads, but the admin API
// should not accept them in the first place.
func validateRegionData(regionType shipping.RegionType, regionData string) error {
	switch regionType {
	case shipping.RegionNationwide:
		return nil
	case shipping.RegionStates:
		var states []string
		if err := json.Unmarshal([]byte(regionData), &states); err != nil || len(states) == 0 {
			return shared.NewDomainError("INVALID_REGION_DATA", "State rules need a JSON array of UF codes")
		}
	case shipping.RegionCEPRange:
		var ranges []struct {
			Start string `json:"start"`
			End   string `json:"end"`
		}
		if err := json.Unmarshal([]byte(regionData), &ranges); err != nil {
			var one struct {
				Start string `json:"start"`
				End   string `json:"end"`
			}
			if err2 := json.Unmarshal([]byte(regionData), &one); err2 != nil {
				return shared.NewDomainError("INVALID_REGION_DATA", "CEP range rules need start/end pairs")
			}
			ranges = append(ranges, one)
		}
		for _, r := range ranges {
			if _, err := shipping.ParseCEP(r.Start); err != nil {
				return shared.NewDomainError("INVALID_REGION_DATA", "CEP range start is not a valid CEP")
			}
			if _, err := shipping.ParseCEP(r.End); err != nil {
				return shared.NewDomainError("INVALID_REGION_DATA", "CEP range end is not a valid CEP")
			}
		}
	case shipping.RegionCity:
		if regionData != "" && !json.Valid([]byte(regionData)) {
			return shared.NewDomainError("INVALID_REGION_DATA", "City region payload must be valid JSON")
		}
	}
	return nil
}
