package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	shippingapp "github.com/mydfacylita/backend/internal/application/shipping"
	"github.com/mydfacylita/backend/internal/domain/shared"
	"github.com/mydfacylita/backend/internal/interfaces/http/dto"
)

// ShippingRuleHandler handles the admin shipping rule endpoints
type ShippingRuleHandler struct {
	BaseHandler
	ruleService *shippingapp.RuleService
}

// NewShippingRuleHandler creates a new ShippingRuleHandler
func NewShippingRuleHandler(ruleService *shippingapp.RuleService) *ShippingRuleHandler {
	return &ShippingRuleHandler{ruleService: ruleService}
}

// CreateRuleRequest represents a request to create a shipping rule
// @Description Request body for creating a shipping rule
type CreateRuleRequest struct {
	Name         string   `json:"name" binding:"required,min=1,max=100" example:"Frete Sudeste"`
	Priority     int      `json:"priority" example:"10"`
	RegionType   string   `json:"region_type" binding:"required,oneof=nationwide states cep_range city" example:"states"`
	RegionData   string   `json:"region_data" example:"[\"SP\",\"RJ\"]"`
	MinCartValue *float64 `json:"min_cart_value" binding:"omitempty,min=0" example:"50.00"`
	MaxCartValue *float64 `json:"max_cart_value" binding:"omitempty,min=0" example:"500.00"`
	MinWeightKg  *float64 `json:"min_weight_kg" binding:"omitempty,min=0" example:"0.3"`
	MaxWeightKg  *float64 `json:"max_weight_kg" binding:"omitempty,min=0" example:"30"`
	FlatCost     float64  `json:"flat_cost" binding:"min=0" example:"12.50"`
	CostPerKg    float64  `json:"cost_per_kg" binding:"min=0" example:"2.00"`
	FreeShipMin  *float64 `json:"free_ship_min" binding:"omitempty,min=0" example:"199.90"`
	DeliveryDays int      `json:"delivery_days" binding:"required,min=1" example:"4"`
}

// UpdateRuleRequest represents a request to update a shipping rule
// @Description Request body for updating a shipping rule
type UpdateRuleRequest struct {
	Name         string   `json:"name" binding:"required,min=1,max=100" example:"Frete Sudeste"`
	Priority     int      `json:"priority" example:"10"`
	RegionType   string   `json:"region_type" binding:"required,oneof=nationwide states cep_range city" example:"states"`
	RegionData   string   `json:"region_data" example:"[\"SP\",\"RJ\"]"`
	MinCartValue *float64 `json:"min_cart_value" binding:"omitempty,min=0"`
	MaxCartValue *float64 `json:"max_cart_value" binding:"omitempty,min=0"`
	MinWeightKg  *float64 `json:"min_weight_kg" binding:"omitempty,min=0"`
	MaxWeightKg  *float64 `json:"max_weight_kg" binding:"omitempty,min=0"`
	FlatCost     float64  `json:"flat_cost" binding:"min=0"`
	CostPerKg    float64  `json:"cost_per_kg" binding:"min=0"`
	FreeShipMin  *float64 `json:"free_ship_min" binding:"omitempty,min=0"`
	DeliveryDays int      `json:"delivery_days" binding:"required,min=1"`
	Active       *bool    `json:"active"`
}

// Create godoc
// @ID           createShippingRule
//
//	@Summary		Create a shipping rule
//	@Description	Create a new admin-configured shipping pricing rule
//	@Tags			shipping-rules
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateRuleRequest	true	"Rule creation request"
//	@Success		201		{object}	APIResponse[shippingapp.RuleDTO]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/shipping/rules [post]
func (h *ShippingRuleHandler) Create(c *gin.Context) {
	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rule, err := h.ruleService.CreateRule(c.Request.Context(), shippingapp.CreateRuleInput{
		Name:         req.Name,
		Priority:     req.Priority,
		RegionType:   req.RegionType,
		RegionData:   req.RegionData,
		MinCartValue: req.MinCartValue,
		MaxCartValue: req.MaxCartValue,
		MinWeightKg:  req.MinWeightKg,
		MaxWeightKg:  req.MaxWeightKg,
		FlatCost:     req.FlatCost,
		CostPerKg:    req.CostPerKg,
		FreeShipMin:  req.FreeShipMin,
		DeliveryDays: req.DeliveryDays,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, rule)
}

// GetByID godoc
// @ID           getShippingRuleById
//
//	@Summary		Get shipping rule by ID
//	@Tags			shipping-rules
//	@Produce		json
//	@Param			id	path		string	true	"Rule ID"	format(uuid)
//	@Success		200	{object}	APIResponse[shippingapp.RuleDTO]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/shipping/rules/{id} [get]
func (h *ShippingRuleHandler) GetByID(c *gin.Context) {
	rule, err := h.ruleService.GetRule(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rule)
}

// List godoc
// @ID           listShippingRules
//
//	@Summary		List shipping rules
//	@Description	Retrieve a paginated list of shipping rules ordered by priority
//	@Tags			shipping-rules
//	@Produce		json
//	@Param			search		query		string	false	"Search term (rule name)"
//	@Param			active		query		boolean	false	"Filter by active status"
//	@Param			region_type	query		string	false	"Region type"	Enums(nationwide, states, cep_range, city)
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)	maximum(100)
//	@Success		200			{object}	APIResponse[[]shippingapp.RuleDTO]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/shipping/rules [get]
func (h *ShippingRuleHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	filter := shared.Filter{
		Search:   req.Search,
		Filters:  map[string]interface{}{},
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "active must be a boolean")
			return
		}
		filter.Filters["active"] = active
	}
	if regionType := c.Query("region_type"); regionType != "" {
		filter.Filters["region_type"] = regionType
	}

	result, err := h.ruleService.ListRules(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Rules, result.Total, req.Page, req.PageSize)
}

// Update godoc
// @ID           updateShippingRule
//
//	@Summary		Update a shipping rule
//	@Tags			shipping-rules
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Rule ID"	format(uuid)
//	@Param			request	body		UpdateRuleRequest	true	"Rule update request"
//	@Success		200		{object}	APIResponse[shippingapp.RuleDTO]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/shipping/rules/{id} [put]
func (h *ShippingRuleHandler) Update(c *gin.Context) {
	var req UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rule, err := h.ruleService.UpdateRule(c.Request.Context(), c.Param("id"), shippingapp.UpdateRuleInput{
		Name:         req.Name,
		Priority:     req.Priority,
		RegionType:   req.RegionType,
		RegionData:   req.RegionData,
		MinCartValue: req.MinCartValue,
		MaxCartValue: req.MaxCartValue,
		MinWeightKg:  req.MinWeightKg,
		MaxWeightKg:  req.MaxWeightKg,
		FlatCost:     req.FlatCost,
		CostPerKg:    req.CostPerKg,
		FreeShipMin:  req.FreeShipMin,
		DeliveryDays: req.DeliveryDays,
		Active:       req.Active,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rule)
}

// Delete godoc
// @ID           deleteShippingRule
//
//	@Summary		Delete a shipping rule
//	@Tags			shipping-rules
//	@Produce		json
//	@Param			id	path	string	true	"Rule ID"	format(uuid)
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/shipping/rules/{id} [delete]
func (h *ShippingRuleHandler) Delete(c *gin.Context) {
	if err := h.ruleService.DeleteRule(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
