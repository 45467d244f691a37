package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	shippingapp "github.com/mydfacylita/backend/internal/application/shipping"
	"github.com/mydfacylita/backend/internal/domain/shared"
	"github.com/mydfacylita/backend/internal/interfaces/http/dto"
)

// PackagingBoxHandler handles the admin packaging box endpoints
type PackagingBoxHandler struct {
	BaseHandler
	boxService *shippingapp.BoxService
}

// NewPackagingBoxHandler creates a new PackagingBoxHandler
func NewPackagingBoxHandler(boxService *shippingapp.BoxService) *PackagingBoxHandler {
	return &PackagingBoxHandler{boxService: boxService}
}

// CreateBoxRequest represents a request to create a packaging box
// @Description Request body for creating a packaging box
type CreateBoxRequest struct {
	Code          string  `json:"code" binding:"required,min=1,max=50" example:"CX-P"`
	Name          string  `json:"name" binding:"required,min=1,max=100" example:"Caixa Pequena"`
	InnerLengthCm float64 `json:"inner_length_cm" binding:"required,gt=0" example:"20"`
	InnerWidthCm  float64 `json:"inner_width_cm" binding:"required,gt=0" example:"15"`
	InnerHeightCm float64 `json:"inner_height_cm" binding:"required,gt=0" example:"10"`
	MaxWeightKg   float64 `json:"max_weight_kg" binding:"required,gt=0" example:"5"`
	SortOrder     int     `json:"sort_order" example:"1"`
}

// UpdateBoxRequest represents a request to update a packaging box
// @Description Request body for updating a packaging box
type UpdateBoxRequest struct {
	Name          string  `json:"name" binding:"required,min=1,max=100" example:"Caixa Pequena"`
	InnerLengthCm float64 `json:"inner_length_cm" binding:"required,gt=0"`
	InnerWidthCm  float64 `json:"inner_width_cm" binding:"required,gt=0"`
	InnerHeightCm float64 `json:"inner_height_cm" binding:"required,gt=0"`
	MaxWeightKg   float64 `json:"max_weight_kg" binding:"required,gt=0"`
	SortOrder     int     `json:"sort_order"`
	Active        *bool   `json:"active"`
}

// Create godoc
// @ID           createPackagingBox
//
//	@Summary		Create a packaging box
//	@Description	Add a box to the packaging catalog used for quote packaging selection
//	@Tags			packaging-boxes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateBoxRequest	true	"Box creation request"
//	@Success		201		{object}	APIResponse[shippingapp.BoxDTO]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/shipping/boxes [post]
func (h *PackagingBoxHandler) Create(c *gin.Context) {
	var req CreateBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	box, err := h.boxService.CreateBox(c.Request.Context(), shippingapp.CreateBoxInput{
		Code:          req.Code,
		Name:          req.Name,
		InnerLengthCm: req.InnerLengthCm,
		InnerWidthCm:  req.InnerWidthCm,
		InnerHeightCm: req.InnerHeightCm,
		MaxWeightKg:   req.MaxWeightKg,
		SortOrder:     req.SortOrder,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, box)
}

// GetByID godoc
// @ID           getPackagingBoxById
//
//	@Summary		Get packaging box by ID
//	@Tags			packaging-boxes
//	@Produce		json
//	@Param			id	path		string	true	"Box ID"	format(uuid)
//	@Success		200	{object}	APIResponse[shippingapp.BoxDTO]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/shipping/boxes/{id} [get]
func (h *PackagingBoxHandler) GetByID(c *gin.Context) {
	box, err := h.boxService.GetBox(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, box)
}

// List godoc
// @ID           listPackagingBoxes
//
//	@Summary		List packaging boxes
//	@Tags			packaging-boxes
//	@Produce		json
//	@Param			search	query		string	false	"Search term (code, name)"
//	@Param			active	query		boolean	false	"Filter by active status"
//	@Success		200		{object}	APIResponse[[]shippingapp.BoxDTO]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/shipping/boxes [get]
func (h *PackagingBoxHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.Filter{
		Search:  req.Search,
		Filters: map[string]interface{}{},
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "active must be a boolean")
			return
		}
		filter.Filters["active"] = active
	}

	result, err := h.boxService.ListBoxes(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result.Boxes)
}

// Update godoc
// @ID           updatePackagingBox
//
//	@Summary		Update a packaging box
//	@Tags			packaging-boxes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Box ID"	format(uuid)
//	@Param			request	body		UpdateBoxRequest	true	"Box update request"
//	@Success		200		{object}	APIResponse[shippingapp.BoxDTO]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/shipping/boxes/{id} [put]
func (h *PackagingBoxHandler) Update(c *gin.Context) {
	var req UpdateBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	box, err := h.boxService.UpdateBox(c.Request.Context(), c.Param("id"), shippingapp.UpdateBoxInput{
		Name:          req.Name,
		InnerLengthCm: req.InnerLengthCm,
		InnerWidthCm:  req.InnerWidthCm,
		InnerHeightCm: req.InnerHeightCm,
		MaxWeightKg:   req.MaxWeightKg,
		SortOrder:     req.SortOrder,
		Active:        req.Active,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, box)
}

// Delete godoc
// @ID           deletePackagingBox
//
//	@Summary		Delete a packaging box
//	@Tags			packaging-boxes
//	@Produce		json
//	@Param			id	path	string	true	"Box ID"	format(uuid)
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/shipping/boxes/{id} [delete]
func (h *PackagingBoxHandler) Delete(c *gin.Context) {
	if err := h.boxService.DeleteBox(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
