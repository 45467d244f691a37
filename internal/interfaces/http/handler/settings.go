package handler

import (
	"github.com/gin-gonic/gin"

	shippingapp "github.com/mydfacylita/backend/internal/application/shipping"
)

// ShippingSettingsHandler handles the admin shipping settings endpoints
type ShippingSettingsHandler struct {
	BaseHandler
	settingsService *shippingapp.SettingsService
}

// NewShippingSettingsHandler creates a new ShippingSettingsHandler
func NewShippingSettingsHandler(settingsService *shippingapp.SettingsService) *ShippingSettingsHandler {
	return &ShippingSettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest represents a request to update shipping settings
// @Description Request body for updating shipping settings
type UpdateSettingsRequest struct {
	CorreiosEnabled bool   `json:"correios_enabled" example:"true"`
	OriginCEP       string `json:"origin_cep" binding:"required" example:"01310-100"`
}

// Get godoc
// @ID           getShippingSettings
//
//	@Summary		Get shipping settings
//	@Description	Returns the stored shipping settings, or configuration defaults while none are stored
//	@Tags			shipping-settings
//	@Produce		json
//	@Success		200	{object}	APIResponse[shippingapp.SettingsDTO]
//	@Failure		500	{object}	ErrorResponse
//	@Router			/shipping/settings [get]
func (h *ShippingSettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, settings)
}

// Update godoc
// @ID           updateShippingSettings
//
//	@Summary		Update shipping settings
//	@Description	Upserts the singleton shipping settings row
//	@Tags			shipping-settings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		UpdateSettingsRequest	true	"Settings update request"
//	@Success		200		{object}	APIResponse[shippingapp.SettingsDTO]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/shipping/settings [put]
func (h *ShippingSettingsHandler) Update(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), shippingapp.UpdateSettingsInput{
		CorreiosEnabled: req.CorreiosEnabled,
		OriginCEP:       req.OriginCEP,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, settings)
}
