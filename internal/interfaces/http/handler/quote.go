package handler

import (
	"github.com/gin-gonic/gin"

	shippingapp "github.com/mydfacylita/backend/internal/application/shipping"
)

// QuoteHandler handles the storefront shipping quote endpoint
type QuoteHandler struct {
	BaseHandler
	quoteService *shippingapp.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *shippingapp.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// QuoteItemRequest represents one cart line in a quote request
// @Description One cart line of a shipping quote request
type QuoteItemRequest struct {
	ID       string `json:"id" binding:"required" example:"3f1f9e3a-9e59-4a54-b9a1-6f6d1a3e7c11"`
	Quantity int    `json:"quantity" binding:"required,min=1" example:"2"`
}

// QuoteRequest represents a shipping quote request
// @Description Request body for computing a shipping quote
type QuoteRequest struct {
	CEP       string             `json:"cep" binding:"required" example:"01310-100"`
	CartValue *float64           `json:"cart_value" binding:"omitempty,min=0" example:"199.90"`
	Items     []QuoteItemRequest `json:"items" binding:"required,min=1,dive"`
}

// Quote godoc
// @ID           computeShippingQuote
//
//	@Summary		Compute a shipping quote
//	@Description	Computes shipping cost, delivery time and packaging for a cart. Rate-source failures degrade to a usable estimate instead of erroring.
//	@Tags			shipping
//	@Accept			json
//	@Produce		json
//	@Param			X-API-Key	header		string			false	"Storefront API key"
//	@Param			request		body		QuoteRequest	true	"Quote request"
//	@Success		200			{object}	APIResponse[shippingapp.QuoteResult]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/shipping/quote [post]
func (h *QuoteHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := shippingapp.QuoteInput{
		CEP:       req.CEP,
		CartValue: req.CartValue,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, shippingapp.QuoteItemInput{
			ProductID: item.ID,
			Quantity:  item.Quantity,
		})
	}

	result, err := h.quoteService.Quote(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
