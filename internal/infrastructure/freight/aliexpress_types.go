package freight

import (
	"strings"

	"github.com/shopspring/decimal"
)

// aliExpressErrorResponse is the gateway-level error envelope returned when a
// call fails before reaching the business method (bad signature, auth, quota)
type aliExpressErrorResponse struct {
	Code      string `json:"code"`
	Msg       string `json:"msg"`
	SubCode   string `json:"sub_code"`
	SubMsg    string `json:"sub_msg"`
	RequestID string `json:"request_id"`
}

// aliExpressProductGetResponse is the envelope for aliexpress.ds.product.get
type aliExpressProductGetResponse struct {
	Result        *aliExpressProductResult `json:"aliexpress_ds_product_get_response"`
	ErrorResponse *aliExpressErrorResponse `json:"error_response"`
}

// IsSuccess returns true when the business payload is present
func (r *aliExpressProductGetResponse) IsSuccess() bool {
	return r.ErrorResponse == nil && r.Result != nil
}

type aliExpressProductResult struct {
	Result struct {
		SkuInfoList struct {
			SkuInfo []aliExpressSkuInfo `json:"ae_item_sku_info_d_t_o"`
		} `json:"ae_item_sku_info_d_t_o_list"`
	} `json:"result"`
}

type aliExpressSkuInfo struct {
	SkuID          string `json:"sku_id"`
	SkuAttr        string `json:"sku_attr"`
	AvailableStock int64  `json:"sku_available_stock"`
	OfferSalePrice string `json:"offer_sale_price"`
}

// aliExpressFreightQueryResponse is the envelope for aliexpress.ds.freight.query
type aliExpressFreightQueryResponse struct {
	Result        *aliExpressFreightResult `json:"aliexpress_ds_freight_query_response"`
	ErrorResponse *aliExpressErrorResponse `json:"error_response"`
}

// IsSuccess returns true when the freight payload reports success
func (r *aliExpressFreightQueryResponse) IsSuccess() bool {
	return r.ErrorResponse == nil && r.Result != nil && r.Result.Result.Success
}

type aliExpressFreightResult struct {
	Result struct {
		Success         bool   `json:"success"`
		Msg             string `json:"msg"`
		DeliveryOptions struct {
			DeliveryOption []aliExpressDeliveryOption `json:"delivery_option_d_t_o"`
		} `json:"delivery_options"`
	} `json:"result"`
}

type aliExpressDeliveryOption struct {
	Code            string `json:"code"`
	Company         string `json:"company"`
	ShippingFee     string `json:"shipping_fee_cost"`
	Currency        string `json:"shipping_fee_currency"`
	MinDeliveryDays int    `json:"min_delivery_days"`
	MaxDeliveryDays int    `json:"max_delivery_days"`
	FreeShipping    bool   `json:"free_shipping"`
}

// parseMoney parses an upstream money string. Both APIs are inconsistent
// about decimal separators, so accept "25.90" and "25,90".
func parseMoney(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}
	// Brazilian format uses "." for thousands and "," for cents
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}
