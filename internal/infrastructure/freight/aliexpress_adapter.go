package freight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mydfacylita/backend/internal/domain/shipping"
)

// maxResponseSize is the maximum allowed upstream response size (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Errors surfaced by the marketplace adapter. Callers treat every one of
// them as a trigger for the deterministic estimate, never as a quote failure.
var (
	ErrMarketplaceUnavailable     = errors.New("aliexpress: marketplace unreachable")
	ErrMarketplaceRequestFailed   = errors.New("aliexpress: marketplace request failed")
	ErrMarketplaceInvalidResponse = errors.New("aliexpress: invalid marketplace response")
	ErrNoShippableSku             = errors.New("aliexpress: product has no shippable sku")
)

// AliExpressAdapter resolves cross-border freight through the marketplace
// API: product.get to pick a shippable SKU, a postal lookup to resolve the
// destination city, then a signed freight.query.
type AliExpressAdapter struct {
	config     *AliExpressConfig
	postal     shipping.PostalLookup
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAliExpressAdapter creates a new marketplace freight adapter
func NewAliExpressAdapter(config *AliExpressConfig, postal shipping.PostalLookup, logger *zap.Logger) (*AliExpressAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &AliExpressAdapter{
		config: config,
		postal: postal,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger.Named("aliexpress"),
	}, nil
}

// FreightOptions returns the marketplace's delivery options for a dropship
// line, cheapest first. The three upstream calls run sequentially; the first
// failure aborts the chain.
func (a *AliExpressAdapter) FreightOptions(ctx context.Context, req shipping.MarketplaceFreightRequest) ([]shipping.QuoteOption, error) {
	skuID, err := a.resolveSku(ctx, req.ExternalProductID)
	if err != nil {
		return nil, err
	}

	address, err := a.postal.Lookup(ctx, req.DestinationCEP)
	if err != nil {
		return nil, fmt.Errorf("%w: postal lookup: %v", ErrMarketplaceUnavailable, err)
	}

	options, err := a.queryFreight(ctx, req, skuID, address)
	if err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return nil, shipping.ErrNoRates
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Cost.LessThan(options[j].Cost)
	})
	return options, nil
}

// resolveSku picks the first in-stock SKU for the product. Products without
// variants ship under an empty SKU id.
func (a *AliExpressAdapter) resolveSku(ctx context.Context, productID string) (string, error) {
	params := map[string]string{
		"method":          "aliexpress.ds.product.get",
		"product_id":      productID,
		"ship_to_country": "BR",
		"target_currency": "BRL",
		"target_language": "pt",
	}

	respBody, err := a.doRequest(ctx, params)
	if err != nil {
		return "", err
	}

	var resp aliExpressProductGetResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarketplaceInvalidResponse, err)
	}
	if !resp.IsSuccess() {
		return "", apiError(resp.ErrorResponse)
	}

	skus := resp.Result.Result.SkuInfoList.SkuInfo
	if len(skus) == 0 {
		return "", nil
	}
	for _, sku := range skus {
		if sku.AvailableStock > 0 {
			return sku.SkuID, nil
		}
	}
	return "", ErrNoShippableSku
}

// freightQueryPayload is the JSON body of the queryDeliveryReq parameter
type freightQueryPayload struct {
	ProductID     string `json:"productId"`
	SelectedSkuID string `json:"selectedSkuId,omitempty"`
	Quantity      int    `json:"quantity"`
	ShipToCountry string `json:"shipToCountry"`
	Province      string `json:"provinceCode,omitempty"`
	City          string `json:"cityCode,omitempty"`
	Currency      string `json:"currency"`
}

func (a *AliExpressAdapter) queryFreight(ctx context.Context, req shipping.MarketplaceFreightRequest, skuID string, address *shipping.Address) ([]shipping.QuoteOption, error) {
	payload := freightQueryPayload{
		ProductID:     req.ExternalProductID,
		SelectedSkuID: skuID,
		Quantity:      req.Quantity,
		ShipToCountry: "BR",
		Province:      address.State,
		City:          address.City,
		Currency:      "BRL",
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarketplaceRequestFailed, err)
	}

	params := map[string]string{
		"method":           "aliexpress.ds.freight.query",
		"queryDeliveryReq": string(payloadJSON),
	}

	respBody, err := a.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp aliExpressFreightQueryResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarketplaceInvalidResponse, err)
	}
	if !resp.IsSuccess() {
		if resp.ErrorResponse != nil {
			return nil, apiError(resp.ErrorResponse)
		}
		return nil, shipping.ErrNoRates
	}

	raw := resp.Result.Result.DeliveryOptions.DeliveryOption
	options := make([]shipping.QuoteOption, 0, len(raw))
	for _, opt := range raw {
		cost, ok := parseMoney(opt.ShippingFee)
		if !ok && !opt.FreeShipping {
			a.logger.Warn("dropping freight option with unparsable fee",
				zap.String("code", opt.Code),
				zap.String("fee", opt.ShippingFee))
			continue
		}
		options = append(options, shipping.QuoteOption{
			Service:      neutralServiceLabel(opt),
			Carrier:      shipping.CarrierInternational,
			Cost:         cost,
			DeliveryDays: deliveryDaysFor(opt),
		})
	}
	return options, nil
}

// neutralServiceLabel hides the upstream service behind a storefront label
func neutralServiceLabel(opt aliExpressDeliveryOption) string {
	code := strings.ToUpper(opt.Code)
	if strings.Contains(code, "PREMIUM") || strings.Contains(code, "EXPRESS") {
		return shipping.ServiceInternationalExpress
	}
	return shipping.ServiceInternationalStandard
}

// deliveryDaysFor returns the pessimistic end of the delivery window
func deliveryDaysFor(opt aliExpressDeliveryOption) int {
	if opt.MaxDeliveryDays > 0 {
		return opt.MaxDeliveryDays
	}
	if opt.MinDeliveryDays > 0 {
		return opt.MinDeliveryDays
	}
	return 30
}

// doRequest signs and posts a form-encoded request to the gateway
func (a *AliExpressAdapter) doRequest(ctx context.Context, params map[string]string) ([]byte, error) {
	params["app_key"] = a.config.AppKey
	params["session"] = a.config.SessionKey
	params["timestamp"] = strconv.FormatInt(time.Now().UnixMilli(), 10)
	params["format"] = "json"
	params["v"] = "2.0"
	params["sign_method"] = "hmac-sha256"
	params["sign"] = a.config.Sign(params)

	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.APIBaseURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarketplaceRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarketplaceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarketplaceUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrMarketplaceRequestFailed, resp.StatusCode)
	}
	return body, nil
}

func apiError(errResp *aliExpressErrorResponse) error {
	if errResp == nil {
		return ErrMarketplaceInvalidResponse
	}
	return fmt.Errorf("%w: %s - %s", ErrMarketplaceRequestFailed, errResp.Code, errResp.Msg)
}

// Ensure AliExpressAdapter implements MarketplaceFreightGateway
var _ shipping.MarketplaceFreightGateway = (*AliExpressAdapter)(nil)
