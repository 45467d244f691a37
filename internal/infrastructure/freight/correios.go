package freight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mydfacylita/backend/internal/domain/shipping"
)

// Errors surfaced by the carrier adapter
var (
	ErrCarrierUnavailable   = errors.New("correios: rate service unreachable")
	ErrCarrierRequestFailed = errors.New("correios: rate request failed")
)

// CorreiosClient obtains domestic rate options from the Correios rate proxy
type CorreiosClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewCorreiosClient creates a new Correios rate client
func NewCorreiosClient(baseURL string, timeout time.Duration, logger *zap.Logger) *CorreiosClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CorreiosClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("correios"),
	}
}

// correiosRateRequest is the JSON body posted to the rate proxy
type correiosRateRequest struct {
	CepOrigem      string  `json:"cepOrigem"`
	CepDestino     string  `json:"cepDestino"`
	Peso           float64 `json:"peso"`
	Comprimento    float64 `json:"comprimento"`
	Largura        float64 `json:"largura"`
	Altura         float64 `json:"altura"`
	ValorDeclarado string  `json:"valorDeclarado"`
}

// correiosRateOption is one service entry in the proxy response. Valor and
// Prazo come back in Brazilian notation ("27,30", "5"). A non-empty Erro
// other than "0" marks the service as unavailable for this package.
type correiosRateOption struct {
	Servico string `json:"servico"`
	Valor   string `json:"valor"`
	Prazo   string `json:"prazo"`
	Erro    string `json:"erro,omitempty"`
	MsgErro string `json:"msgErro,omitempty"`
}

func (o correiosRateOption) hasError() bool {
	return o.Erro != "" && o.Erro != "0"
}

// Rates queries the carrier and returns the usable options, cheapest first.
// Errored and unparsable services are dropped; an empty usable set returns
// shipping.ErrNoRates so the caller can fall back.
func (c *CorreiosClient) Rates(ctx context.Context, rateReq shipping.RateRequest) ([]shipping.QuoteOption, error) {
	body, err := json.Marshal(correiosRateRequest{
		CepOrigem:      rateReq.OriginCEP.String(),
		CepDestino:     rateReq.DestinationCEP.String(),
		Peso:           rateReq.WeightKg,
		Comprimento:    rateReq.LengthCm,
		Largura:        rateReq.WidthCm,
		Altura:         rateReq.HeightCm,
		ValorDeclarado: rateReq.DeclaredValue.StringFixed(2),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCarrierRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCarrierRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCarrierUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCarrierUnavailable, err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrCarrierRequestFailed, resp.StatusCode)
	}

	var raw []correiosRateOption
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", ErrCarrierRequestFailed, err)
	}

	options := make([]shipping.QuoteOption, 0, len(raw))
	for _, opt := range raw {
		if opt.hasError() {
			c.logger.Debug("carrier service unavailable for package",
				zap.String("servico", opt.Servico),
				zap.String("erro", opt.Erro),
				zap.String("msg", opt.MsgErro))
			continue
		}
		cost, ok := parseMoney(opt.Valor)
		if !ok || cost.IsZero() {
			continue
		}
		days, err := strconv.Atoi(strings.TrimSpace(opt.Prazo))
		if err != nil || days <= 0 {
			continue
		}
		options = append(options, shipping.QuoteOption{
			Service:      opt.Servico,
			Carrier:      "Correios",
			Cost:         cost,
			DeliveryDays: days,
		})
	}

	if len(options) == 0 {
		return nil, shipping.ErrNoRates
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Cost.LessThan(options[j].Cost)
	})
	return options, nil
}

// Ensure CorreiosClient implements CarrierGateway
var _ shipping.CarrierGateway = (*CorreiosClient)(nil)
