package freight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mydfacylita/backend/internal/domain/shipping"
)

// ViaCEPDefaultURL is the public postal resolution endpoint
const ViaCEPDefaultURL = "https://viacep.com.br/ws"

// ErrCEPNotFound indicates the postal service does not know the CEP
var ErrCEPNotFound = errors.New("viacep: cep not found")

// ViaCEPClient resolves CEPs to state and city through the public ViaCEP API
type ViaCEPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewViaCEPClient creates a new ViaCEP client
func NewViaCEPClient(baseURL string, timeout time.Duration) *ViaCEPClient {
	if baseURL == "" {
		baseURL = ViaCEPDefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ViaCEPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// viaCEPResponse is the ViaCEP payload. Unknown CEPs answer HTTP 200 with
// {"erro": true}.
type viaCEPResponse struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       bool   `json:"erro"`
}

// Lookup resolves a CEP to its address
func (c *ViaCEPClient) Lookup(ctx context.Context, cep shipping.CEP) (*shipping.Address, error) {
	endpoint := fmt.Sprintf("%s/%s/json/", c.baseURL, cep.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("viacep: failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("viacep: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("viacep: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("viacep: failed to read response: %w", err)
	}

	var payload viaCEPResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("viacep: invalid response: %w", err)
	}
	if payload.Erro {
		return nil, ErrCEPNotFound
	}

	return &shipping.Address{
		CEP:      cep,
		State:    payload.UF,
		City:     payload.Localidade,
		District: payload.Bairro,
	}, nil
}

// Ensure ViaCEPClient implements PostalLookup
var _ shipping.PostalLookup = (*ViaCEPClient)(nil)
