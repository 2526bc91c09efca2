package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mock_exchange/internal/domain"
)

const defaultRestURL = "https://api.binance.com"

// ExchangeInfoClient forwards exchange metadata queries to the real
// exchange REST API. Pure pass-through: the simulator applies no logic
// to the response.
type ExchangeInfoClient struct {
	restURL    string
	httpClient *http.Client
}

// NewExchangeInfoClient creates a metadata client. restURL may be empty
// to use the public endpoint.
func NewExchangeInfoClient(restURL string) *ExchangeInfoClient {
	if restURL == "" {
		restURL = defaultRestURL
	}
	return &ExchangeInfoClient{
		restURL: restURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ExchangeInfo fetches /api/v3/exchangeInfo for one symbol and returns
// the raw response body.
func (c *ExchangeInfoClient) ExchangeInfo(ctx context.Context, symbol string) (json.RawMessage, error) {
	endpoint := c.restURL + "/api/v3/exchangeInfo?symbol=" + url.QueryEscape(strings.ToUpper(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewNetworkError("exchangeInfo", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewNetworkError("exchangeInfo read", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchangeInfo: unexpected status %d", resp.StatusCode)
	}
	return json.RawMessage(body), nil
}
