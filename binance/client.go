package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AaronWong1999/silver-calculator-page/market"
)

// FuturesURL is the Binance USD-M futures API base.
const FuturesURL = "https://fapi.binance.com"

// Client fetches spot prices from the Binance futures ticker endpoint.
// The ticker is public; no API key is required.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a price-feed client against the public futures API.
func NewClient() *Client {
	return &Client{
		baseURL: FuturesURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// tickerResponse is the /fapi/v1/ticker/price payload. Price arrives as
// a string, which suits decimal parsing exactly.
type tickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
	Time   int64  `json:"time"`
}

// GetSpot fetches the current price for one symbol. Any failure here is
// a fetch failure: the caller aborts the run rather than evaluating
// rules on partial price data.
func (c *Client) GetSpot(ctx context.Context, symbol string) (market.Quote, error) {
	if symbol == "" {
		return market.Quote{}, fmt.Errorf("symbol is required")
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	apiURL := fmt.Sprintf("%s/fapi/v1/ticker/price?%s", c.baseURL, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return market.Quote{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return market.Quote{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return market.Quote{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var ticker tickerResponse
	if err := json.NewDecoder(resp.Body).Decode(&ticker); err != nil {
		return market.Quote{}, fmt.Errorf("decode response: %w", err)
	}

	price, err := decimal.NewFromString(ticker.Price)
	if err != nil {
		return market.Quote{}, fmt.Errorf("parse price %q: %w", ticker.Price, err)
	}
	if !price.IsPositive() {
		return market.Quote{}, fmt.Errorf("non-positive price %s for %s", price, symbol)
	}

	at := time.Now()
	if ticker.Time > 0 {
		at = time.UnixMilli(ticker.Time)
	}

	return market.Quote{
		Symbol: ticker.Symbol,
		Price:  price,
		Time:   at,
	}, nil
}
