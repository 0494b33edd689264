package binance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AaronWong1999/silver-calculator-page/market"
)

func newTestClient(serverURL string) *Client {
	return &Client{
		baseURL:    serverURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	client := NewClient()
	assert.Equal(t, FuturesURL, client.baseURL)
	assert.NotNil(t, client.httpClient)
}

func TestGetSpot_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fapi/v1/ticker/price", r.URL.Path)
		assert.Equal(t, "XAGUSDT", r.URL.Query().Get("symbol"))

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(tickerResponse{
			Symbol: "XAGUSDT",
			Price:  "31.405",
			Time:   1705312800000,
		})
	}))
	defer server.Close()

	quote, err := newTestClient(server.URL).GetSpot(context.Background(), market.Silver)
	require.NoError(t, err)

	assert.Equal(t, "XAGUSDT", quote.Symbol)
	assert.Equal(t, "31.405", quote.Price.String())
	assert.Equal(t, int64(1705312800000), quote.Time.UnixMilli())
}

func TestGetSpot_APIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetSpot(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestGetSpot_MalformedBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetSpot(context.Background(), market.Gold)
	assert.Error(t, err)
}

func TestGetSpot_BadPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		price string
	}{
		{"unparseable", "abc"},
		{"zero", "0"},
		{"negative", "-1.5"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(tickerResponse{Symbol: "XAUUSDT", Price: tt.price})
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).GetSpot(context.Background(), market.Gold)
			assert.Error(t, err)
		})
	}
}

func TestGetSpot_EmptySymbol(t *testing.T) {
	t.Parallel()

	_, err := NewClient().GetSpot(context.Background(), "")
	assert.Error(t, err)
}
