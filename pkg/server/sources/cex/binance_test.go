package cex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Junman140/oracle/pkg/server/sources"
)

func newTestBinanceSource(t *testing.T, apiURL string) sources.Source {
	t.Helper()
	src, err := NewBinanceSource(map[string]interface{}{
		"symbol":  "BTC/USD",
		"pair":    "BTCUSDT",
		"api_url": apiURL,
	})
	if err != nil {
		t.Fatalf("NewBinanceSource failed: %v", err)
	}
	return src
}

func TestBinanceFetchQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/ticker/price" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("symbol") != "BTCUSDT" {
			t.Errorf("unexpected symbol: %s", r.URL.Query().Get("symbol"))
		}
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"59123.45000000"}`))
	}))
	defer server.Close()

	src := newTestBinanceSource(t, server.URL)

	quote, err := src.FetchQuote(context.Background())
	if err != nil {
		t.Fatalf("FetchQuote failed: %v", err)
	}
	if quote.Source != "binance" {
		t.Errorf("expected source binance, got %s", quote.Source)
	}
	if !quote.Price.Equal(decimal.NewFromFloat(59123.45)) {
		t.Errorf("unexpected price: %s", quote.Price.String())
	}

	health := src.Health()
	if health.SuccessCount != 1 || health.ErrorCount != 0 {
		t.Errorf("unexpected health counts: %+v", health)
	}
}

func TestBinanceFetchQuote_Errors(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		expected error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expected: sources.ErrUnexpectedStatus,
		},
		{
			name: "unparseable price",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"symbol":"BTCUSDT","price":"not-a-number"}`))
			},
			expected: sources.ErrInvalidPrice,
		},
		{
			name: "zero price",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"symbol":"BTCUSDT","price":"0"}`))
			},
			expected: sources.ErrInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			src := newTestBinanceSource(t, server.URL)

			_, err := src.FetchQuote(context.Background())
			if err == nil {
				t.Fatal("FetchQuote should have failed")
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}

			var fe *sources.FetchError
			if !errors.As(err, &fe) {
				t.Errorf("fetch failures should carry the source name, got %T", err)
			}

			health := src.Health()
			if health.ErrorCount != 1 {
				t.Errorf("expected 1 recorded error, got %d", health.ErrorCount)
			}
		})
	}
}

func TestBinanceRegistered(t *testing.T) {
	src, err := sources.Create("cex", "binance", map[string]interface{}{
		"symbol": "BTC/USD",
		"pair":   "BTCUSDT",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if src.Name() != "binance" {
		t.Errorf("expected name binance, got %s", src.Name())
	}
}
