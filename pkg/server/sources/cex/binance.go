// Package cex provides centralized exchange price sources.
package cex

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Junman140/oracle/pkg/server/sources"
)

const binanceAPIURL = "https://api.binance.com"

// BinanceSource fetches prices from the Binance REST API.
type BinanceSource struct {
	*sources.BaseSource
}

// BinancePriceTicker represents lightweight price data from /ticker/price
type BinancePriceTicker struct {
	Symbol string `json:"symbol"` // e.g., "BTCUSDT"
	Price  string `json:"price"`  // Current price as string decimal
}

// NewBinanceSource creates a new Binance source.
// Expected config: pair (e.g., "BTCUSDT"), optional api_url, timeout_ms, weight.
func NewBinanceSource(config map[string]interface{}) (sources.Source, error) {
	base, err := sources.NewBaseSource("binance", binanceAPIURL, config)
	if err != nil {
		return nil, err
	}
	return &BinanceSource{BaseSource: base}, nil
}

// FetchQuote retrieves the current price for the configured pair.
func (s *BinanceSource) FetchQuote(ctx context.Context) (sources.Quote, error) {
	start := time.Now()
	quote, err := s.fetch(ctx)
	s.CompleteFetch(start, err)
	if err != nil {
		s.Logger().Warn("Binance fetch failed", "pair", s.Pair(), "error", err.Error())
		return sources.Quote{}, sources.NewFetchError(s.Name(), err)
	}
	return quote, nil
}

func (s *BinanceSource) fetch(ctx context.Context) (sources.Quote, error) {
	url := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%s", s.APIURL(), s.Pair())

	var ticker BinancePriceTicker
	if err := s.GetJSON(ctx, url, &ticker); err != nil {
		return sources.Quote{}, err
	}

	price, err := decimal.NewFromString(ticker.Price)
	if err != nil {
		return sources.Quote{}, fmt.Errorf("%w: %q", sources.ErrInvalidPrice, ticker.Price)
	}

	return s.NewQuote(price)
}

// Register the source in init
func init() {
	sources.Register("cex.binance", NewBinanceSource)
}
