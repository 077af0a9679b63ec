package cex

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Junman140/oracle/pkg/server/sources"
)

const coinbaseAPIURL = "https://api.coinbase.com"

// CoinbaseSource fetches spot prices from the Coinbase REST API.
type CoinbaseSource struct {
	*sources.BaseSource
}

// CoinbaseSpotResponse represents the /v2/prices/<pair>/spot response
type CoinbaseSpotResponse struct {
	Data struct {
		Base     string `json:"base"`
		Currency string `json:"currency"`
		Amount   string `json:"amount"` // Price as string decimal
	} `json:"data"`
}

// NewCoinbaseSource creates a new Coinbase source.
// Expected config: pair in Coinbase naming (e.g., "BTC-USD"), optional
// api_url, timeout_ms, weight.
func NewCoinbaseSource(config map[string]interface{}) (sources.Source, error) {
	base, err := sources.NewBaseSource("coinbase", coinbaseAPIURL, config)
	if err != nil {
		return nil, err
	}
	return &CoinbaseSource{BaseSource: base}, nil
}

// FetchQuote retrieves the current spot price for the configured pair.
func (s *CoinbaseSource) FetchQuote(ctx context.Context) (sources.Quote, error) {
	start := time.Now()
	quote, err := s.fetch(ctx)
	s.CompleteFetch(start, err)
	if err != nil {
		s.Logger().Warn("Coinbase fetch failed", "pair", s.Pair(), "error", err.Error())
		return sources.Quote{}, sources.NewFetchError(s.Name(), err)
	}
	return quote, nil
}

func (s *CoinbaseSource) fetch(ctx context.Context) (sources.Quote, error) {
	url := fmt.Sprintf("%s/v2/prices/%s/spot", s.APIURL(), s.Pair())

	var resp CoinbaseSpotResponse
	if err := s.GetJSON(ctx, url, &resp); err != nil {
		return sources.Quote{}, err
	}

	price, err := decimal.NewFromString(resp.Data.Amount)
	if err != nil {
		return sources.Quote{}, fmt.Errorf("%w: %q", sources.ErrInvalidPrice, resp.Data.Amount)
	}

	return s.NewQuote(price)
}

// Register the source in init
func init() {
	sources.Register("cex.coinbase", NewCoinbaseSource)
}
