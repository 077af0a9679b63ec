package cex

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Junman140/oracle/pkg/server/sources"
)

const coingeckoAPIURL = "https://api.coingecko.com"

// CoinGeckoSource fetches prices from the CoinGecko REST API.
type CoinGeckoSource struct {
	*sources.BaseSource

	apiKey string
}

// NewCoinGeckoSource creates a new CoinGecko source.
// Expected config: pair as a CoinGecko coin id (e.g., "bitcoin"), optional
// api_key, api_url, timeout_ms, weight.
func NewCoinGeckoSource(config map[string]interface{}) (sources.Source, error) {
	base, err := sources.NewBaseSource("coingecko", coingeckoAPIURL, config)
	if err != nil {
		return nil, err
	}

	apiKey := ""
	if key, ok := config["api_key"].(string); ok {
		apiKey = key
	}

	return &CoinGeckoSource{BaseSource: base, apiKey: apiKey}, nil
}

// FetchQuote retrieves the current price for the configured coin id.
func (s *CoinGeckoSource) FetchQuote(ctx context.Context) (sources.Quote, error) {
	start := time.Now()
	quote, err := s.fetch(ctx)
	s.CompleteFetch(start, err)
	if err != nil {
		s.Logger().Warn("CoinGecko fetch failed", "id", s.Pair(), "error", err.Error())
		return sources.Quote{}, sources.NewFetchError(s.Name(), err)
	}
	return quote, nil
}

func (s *CoinGeckoSource) fetch(ctx context.Context) (sources.Quote, error) {
	url := fmt.Sprintf("%s/api/v3/simple/price?ids=%s&vs_currencies=usd", s.APIURL(), s.Pair())
	if s.apiKey != "" {
		url += "&x_cg_pro_api_key=" + s.apiKey
	}

	// Response shape: {"bitcoin": {"usd": 59000.12}}
	var resp map[string]map[string]float64
	if err := s.GetJSON(ctx, url, &resp); err != nil {
		return sources.Quote{}, err
	}

	coin, ok := resp[s.Pair()]
	if !ok {
		return sources.Quote{}, fmt.Errorf("%w: id %q not in response", sources.ErrInvalidResponse, s.Pair())
	}
	usd, ok := coin["usd"]
	if !ok {
		return sources.Quote{}, fmt.Errorf("%w: no usd price for %q", sources.ErrInvalidResponse, s.Pair())
	}

	return s.NewQuote(decimal.NewFromFloat(usd))
}

// Register the source in init
func init() {
	sources.Register("cex.coingecko", NewCoinGeckoSource)
}
