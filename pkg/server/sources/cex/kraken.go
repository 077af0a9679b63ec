package cex

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Junman140/oracle/pkg/server/sources"
)

const krakenAPIURL = "https://api.kraken.com"

// KrakenSource fetches prices from the Kraken REST API.
type KrakenSource struct {
	*sources.BaseSource
}

// KrakenTickerData represents ticker data for a single pair
type KrakenTickerData struct {
	A []string `json:"a"` // Ask [price, whole lot volume, lot volume]
	B []string `json:"b"` // Bid [price, whole lot volume, lot volume]
	C []string `json:"c"` // Last trade [price, lot volume]
}

// KrakenResponse represents the API response
type KrakenResponse struct {
	Error  []string                    `json:"error"`
	Result map[string]KrakenTickerData `json:"result"`
}

// NewKrakenSource creates a new Kraken source.
// Expected config: pair in Kraken naming (e.g., "XBTUSD"), optional api_url,
// timeout_ms, weight.
func NewKrakenSource(config map[string]interface{}) (sources.Source, error) {
	base, err := sources.NewBaseSource("kraken", krakenAPIURL, config)
	if err != nil {
		return nil, err
	}
	return &KrakenSource{BaseSource: base}, nil
}

// FetchQuote retrieves the current price for the configured pair.
func (s *KrakenSource) FetchQuote(ctx context.Context) (sources.Quote, error) {
	start := time.Now()
	quote, err := s.fetch(ctx)
	s.CompleteFetch(start, err)
	if err != nil {
		s.Logger().Warn("Kraken fetch failed", "pair", s.Pair(), "error", err.Error())
		return sources.Quote{}, sources.NewFetchError(s.Name(), err)
	}
	return quote, nil
}

func (s *KrakenSource) fetch(ctx context.Context) (sources.Quote, error) {
	url := fmt.Sprintf("%s/0/public/Ticker?pair=%s", s.APIURL(), s.Pair())

	var resp KrakenResponse
	if err := s.GetJSON(ctx, url, &resp); err != nil {
		return sources.Quote{}, err
	}

	if len(resp.Error) > 0 {
		return sources.Quote{}, fmt.Errorf("%w: %v", sources.ErrAPIError, resp.Error)
	}

	// Kraken keys the result with its own canonical pair name, which does not
	// always match the requested pair. A single pair was requested, so take
	// the single entry.
	for _, ticker := range resp.Result {
		if len(ticker.C) == 0 {
			return sources.Quote{}, fmt.Errorf("%w: missing last trade data", sources.ErrInvalidResponse)
		}
		price, err := decimal.NewFromString(ticker.C[0])
		if err != nil {
			return sources.Quote{}, fmt.Errorf("%w: %q", sources.ErrInvalidPrice, ticker.C[0])
		}
		return s.NewQuote(price)
	}

	return sources.Quote{}, fmt.Errorf("%w: empty result", sources.ErrInvalidResponse)
}

// Register the source in init
func init() {
	sources.Register("cex.kraken", NewKrakenSource)
}
