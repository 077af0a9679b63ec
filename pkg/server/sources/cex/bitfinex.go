package cex

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Junman140/oracle/pkg/server/sources"
)

const bitfinexAPIURL = "https://api-pub.bitfinex.com"

// bitfinexLastPriceIndex is the position of LAST_PRICE in the ticker array.
const bitfinexLastPriceIndex = 6

// BitfinexSource fetches prices from the Bitfinex REST API.
type BitfinexSource struct {
	*sources.BaseSource
}

// NewBitfinexSource creates a new Bitfinex source.
// Expected config: pair in Bitfinex naming (e.g., "tBTCUSD"), optional
// api_url, timeout_ms, weight.
func NewBitfinexSource(config map[string]interface{}) (sources.Source, error) {
	base, err := sources.NewBaseSource("bitfinex", bitfinexAPIURL, config)
	if err != nil {
		return nil, err
	}
	return &BitfinexSource{BaseSource: base}, nil
}

// FetchQuote retrieves the current price for the configured pair.
func (s *BitfinexSource) FetchQuote(ctx context.Context) (sources.Quote, error) {
	start := time.Now()
	quote, err := s.fetch(ctx)
	s.CompleteFetch(start, err)
	if err != nil {
		s.Logger().Warn("Bitfinex fetch failed", "pair", s.Pair(), "error", err.Error())
		return sources.Quote{}, sources.NewFetchError(s.Name(), err)
	}
	return quote, nil
}

func (s *BitfinexSource) fetch(ctx context.Context) (sources.Quote, error) {
	url := fmt.Sprintf("%s/v2/ticker/%s", s.APIURL(), s.Pair())

	// Bitfinex returns a flat array:
	// [BID, BID_SIZE, ASK, ASK_SIZE, DAILY_CHANGE, DAILY_CHANGE_RELATIVE,
	//  LAST_PRICE, VOLUME, HIGH, LOW]
	var ticker []float64
	if err := s.GetJSON(ctx, url, &ticker); err != nil {
		return sources.Quote{}, err
	}

	if len(ticker) <= bitfinexLastPriceIndex {
		return sources.Quote{}, fmt.Errorf("%w: ticker array has %d fields", sources.ErrInvalidResponse, len(ticker))
	}

	return s.NewQuote(decimal.NewFromFloat(ticker[bitfinexLastPriceIndex]))
}

// Register the source in init
func init() {
	sources.Register("cex.bitfinex", NewBitfinexSource)
}
