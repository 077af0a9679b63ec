package sources

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Quote represents one source's price observation for a symbol.
// A quote is immutable once produced and consumed once per aggregation cycle.
type Quote struct {
	Source    string          `json:"source"`
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Weight    float64         `json:"weight"`
	Timestamp time.Time       `json:"timestamp"`
}

// Source defines the capability contract that all price sources must implement.
// A source fetches one quote per call and maintains its own health statistics;
// fetch failures are reported as errors, never as fatal conditions.
type Source interface {
	// FetchQuote retrieves the current price observation for the configured symbol.
	FetchQuote(ctx context.Context) (Quote, error)

	// Name returns the unique name of this source
	Name() string

	// Weight returns the aggregation weight of this source (always > 0)
	Weight() float64

	// Health returns a read-only snapshot of the source's health statistics
	Health() HealthSnapshot
}

// SourceFactory is a function that creates a new Source instance
type SourceFactory func(config map[string]interface{}) (Source, error)
