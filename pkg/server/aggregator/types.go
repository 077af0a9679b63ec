// Package aggregator turns independent source quotes into one consensus price.
package aggregator

import (
	"time"

	"github.com/shopspring/decimal"
)

// MethodWeightedAverage is the aggregation method reported in results.
const MethodWeightedAverage = "weighted_average"

func init() {
	// price fields serialize as JSON numbers rather than quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// SourceDetail is the per-source breakdown of a surviving quote.
type SourceDetail struct {
	Price     decimal.Decimal `json:"price"`
	Weight    float64         `json:"weight"`
	Timestamp time.Time       `json:"timestamp"`
}

// Result is the consensus price with its provenance and confidence.
type Result struct {
	Price        decimal.Decimal         `json:"price_usd"`
	Timestamp    time.Time               `json:"timestamp"`
	SourcesUsed  int                     `json:"sources_used"`
	TotalSources int                     `json:"total_sources"`
	Method       string                  `json:"aggregation_method"`
	SourcePrices map[string]SourceDetail `json:"source_prices"`
	Confidence   float64                 `json:"confidence_score"`
	CacheHit     bool                    `json:"cache_hit"`
	// Degraded is true when outlier filtering left fewer than the minimum
	// number of quotes and the unfiltered set was used instead.
	Degraded bool `json:"degraded"`
}
