package aggregator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Junman140/oracle/pkg/logging"
	"github.com/Junman140/oracle/pkg/metrics"
	"github.com/Junman140/oracle/pkg/server/sources"
)

// minQuotesForFiltering is the smallest set worth judging for outliers.
const minQuotesForFiltering = 3

// OutlierFilter removes quotes that deviate too far from the median price.
type OutlierFilter struct {
	threshold decimal.Decimal // fraction of the median, e.g. 0.10 for 10%
	logger    *logging.Logger
}

// NewOutlierFilter creates a filter with the given threshold in percent.
func NewOutlierFilter(thresholdPercent float64, logger *logging.Logger) *OutlierFilter {
	return &OutlierFilter{
		threshold: decimal.NewFromFloat(thresholdPercent).Div(decimal.NewFromInt(100)),
		logger:    logger,
	}
}

// Filter returns the quotes whose absolute deviation from the median price is
// within the threshold. Sets smaller than three quotes are returned unchanged
// since there is not enough data to judge outliers. The result may be empty.
func (f *OutlierFilter) Filter(quotes []sources.Quote) []sources.Quote {
	if len(quotes) < minQuotesForFiltering {
		return quotes
	}

	median := medianPrice(quotes)
	maxDeviation := median.Mul(f.threshold)

	filtered := make([]sources.Quote, 0, len(quotes))
	for _, q := range quotes {
		deviation := q.Price.Sub(median).Abs()
		if deviation.GreaterThan(maxDeviation) {
			f.logger.Debug("Rejecting outlier quote",
				"source", q.Source,
				"price", q.Price.String(),
				"median", median.String(),
				"deviation", deviation.String())
			metrics.RecordOutlierRejection(q.Source)
			continue
		}
		filtered = append(filtered, q)
	}

	return filtered
}

// medianPrice returns the upper median: after an ascending sort, the element
// at index n/2 for both odd and even counts.
func medianPrice(quotes []sources.Quote) decimal.Decimal {
	sorted := make([]sources.Quote, len(quotes))
	copy(sorted, quotes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Price.LessThan(sorted[j].Price)
	})
	return sorted[len(sorted)/2].Price
}
