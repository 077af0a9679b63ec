package aggregator

import (
	"github.com/shopspring/decimal"

	"github.com/Junman140/oracle/pkg/server/sources"
)

// WeightedAverage computes sum(price * weight) / sum(weight) over the quote
// set. Quotes carrying a non-positive weight count with weight 1.0; validated
// construction makes that unreachable in practice. Returns zero for an empty
// set, which callers exclude beforehand.
func WeightedAverage(quotes []sources.Quote) decimal.Decimal {
	if len(quotes) == 0 {
		return decimal.Zero
	}

	weightedSum := decimal.Zero
	totalWeight := decimal.Zero
	for _, q := range quotes {
		weight := q.Weight
		if weight <= 0 {
			weight = 1.0
		}
		w := decimal.NewFromFloat(weight)
		weightedSum = weightedSum.Add(q.Price.Mul(w))
		totalWeight = totalWeight.Add(w)
	}

	return weightedSum.Div(totalWeight)
}
