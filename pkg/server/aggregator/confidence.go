package aggregator

import (
	"math"

	"github.com/Junman140/oracle/pkg/server/sources"
)

// Confidence scoring weights: broad source coverage matters slightly more
// than tight price agreement.
const (
	coverageWeight    = 0.6
	consistencyWeight = 0.4
	// cvPenalty scales the coefficient of variation so that 10% relative
	// spread already zeroes the consistency component.
	cvPenalty = 10.0
)

// ConfidenceScore rates result trustworthiness in [0,1] from how many of the
// registered sources contributed and how tightly their prices agree.
func ConfidenceScore(quotes []sources.Quote, totalSources int) float64 {
	if len(quotes) == 0 || totalSources <= 0 {
		return 0
	}

	sourceRatio := float64(len(quotes)) / float64(totalSources)
	if sourceRatio > 1 {
		sourceRatio = 1
	}

	consistency := 1.0 - coefficientOfVariation(quotes)*cvPenalty
	if consistency < 0 {
		consistency = 0
	}

	score := sourceRatio*coverageWeight + consistency*consistencyWeight
	return clamp01(score)
}

// coefficientOfVariation is the population standard deviation of the prices
// divided by their mean, or 0 for a zero mean (degenerate case).
func coefficientOfVariation(quotes []sources.Quote) float64 {
	n := float64(len(quotes))

	mean := 0.0
	for _, q := range quotes {
		price, _ := q.Price.Float64()
		mean += price
	}
	mean /= n

	if mean == 0 {
		return 0
	}

	variance := 0.0
	for _, q := range quotes {
		price, _ := q.Price.Float64()
		d := price - mean
		variance += d * d
	}
	variance /= n

	return math.Sqrt(variance) / mean
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
