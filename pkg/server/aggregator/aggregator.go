package aggregator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Junman140/oracle/pkg/logging"
	"github.com/Junman140/oracle/pkg/metrics"
	"github.com/Junman140/oracle/pkg/server/sources"
)

// Config holds the aggregation parameters, supplied at construction and
// never mutated afterwards.
type Config struct {
	Symbol                  string
	MinSourcesRequired      int
	OutlierThresholdPercent float64
	CacheTTL                time.Duration
}

// Aggregator orchestrates one consensus price: fan-out fetch over all
// registered sources, outlier filtering, weighted averaging, confidence
// scoring and TTL caching of the result.
type Aggregator struct {
	symbol     string
	srcs       []sources.Source // registration order
	filter     *OutlierFilter
	cache      *ResultCache
	minSources int
	logger     *logging.Logger
}

// New creates an aggregator over the given sources. Source order is
// preserved; statuses and fetch partitioning follow registration order.
func New(cfg Config, srcs []sources.Source, logger *logging.Logger) *Aggregator {
	return &Aggregator{
		symbol:     cfg.Symbol,
		srcs:       srcs,
		filter:     NewOutlierFilter(cfg.OutlierThresholdPercent, logger),
		cache:      NewResultCache(cfg.CacheTTL),
		minSources: cfg.MinSourcesRequired,
		logger:     logger,
	}
}

// Symbol returns the asset symbol this aggregator prices.
func (a *Aggregator) Symbol() string {
	return a.symbol
}

// AggregatedPrice returns the cached consensus price if fresh, otherwise
// runs a full aggregation cycle. It fails only with ErrInsufficientSources,
// and in that case the cache is left untouched.
func (a *Aggregator) AggregatedPrice(ctx context.Context) (Result, error) {
	if cached, ok := a.cache.Get(); ok {
		metrics.RecordCacheHit()
		cached.CacheHit = true
		return cached, nil
	}
	metrics.RecordCacheMiss()

	start := time.Now()

	quotes := a.fetchAll(ctx)
	if len(quotes) < a.minSources {
		return Result{}, fmt.Errorf("%w: %d of %d sources returned quotes, %d required",
			ErrInsufficientSources, len(quotes), len(a.srcs), a.minSources)
	}

	chosen := a.filter.Filter(quotes)
	degraded := false
	if len(chosen) < a.minSources {
		a.logger.Warn("Outlier filtering left too few quotes, using unfiltered set",
			"symbol", a.symbol,
			"filtered", len(chosen),
			"unfiltered", len(quotes),
			"required", a.minSources)
		metrics.RecordDegradedAggregation()
		chosen = quotes
		degraded = true
	}

	details := make(map[string]SourceDetail, len(chosen))
	for _, q := range chosen {
		details[q.Source] = SourceDetail{
			Price:     q.Price,
			Weight:    q.Weight,
			Timestamp: q.Timestamp,
		}
	}

	result := Result{
		Price:        WeightedAverage(chosen),
		Timestamp:    time.Now(),
		SourcesUsed:  len(chosen),
		TotalSources: len(a.srcs),
		Method:       MethodWeightedAverage,
		SourcePrices: details,
		Confidence:   ConfidenceScore(chosen, len(a.srcs)),
		Degraded:     degraded,
	}

	metrics.RecordAggregation(time.Since(start), result.Confidence)
	a.cache.Set(result)

	a.logger.Debug("Aggregated price computed",
		"symbol", a.symbol,
		"price", result.Price.String(),
		"sources_used", result.SourcesUsed,
		"confidence", result.Confidence)

	return result, nil
}

// SourceStatuses returns health snapshots for all sources in registration order.
func (a *Aggregator) SourceStatuses() []sources.HealthSnapshot {
	statuses := make([]sources.HealthSnapshot, 0, len(a.srcs))
	for _, src := range a.srcs {
		statuses = append(statuses, src.Health())
	}
	return statuses
}

type fetchOutcome struct {
	quote sources.Quote
	err   error
}

// fetchAll queries every source concurrently and waits for all of them to
// settle. Each goroutine writes its own slice index, so successes are
// partitioned deterministically in registration order. A failed source has
// already recorded the error in its own health state; here it just abstains.
func (a *Aggregator) fetchAll(ctx context.Context) []sources.Quote {
	outcomes := make([]fetchOutcome, len(a.srcs))

	var wg sync.WaitGroup
	for i, src := range a.srcs {
		wg.Add(1)
		go func(i int, src sources.Source) {
			defer wg.Done()
			quote, err := src.FetchQuote(ctx)
			outcomes[i] = fetchOutcome{quote: quote, err: err}
		}(i, src)
	}
	wg.Wait()

	quotes := make([]sources.Quote, 0, len(a.srcs))
	for i, outcome := range outcomes {
		if outcome.err != nil {
			a.logger.Warn("Source abstained this cycle",
				"source", a.srcs[i].Name(),
				"error", outcome.err.Error())
			continue
		}
		quotes = append(quotes, outcome.quote)
	}
	return quotes
}
