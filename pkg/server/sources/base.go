package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Junman140/oracle/pkg/logging"
	"github.com/Junman140/oracle/pkg/metrics"
	"github.com/Junman140/oracle/pkg/version"
)

const defaultFetchTimeout = 10 * time.Second

// BaseSource provides common functionality for all price sources: symbol and
// weight plumbing, an HTTP client with per-source timeout, health tracking
// and fetch instrumentation.
type BaseSource struct {
	name   string
	symbol string // unified symbol, e.g. "BTC/USD"
	pair   string // source-specific symbol, e.g. "BTCUSDT"
	weight float64
	apiURL string
	client *http.Client
	health *HealthTracker
	logger *logging.Logger
}

// NewBaseSource creates a base source from the per-source config map.
// Recognized keys: "symbol" (unified BASE/QUOTE symbol), "pair"
// (source-specific symbol), "weight" (> 0, default 1.0), "api_url"
// (endpoint override), "timeout_ms", "logger".
func NewBaseSource(name, defaultAPIURL string, config map[string]interface{}) (*BaseSource, error) {
	symbol := getStringFromMap(config, "symbol")
	if err := ValidateSymbolFormat(symbol); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	pair := getStringFromMap(config, "pair")
	if pair == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, ErrPairRequired)
	}

	weight := 1.0
	if w, ok := getFloatFromMap(config, "weight"); ok {
		if w <= 0 {
			return nil, fmt.Errorf("%w: %w: got %g", ErrInvalidConfig, ErrInvalidWeight, w)
		}
		weight = w
	}

	apiURL := defaultAPIURL
	if url := getStringFromMap(config, "api_url"); url != "" {
		apiURL = url
	}

	timeout := defaultFetchTimeout
	if ms := getIntFromMap(config, "timeout_ms", 0); ms > 0 {
		timeout = time.Duration(ms) * time.Millisecond
	}

	return &BaseSource{
		name:   name,
		symbol: symbol,
		pair:   pair,
		weight: weight,
		apiURL: apiURL,
		client: &http.Client{Timeout: timeout},
		health: NewHealthTracker(name),
		logger: GetLoggerFromConfig(config),
	}, nil
}

// Name returns the source name
func (b *BaseSource) Name() string {
	return b.name
}

// Symbol returns the unified symbol this source quotes
func (b *BaseSource) Symbol() string {
	return b.symbol
}

// Pair returns the source-specific symbol
func (b *BaseSource) Pair() string {
	return b.pair
}

// Weight returns the aggregation weight
func (b *BaseSource) Weight() float64 {
	return b.weight
}

// APIURL returns the configured API base URL
func (b *BaseSource) APIURL() string {
	return b.apiURL
}

// Health returns a read-only snapshot of the source's health statistics
func (b *BaseSource) Health() HealthSnapshot {
	return b.health.Snapshot()
}

// Logger returns the logger
func (b *BaseSource) Logger() *logging.Logger {
	return b.logger
}

// GetJSON performs a GET request and decodes the JSON response into target.
func (b *BaseSource) GetJSON(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w", ErrRateLimitExceeded)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return nil
}

// NewQuote builds a quote for the source's symbol, rejecting non-positive prices.
func (b *BaseSource) NewQuote(price decimal.Decimal) (Quote, error) {
	if !price.IsPositive() {
		return Quote{}, fmt.Errorf("%w: %s", ErrInvalidPrice, price.String())
	}
	return Quote{
		Source:    b.name,
		Symbol:    b.symbol,
		Price:     price,
		Weight:    b.weight,
		Timestamp: time.Now(),
	}, nil
}

// CompleteFetch records the outcome of one fetch in the health tracker and metrics.
func (b *BaseSource) CompleteFetch(start time.Time, err error) {
	elapsed := time.Since(start)
	if err != nil {
		b.health.RecordError(err)
		metrics.RecordSourceFetch(b.name, false, elapsed)
		return
	}
	b.health.RecordSuccess(elapsed)
	metrics.RecordSourceFetch(b.name, true, elapsed)
}
