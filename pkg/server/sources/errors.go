package sources

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus indicates an unexpected HTTP status code.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status code")
	// ErrRateLimitExceeded indicates that a rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrAPIError indicates an API error.
	ErrAPIError = errors.New("API error")
	// ErrInvalidResponse indicates an invalid response from the source.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrInvalidPrice indicates a non-positive or unparseable price.
	ErrInvalidPrice = errors.New("invalid price")
	// ErrInvalidConfig indicates that the source configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInvalidWeight indicates a non-positive source weight.
	ErrInvalidWeight = errors.New("weight must be positive")
	// ErrPairRequired indicates that the pair configuration is missing.
	ErrPairRequired = errors.New("'pair' is required")
	// ErrInvalidSymbolFormat indicates that the symbol format is invalid.
	ErrInvalidSymbolFormat = errors.New("symbol must be in BASE/QUOTE format")
	// ErrEmptyBaseCurrency indicates that the symbol BASE currency cannot be empty.
	ErrEmptyBaseCurrency = errors.New("symbol BASE currency cannot be empty")
	// ErrEmptyQuoteCurrency indicates that the symbol QUOTE currency cannot be empty.
	ErrEmptyQuoteCurrency = errors.New("symbol QUOTE currency cannot be empty")
	// ErrUnknownSource indicates that no factory is registered for a source.
	ErrUnknownSource = errors.New("unknown source")
)

// FetchError reports a failed quote fetch from one source. It is recorded in
// the source's health state and absorbed by the aggregator; it never escapes
// the aggregation boundary.
type FetchError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("source %s: fetch failed: %v", e.Source, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps a fetch failure with the originating source name.
func NewFetchError(source string, err error) *FetchError {
	return &FetchError{Source: source, Err: err}
}
