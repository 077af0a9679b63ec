package config

import "errors"

var (
	// ErrNoSourcesConfigured indicates that no price sources are configured.
	ErrNoSourcesConfigured = errors.New("at least one price source must be configured")
	// ErrNoSourcesEnabled indicates that no sources are enabled.
	ErrNoSourcesEnabled = errors.New("no sources enabled")
	// ErrSourceTypeRequired indicates that source type is required.
	ErrSourceTypeRequired = errors.New("source type is required")
	// ErrSourceNameRequired indicates that source name is required.
	ErrSourceNameRequired = errors.New("source name is required")
	// ErrInvalidSourceType indicates that the source type is invalid.
	ErrInvalidSourceType = errors.New("invalid source type")
	// ErrSourceWeightMustBePositive indicates that source weight must be > 0.
	ErrSourceWeightMustBePositive = errors.New("weight must be > 0")
	// ErrSymbolRequired indicates that the server symbol must be specified.
	ErrSymbolRequired = errors.New("symbol must be specified")
	// ErrInvalidSymbolFormat indicates that the symbol is not in BASE/QUOTE format.
	ErrInvalidSymbolFormat = errors.New("symbol must be in BASE/QUOTE format")
	// ErrCacheTTLMustBePositive indicates that cache_ttl must be > 0.
	ErrCacheTTLMustBePositive = errors.New("cache_ttl must be > 0")
	// ErrMinSourcesTooLow indicates that min_sources_required must be >= 1.
	ErrMinSourcesTooLow = errors.New("min_sources_required must be >= 1")
	// ErrOutlierThresholdOutOfRange indicates that outlier_threshold_percent is out of range.
	ErrOutlierThresholdOutOfRange = errors.New("outlier_threshold_percent must be in (0, 100]")
	// ErrTLSConfigIncomplete indicates that TLS config is incomplete.
	ErrTLSConfigIncomplete = errors.New("TLS cert and key must be specified when TLS is enabled")
	// ErrTLSCertNotFound indicates that the TLS cert file was not found.
	ErrTLSCertNotFound = errors.New("TLS cert file not found")
	// ErrTLSKeyNotFound indicates that the TLS key file was not found.
	ErrTLSKeyNotFound = errors.New("TLS key file not found")
	// ErrInvalidLogLevel indicates that the log level is invalid.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat indicates that the log format is invalid.
	ErrInvalidLogFormat = errors.New("invalid log format")
)
