package config

import (
	"fmt"
	"os"
	"strings"
)

// Validate checks configuration for errors
func Validate(cfg *Config) error {
	// Validate server config
	if err := validateServerConfig(&cfg.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	// Validate sources
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("%w", ErrNoSourcesConfigured)
	}
	enabled := 0
	for i, source := range cfg.Sources {
		if err := validateSourceConfig(&source); err != nil {
			return fmt.Errorf("source %d (%s.%s): %w", i, source.Type, source.Name, err)
		}
		if source.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("%w", ErrNoSourcesEnabled)
	}

	// Validate logging config
	if err := validateLoggingConfig(&cfg.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

func validateServerConfig(cfg *ServerConfig) error {
	// Validate symbol
	if cfg.Symbol == "" {
		return fmt.Errorf("%w", ErrSymbolRequired)
	}
	parts := strings.Split(cfg.Symbol, "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return fmt.Errorf("%w: %s", ErrInvalidSymbolFormat, cfg.Symbol)
	}

	// Validate aggregation parameters
	if cfg.CacheTTL.ToDuration() <= 0 {
		return fmt.Errorf("%w", ErrCacheTTLMustBePositive)
	}
	if cfg.MinSourcesRequired < 1 {
		return fmt.Errorf("%w: got %d", ErrMinSourcesTooLow, cfg.MinSourcesRequired)
	}
	if cfg.OutlierThresholdPercent <= 0 || cfg.OutlierThresholdPercent > 100 {
		return fmt.Errorf("%w: got %g", ErrOutlierThresholdOutOfRange, cfg.OutlierThresholdPercent)
	}

	// Validate TLS config
	if cfg.HTTP.TLS.Enabled {
		if cfg.HTTP.TLS.Cert == "" || cfg.HTTP.TLS.Key == "" {
			return fmt.Errorf("%w", ErrTLSConfigIncomplete)
		}
		if _, err := os.Stat(cfg.HTTP.TLS.Cert); err != nil {
			return fmt.Errorf("%w: %s", ErrTLSCertNotFound, cfg.HTTP.TLS.Cert)
		}
		if _, err := os.Stat(cfg.HTTP.TLS.Key); err != nil {
			return fmt.Errorf("%w: %s", ErrTLSKeyNotFound, cfg.HTTP.TLS.Key)
		}
	}

	return nil
}

func validateSourceConfig(cfg *SourceConfig) error {
	// Validate type
	if cfg.Type == "" {
		return fmt.Errorf("%w", ErrSourceTypeRequired)
	}
	if strings.ToLower(cfg.Type) != "cex" {
		return fmt.Errorf("%w: %s (must be 'cex')", ErrInvalidSourceType, cfg.Type)
	}

	// Validate name
	if cfg.Name == "" {
		return fmt.Errorf("%w", ErrSourceNameRequired)
	}

	// Weight must be strictly positive once defaults are applied
	if cfg.Weight <= 0 {
		return fmt.Errorf("%w: got %g", ErrSourceWeightMustBePositive, cfg.Weight)
	}

	return nil
}

func validateLoggingConfig(cfg *LoggingConfig) error {
	// Validate level
	validLevels := []string{"debug", "info", "warn", "error"}
	levelValid := false
	for _, l := range validLevels {
		if strings.ToLower(cfg.Level) == l {
			levelValid = true
			break
		}
	}
	if !levelValid {
		return fmt.Errorf("%w: %s (must be one of: %s)", ErrInvalidLogLevel, cfg.Level, strings.Join(validLevels, ", "))
	}

	// Validate format
	formatValid := strings.ToLower(cfg.Format) == "json" || strings.ToLower(cfg.Format) == "text"
	if !formatValid {
		return fmt.Errorf("%w: %s (must be 'json' or 'text')", ErrInvalidLogFormat, cfg.Format)
	}

	return nil
}
