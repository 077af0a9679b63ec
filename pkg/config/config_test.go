package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfigFile(t, `
server:
  http:
    addr: ":9000"
  symbol: "ETH/USD"
  cache_ttl: 45s
  min_sources_required: 3
  outlier_threshold_percent: 5
sources:
  - type: cex
    name: binance
    enabled: true
    weight: 2.0
    config:
      pair: ETHUSDT
  - type: cex
    name: kraken
    enabled: true
    config:
      pair: ETHUSD
logging:
  level: debug
  format: text
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.HTTP.Addr != ":9000" {
		t.Errorf("unexpected addr: %s", cfg.Server.HTTP.Addr)
	}
	if cfg.Server.Symbol != "ETH/USD" {
		t.Errorf("unexpected symbol: %s", cfg.Server.Symbol)
	}
	if cfg.Server.CacheTTL.ToDuration() != 45*time.Second {
		t.Errorf("unexpected cache TTL: %v", cfg.Server.CacheTTL.ToDuration())
	}
	if cfg.Server.MinSourcesRequired != 3 {
		t.Errorf("unexpected min sources: %d", cfg.Server.MinSourcesRequired)
	}
	if cfg.Server.OutlierThresholdPercent != 5 {
		t.Errorf("unexpected threshold: %g", cfg.Server.OutlierThresholdPercent)
	}
	if len(cfg.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(cfg.Sources))
	}
	if cfg.Sources[0].Weight != 2.0 {
		t.Errorf("unexpected weight: %g", cfg.Sources[0].Weight)
	}
	// omitted weight defaults to 1.0
	if cfg.Sources[1].Weight != 1.0 {
		t.Errorf("expected default weight 1.0, got %g", cfg.Sources[1].Weight)
	}
	if cfg.Sources[0].GetString("pair", "") != "ETHUSDT" {
		t.Errorf("unexpected pair: %s", cfg.Sources[0].GetString("pair", ""))
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
sources:
  - type: cex
    name: binance
    enabled: true
    config:
      pair: BTCUSDT
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.HTTP.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %s", cfg.Server.HTTP.Addr)
	}
	if cfg.Server.Symbol != "BTC/USD" {
		t.Errorf("expected default symbol BTC/USD, got %s", cfg.Server.Symbol)
	}
	if cfg.Server.CacheTTL.ToDuration() != 30*time.Second {
		t.Errorf("expected default TTL 30s, got %v", cfg.Server.CacheTTL.ToDuration())
	}
	if cfg.Server.MinSourcesRequired != 2 {
		t.Errorf("expected default min sources 2, got %d", cfg.Server.MinSourcesRequired)
	}
	if cfg.Server.OutlierThresholdPercent != 10 {
		t.Errorf("expected default threshold 10, got %g", cfg.Server.OutlierThresholdPercent)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" || cfg.Logging.Output != "stdout" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_ORACLE_PAIR", "BTCUSDT")

	path := writeConfigFile(t, `
sources:
  - type: cex
    name: binance
    enabled: true
    config:
      pair: ${TEST_ORACLE_PAIR}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := cfg.Sources[0].GetString("pair", ""); got != "BTCUSDT" {
		t.Errorf("expected env-expanded pair BTCUSDT, got %q", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load should fail for a missing file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [not a map")
	if _, err := Load(path); err == nil {
		t.Error("Load should fail for malformed YAML")
	}
}

func TestDuration_Parsing(t *testing.T) {
	path := writeConfigFile(t, `
server:
  cache_ttl: 1m30s
sources:
  - type: cex
    name: binance
    enabled: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.CacheTTL.ToDuration() != 90*time.Second {
		t.Errorf("expected 90s, got %v", cfg.Server.CacheTTL.ToDuration())
	}

	path = writeConfigFile(t, `
server:
  cache_ttl: not-a-duration
`)
	if _, err := Load(path); err == nil {
		t.Error("Load should fail for an unparseable duration")
	}
}

func validTestConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTP:                    HTTPConfig{Addr: ":8080"},
			Symbol:                  "BTC/USD",
			CacheTTL:                Duration(30 * time.Second),
			MinSourcesRequired:      2,
			OutlierThresholdPercent: 10,
		},
		Sources: []SourceConfig{
			{Type: "cex", Name: "binance", Enabled: true, Weight: 1.0},
			{Type: "cex", Name: "kraken", Enabled: true, Weight: 1.0},
		},
		Logging: LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(validTestConfig()); err != nil {
		t.Errorf("Validate failed for a valid config: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		expected error
	}{
		{
			name:     "no sources",
			mutate:   func(c *Config) { c.Sources = nil },
			expected: ErrNoSourcesConfigured,
		},
		{
			name: "all sources disabled",
			mutate: func(c *Config) {
				for i := range c.Sources {
					c.Sources[i].Enabled = false
				}
			},
			expected: ErrNoSourcesEnabled,
		},
		{
			name:     "missing symbol",
			mutate:   func(c *Config) { c.Server.Symbol = "" },
			expected: ErrSymbolRequired,
		},
		{
			name:     "bad symbol format",
			mutate:   func(c *Config) { c.Server.Symbol = "BTCUSD" },
			expected: ErrInvalidSymbolFormat,
		},
		{
			name:     "zero cache TTL",
			mutate:   func(c *Config) { c.Server.CacheTTL = 0 },
			expected: ErrCacheTTLMustBePositive,
		},
		{
			name:     "min sources below one",
			mutate:   func(c *Config) { c.Server.MinSourcesRequired = 0 },
			expected: ErrMinSourcesTooLow,
		},
		{
			name:     "threshold zero",
			mutate:   func(c *Config) { c.Server.OutlierThresholdPercent = 0 },
			expected: ErrOutlierThresholdOutOfRange,
		},
		{
			name:     "threshold above 100",
			mutate:   func(c *Config) { c.Server.OutlierThresholdPercent = 150 },
			expected: ErrOutlierThresholdOutOfRange,
		},
		{
			name:     "source type missing",
			mutate:   func(c *Config) { c.Sources[0].Type = "" },
			expected: ErrSourceTypeRequired,
		},
		{
			name:     "source type unknown",
			mutate:   func(c *Config) { c.Sources[0].Type = "dex" },
			expected: ErrInvalidSourceType,
		},
		{
			name:     "source name missing",
			mutate:   func(c *Config) { c.Sources[0].Name = "" },
			expected: ErrSourceNameRequired,
		},
		{
			name:     "source weight negative",
			mutate:   func(c *Config) { c.Sources[0].Weight = -1 },
			expected: ErrSourceWeightMustBePositive,
		},
		{
			name:     "TLS enabled without files",
			mutate:   func(c *Config) { c.Server.HTTP.TLS.Enabled = true },
			expected: ErrTLSConfigIncomplete,
		},
		{
			name:     "bad log level",
			mutate:   func(c *Config) { c.Logging.Level = "verbose" },
			expected: ErrInvalidLogLevel,
		},
		{
			name:     "bad log format",
			mutate:   func(c *Config) { c.Logging.Format = "xml" },
			expected: ErrInvalidLogFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate should have failed")
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestSourceConfig_Getters(t *testing.T) {
	sc := SourceConfig{Config: map[string]interface{}{
		"pair":       "BTCUSDT",
		"timeout_ms": 500,
		"enabled":    true,
	}}

	if sc.GetString("pair", "x") != "BTCUSDT" {
		t.Error("GetString should return the configured value")
	}
	if sc.GetString("missing", "fallback") != "fallback" {
		t.Error("GetString should fall back for missing keys")
	}
	if sc.GetInt("timeout_ms", 0) != 500 {
		t.Error("GetInt should return the configured value")
	}
	if sc.GetInt("pair", 7) != 7 {
		t.Error("GetInt should fall back for mistyped values")
	}
	if !sc.GetBool("enabled", false) {
		t.Error("GetBool should return the configured value")
	}
	if sc.GetBool("missing", true) != true {
		t.Error("GetBool should fall back for missing keys")
	}
}
