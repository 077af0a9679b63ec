package sources

import (
	"errors"
	"testing"

	"github.com/Junman140/oracle/pkg/logging"
)

func TestValidateSymbolFormat_Valid(t *testing.T) {
	tests := []string{
		"BTC/USD",
		"BTC/USDT",
		"ETH/USD",
		"EUR/USD",
	}

	for _, symbol := range tests {
		t.Run(symbol, func(t *testing.T) {
			if err := ValidateSymbolFormat(symbol); err != nil {
				t.Errorf("ValidateSymbolFormat(%q) failed: %v", symbol, err)
			}
		})
	}
}

func TestValidateSymbolFormat_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		symbol   string
		expected error
	}{
		{name: "empty", symbol: "", expected: ErrInvalidSymbolFormat},
		{name: "no separator", symbol: "BTCUSDT", expected: ErrInvalidSymbolFormat},
		{name: "double separator", symbol: "BTC/USD/T", expected: ErrInvalidSymbolFormat},
		{name: "missing base", symbol: "/USD", expected: ErrEmptyBaseCurrency},
		{name: "missing quote", symbol: "BTC/", expected: ErrEmptyQuoteCurrency},
		{name: "whitespace base", symbol: "  /USD", expected: ErrEmptyBaseCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSymbolFormat(tt.symbol)
			if err == nil {
				t.Fatalf("ValidateSymbolFormat(%q) should have failed", tt.symbol)
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestGetLoggerFromConfig(t *testing.T) {
	logger := logging.NewNoopLogger()

	got := GetLoggerFromConfig(map[string]interface{}{"logger": logger})
	if got != logger {
		t.Error("expected the configured logger to be returned")
	}

	// missing or mistyped loggers fall back to a noop logger
	if GetLoggerFromConfig(map[string]interface{}{}) == nil {
		t.Error("expected a fallback logger for empty config")
	}
	if GetLoggerFromConfig(map[string]interface{}{"logger": "not a logger"}) == nil {
		t.Error("expected a fallback logger for mistyped config")
	}
}

func TestGetFloatFromMap(t *testing.T) {
	m := map[string]interface{}{
		"float":  2.5,
		"int":    3,
		"int64":  int64(4),
		"string": "5",
	}

	if v, ok := getFloatFromMap(m, "float"); !ok || v != 2.5 {
		t.Errorf("float: got %v, %v", v, ok)
	}
	if v, ok := getFloatFromMap(m, "int"); !ok || v != 3 {
		t.Errorf("int: got %v, %v", v, ok)
	}
	if v, ok := getFloatFromMap(m, "int64"); !ok || v != 4 {
		t.Errorf("int64: got %v, %v", v, ok)
	}
	if _, ok := getFloatFromMap(m, "string"); ok {
		t.Error("string value should not convert")
	}
	if _, ok := getFloatFromMap(m, "missing"); ok {
		t.Error("missing key should not convert")
	}
}
