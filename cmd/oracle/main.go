package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Junman140/oracle/pkg/config"
	"github.com/Junman140/oracle/pkg/logging"
	"github.com/Junman140/oracle/pkg/metrics"
	"github.com/Junman140/oracle/pkg/server/aggregator"
	"github.com/Junman140/oracle/pkg/server/api"
	"github.com/Junman140/oracle/pkg/server/sources"
	"github.com/Junman140/oracle/pkg/version"

	// Import sources to register them
	_ "github.com/Junman140/oracle/pkg/server/sources/cex"
)

var (
	configFile = flag.String("config", "config/config.yaml", "Path to configuration file")
	showVer    = flag.Bool("version", false, "Show version and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("oracle version %s\n", version.Version)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logging
	logger, err := logging.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)

	logger.Info("Starting price oracle", "version", version.Version, "symbol", cfg.Server.Symbol)

	// Initialize metrics
	if cfg.Metrics.Enabled {
		metrics.Init()
		go func() {
			logger.Info("Starting metrics server", "addr", cfg.Metrics.Addr)
			if err := metrics.ServeHTTP(cfg.Metrics.Addr); err != nil {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
	}

	// Build sources from configuration, preserving registration order
	srcs, err := buildSources(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create sources", "error", err.Error())
	}
	logger.Info("Registered price sources", "count", len(srcs))

	// Build the aggregation engine
	agg := aggregator.New(aggregator.Config{
		Symbol:                  cfg.Server.Symbol,
		MinSourcesRequired:      cfg.Server.MinSourcesRequired,
		OutlierThresholdPercent: cfg.Server.OutlierThresholdPercent,
		CacheTTL:                cfg.Server.CacheTTL.ToDuration(),
	}, srcs, logger)

	// Start the HTTP server
	server := api.NewServer(cfg.Server.HTTP.Addr, agg, logger)
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	// Wait for shutdown signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", "signal", sig.String())
	case err := <-errChan:
		if err != nil {
			logger.Error("HTTP server failed", "error", err)
		}
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Shutdown complete")
}

// buildSources creates all enabled sources in configuration order.
func buildSources(cfg *config.Config, logger *logging.Logger) ([]sources.Source, error) {
	srcs := make([]sources.Source, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		if !sc.Enabled {
			logger.Info("Skipping disabled source", "type", sc.Type, "name", sc.Name)
			continue
		}

		// Pass the shared symbol, weight and logger through the config map
		sourceCfg := make(map[string]interface{}, len(sc.Config)+3)
		for k, v := range sc.Config {
			sourceCfg[k] = v
		}
		sourceCfg["symbol"] = cfg.Server.Symbol
		sourceCfg["weight"] = sc.Weight
		sourceCfg["logger"] = logger

		src, err := sources.Create(sc.Type, sc.Name, sourceCfg)
		if err != nil {
			return nil, fmt.Errorf("source %s.%s: %w", sc.Type, sc.Name, err)
		}
		srcs = append(srcs, src)
	}
	return srcs, nil
}
