// Command librarysvc serves the library loan API over HTTP.
//
// Configuration comes from LIBRARY_* environment variables or library.yaml, see library/shell/config.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/AntonStoeckl/library-lending/eventstore/oteladapters"
	"github.com/AntonStoeckl/library-lending/library/loanmanager"
	"github.com/AntonStoeckl/library-lending/library/shell/config"
	"github.com/AntonStoeckl/library-lending/library/shell/httpapi"
	"github.com/AntonStoeckl/library-lending/library/shell/logging"
	"github.com/AntonStoeckl/library-lending/library/shell/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("librarysvc failed: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("building logger failed: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting",
		"db_adapter", cfg.DBAdapter,
		"http_addr", cfg.HTTPAddr,
		"loan_period_days", cfg.LoanPeriodDays,
		"max_concurrent_loans", cfg.MaxConcurrentLoans,
		"observability_enabled", cfg.ObservabilityEnabled,
	)

	managerOptions := []loanmanager.Option{
		loanmanager.WithLoanPeriodDays(cfg.LoanPeriodDays),
		loanmanager.WithMaxConcurrentLoans(cfg.MaxConcurrentLoans),
		loanmanager.WithContextualLogger(logger),
	}

	var collectors storage.Collectors
	if cfg.ObservabilityEnabled {
		providers, err := config.NewObservabilityProviders(ctx, cfg)
		if err != nil {
			return fmt.Errorf("setting up observability failed: %w", err)
		}
		defer func() {
			if err := providers.Shutdown(context.Background()); err != nil {
				logger.Error("shutting down observability failed", "error", err)
			}
		}()

		metrics := oteladapters.NewMetricsCollector(providers.MeterProvider.Meter(providers.InstrumentationName()))
		tracing := oteladapters.NewTracingCollector(providers.TracerProvider.Tracer(providers.InstrumentationName()))
		collectors = storage.Collectors{
			Metrics:          metrics,
			Tracing:          tracing,
			ContextualLogger: oteladapters.NewSlogBridgeLogger(providers.InstrumentationName()),
		}

		managerOptions = append(managerOptions,
			loanmanager.WithMetrics(metrics),
			loanmanager.WithTracing(tracing),
		)
	}

	store, closeStore, err := storage.Open(ctx, cfg, logger, collectors)
	if err != nil {
		return err
	}
	defer closeStore()

	manager, err := loanmanager.NewManager(store, managerOptions...)
	if err != nil {
		return err
	}

	server := httpapi.NewServer(cfg.HTTPAddr, httpapi.RouterConfig{
		Service:     manager,
		Logger:      logger,
		ServiceName: cfg.ServiceName,
		Tracing:     cfg.ObservabilityEnabled,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Run()
	}()

	logger.Info("listening", "http_addr", cfg.HTTPAddr)

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	return server.Shutdown(context.Background())
}
