package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spendscan/config"
	"spendscan/core/domain"
	"spendscan/core/port/in"
	"spendscan/internal/bootstrap"
	"spendscan/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	shutdownTimeout = 30 * time.Second // Maximum time to wait for graceful shutdown
	scanTimeout     = 10 * time.Minute
)

func main() {
	logger.Init(logger.Config{
		Level:   logger.LevelInfo,
		Service: "spendscan",
	})

	// Load .env file if exists (for local development)
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	mode := flag.String("mode", "serve", "Run mode: serve, scan")
	kind := flag.String("kind", "", "Record kind for scan mode: purchase, refund, warranty")
	lookback := flag.Int("lookback", 0, "Lookback days for scan mode (0 = configured default)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	switch *mode {
	case "serve":
		runAPI(cfg)
	case "scan":
		runScan(cfg, *kind, *lookback)
	default:
		logger.Fatal("Unknown mode: %s", *mode)
	}
}

func runAPI(cfg *config.Config) {
	app, cleanup, err := bootstrap.NewAPI(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize API: %v", err)
	}
	defer cleanup()

	// Graceful shutdown with timeout
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API server (timeout: %v)...", shutdownTimeout)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- app.Shutdown()
		}()

		select {
		case err := <-done:
			if err != nil {
				logger.Error("Error shutting down: %v", err)
			} else {
				logger.Info("API server shut down gracefully")
			}
		case <-ctx.Done():
			logger.Warn("API shutdown timed out, forcing exit")
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("Starting API server on %s", addr)
	if err := app.Listen(addr); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}

// runScan performs a single extraction pass and reports the outcome to
// the terminal. Useful for cron jobs and manual runs.
func runScan(cfg *config.Config, kind string, lookback int) {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	deps, cleanup, err := bootstrap.NewDependencies(cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to initialize dependencies")
	}
	defer cleanup()

	if deps.ExtractionService == nil {
		zlog.Fatal().Msg("gmail credentials not configured, nothing to scan")
	}

	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	if lookback == 0 {
		lookback = cfg.LookbackDays
	}

	result, err := deps.ExtractionService.Extract(ctx, in.ExtractRequest{
		LookbackDays:   lookback,
		Kind:           domain.RecordKind(kind),
		MaxResults:     int64(cfg.MaxResults),
		ParseDocuments: cfg.ParseAttachments,
	})
	if err != nil {
		zlog.Error().Err(err).Msg("extraction ended early")
	}
	if result == nil {
		return
	}

	zlog.Info().
		Int("scanned", result.Scanned).
		Int("skipped", result.Skipped).
		Int("records", len(result.Records)).
		Int("documents", len(result.Documents)).
		Int("invoices", len(result.Invoices)).
		Msg("scan finished")

	for _, rec := range result.Records {
		zlog.Info().
			Str("kind", string(rec.Kind)).
			Str("vendor", rec.Vendor).
			Float64("amount", rec.Amount).
			Str("category", string(rec.Category)).
			Msg(rec.Subject)
	}
	for _, inv := range result.Invoices {
		zlog.Info().
			Str("vendor", inv.Vendor).
			Float64("total", inv.Total).
			Str("currency", inv.Currency).
			Int("confidence", inv.Confidence).
			Bool("valid", inv.Valid).
			Msg("invoice " + inv.Filename)
	}
}
