package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kislikjeka/tradebook/internal/infra/memcache"
	"github.com/kislikjeka/tradebook/internal/infra/postgres"
	infraRedis "github.com/kislikjeka/tradebook/internal/infra/redis"
	"github.com/kislikjeka/tradebook/internal/infra/sqlite"
	"github.com/kislikjeka/tradebook/internal/ingest"
	"github.com/kislikjeka/tradebook/internal/trade"
	"github.com/kislikjeka/tradebook/internal/transport/httpapi"
	"github.com/kislikjeka/tradebook/internal/transport/httpapi/handler"
	"github.com/kislikjeka/tradebook/internal/upload"
	"github.com/kislikjeka/tradebook/pkg/config"
	"github.com/kislikjeka/tradebook/pkg/logger"
)

// tradeStore is a trade.Repository that can report its health
type tradeStore interface {
	trade.Repository
	handler.Pinger
}

// previewStore is an upload.Store that can report its health
type previewStore interface {
	upload.Store
	handler.Pinger
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	log := logger.NewDefault(cfg.Env)
	log.Info("Starting Tradebook API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Trade store
	trades, closeTrades, err := openTradeStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeTrades()

	// Preview store
	previews, closePreviews, err := openPreviewStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closePreviews()

	// Header aliases
	aliases := ingest.DefaultAliases()
	if cfg.HeaderAliasesPath != "" {
		extra, err := config.LoadHeaderAliases(cfg.HeaderAliasesPath)
		if err != nil {
			return err
		}
		aliases = aliases.With(extra)
		log.Info("Loaded extra header aliases", "path", cfg.HeaderAliasesPath, "count", len(extra))
	}

	// Services
	pipeline := ingest.NewPipeline(
		ingest.NewNormalizer(aliases),
		ingest.NewDeriver(ingest.Rates{Fee: cfg.DefaultFeeRate, Tax: cfg.DefaultTaxRate}),
		log,
	)
	uploadSvc := upload.NewService(pipeline, previews, cfg.PreviewTTL, log)
	tradeSvc := trade.NewService(trades, log)

	// HTTP
	r := httpapi.NewRouter(httpapi.Config{
		Logger:             log,
		AllowedOrigins:     cfg.AllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
		TransactionHandler: handler.NewTransactionHandler(uploadSvc, tradeSvc, cfg.MaxUploadBytes, log),
		HealthHandler: handler.NewHealthHandler(map[string]handler.Pinger{
			"trade_store":   trades,
			"preview_store": previews,
		}),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for termination signal
	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

func openTradeStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (tradeStore, func(), error) {
	if cfg.DatabaseURL != "" {
		db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("Database connection established", "driver", "postgres")
		return postgres.NewTradeRepository(db.Pool), db.Close, nil
	}

	db, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Database connection established", "driver", "sqlite", "path", cfg.SQLitePath)
	return sqlite.NewTradeRepository(db), func() { db.Close() }, nil
}

func openPreviewStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (previewStore, func(), error) {
	if cfg.RedisURL != "" {
		client, err := infraRedis.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Redis connection established")
		return infraRedis.NewPreviewStore(client, log), func() { client.Close() }, nil
	}

	log.Warn("REDIS_URL not configured, preview batches are kept in memory")
	return memcache.NewPreviewStore(cfg.PreviewTTL), func() {}, nil
}
