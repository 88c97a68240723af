package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kjannette/mnm-price/internal/api"
	"github.com/kjannette/mnm-price/internal/config"
	"github.com/kjannette/mnm-price/internal/external"
	"github.com/kjannette/mnm-price/internal/httputil"
	"github.com/kjannette/mnm-price/internal/logging"
	"github.com/kjannette/mnm-price/internal/metrics"
	"github.com/kjannette/mnm-price/internal/pricing"
	"go.uber.org/zap"
)

const banner = `
╔══════════════════════════════════════╗
║        $MNM Price Proxy v0.1         ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print(os.Stdout)

	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   logging.FileOptions{Filename: cfg.LogFile},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	m := metrics.New()
	upstreamLog := logger.Named("coingecko")

	gecko := external.NewCoinGeckoClient(
		external.WithBaseURL(cfg.CoinGeckoBaseURL),
		external.WithAPIKey(cfg.CoinGeckoAPIKey, cfg.CoinGeckoAPIKeyHeader),
		external.WithTimeout(cfg.CoinGeckoTimeout()),
		external.WithObserver(m),
		external.WithRetry(httputil.RetryConfig{
			MaxAttempts: cfg.CoinGeckoMaxAttempts,
			BaseDelay:   500 * time.Millisecond,
			MaxDelay:    4 * time.Second,
			OnRetry: func(attempt int, err error, wait time.Duration) {
				upstreamLog.Warn("retrying", zap.Int("attempt", attempt), zap.Duration("retry_in", wait), zap.Error(err))
			},
		}),
	)

	agg := pricing.NewCoinGecko(gecko, pricing.Target{
		Address: cfg.Address(),
		Network: cfg.Network,
		Match: pricing.Match{
			Query:        cfg.SearchQuery,
			Symbol:       cfg.Symbol,
			NameContains: cfg.NameMatch,
		},
	}, logger.Named("pricing"), pricing.WithMetrics(m))

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(agg, api.Options{
		Port:                  cfg.Port,
		CORSAllowOrigin:       cfg.CORSAllowOrigin,
		UpstreamAuthenticated: gecko.Authenticated(),
		Metrics:               m.Handler(),
	}, logger.Named("api"))
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
