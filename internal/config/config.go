package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kjannette/mnm-price/internal/external"
	"github.com/kjannette/mnm-price/internal/notifications"
	"github.com/kjannette/mnm-price/internal/token"
)

type Config struct {
	// Server
	Port            int
	CORSAllowOrigin string

	// CoinGecko
	CoinGeckoAPIKey       string
	CoinGeckoAPIKeyHeader string
	CoinGeckoBaseURL      string
	CoinGeckoTimeoutSecs  int
	CoinGeckoMaxAttempts  int

	// Token
	ContractAddress string
	Network         string
	Symbol          string
	NameMatch       string
	SearchQuery     string

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string

	// Watcher
	WatchAPIURL    string
	WatchRangeDays int
	WebhookURL     string
	BotName        string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// Server
		Port:            envInt("PORT", 3001),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		// CoinGecko
		CoinGeckoAPIKey:       envStr("COINGECKO_API_KEY", ""),
		CoinGeckoAPIKeyHeader: envStr("COINGECKO_API_KEY_HEADER", external.DefaultAPIKeyHeader),
		CoinGeckoBaseURL:      envStr("COINGECKO_BASE_URL", external.DefaultCoinGeckoURL),
		CoinGeckoTimeoutSecs:  envInt("COINGECKO_TIMEOUT_SECONDS", 10),
		CoinGeckoMaxAttempts:  envInt("COINGECKO_MAX_ATTEMPTS", 1),

		// Token
		ContractAddress: envStr("TOKEN_CONTRACT_ADDRESS", token.DefaultContractAddress),
		Network:         envStr("TOKEN_NETWORK", "sui-network"),
		Symbol:          envStr("TOKEN_SYMBOL", "MNM"),
		NameMatch:       envStr("TOKEN_NAME_MATCH", "little man"),
		SearchQuery:     envStr("TOKEN_SEARCH_QUERY", "MNM sui"),

		// Logging
		LogLevel:  envStr("LOG_LEVEL", "info"),
		LogFormat: envStr("LOG_FORMAT", "json"),
		LogFile:   envStr("LOG_FILE", ""),

		// Watcher
		WatchAPIURL:    envStr("WATCH_API_URL", "http://localhost:3001"),
		WatchRangeDays: envInt("WATCH_RANGE_DAYS", 7),
		WebhookURL:     envStr("WEBHOOK_URL", ""),
		BotName:        envStr("BOT_NAME", notifications.DefaultBotName),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if _, err := token.Parse(c.ContractAddress); err != nil {
		errs = append(errs, fmt.Sprintf("TOKEN_CONTRACT_ADDRESS: %v", err))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("PORT %d out of range", c.Port))
	}
	if c.CoinGeckoTimeoutSecs <= 0 {
		errs = append(errs, "COINGECKO_TIMEOUT_SECONDS must be positive")
	}
	if c.CoinGeckoMaxAttempts <= 0 {
		errs = append(errs, "COINGECKO_MAX_ATTEMPTS must be at least 1")
	}
	if c.Symbol == "" && c.NameMatch == "" {
		errs = append(errs, "one of TOKEN_SYMBOL or TOKEN_NAME_MATCH is required")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT %q must be json or console", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Warnings lists optional settings that are missing.
func (c *Config) Warnings() []string {
	var w []string
	if c.CoinGeckoAPIKey == "" {
		w = append(w, "COINGECKO_API_KEY not set, CoinGecko requests are unauthenticated and rate-limited")
	}
	if c.CoinGeckoMaxAttempts > 1 {
		w = append(w, fmt.Sprintf("COINGECKO_MAX_ATTEMPTS=%d, slow upstream failures delay responses", c.CoinGeckoMaxAttempts))
	}
	return w
}

func (c *Config) Address() token.Address {
	return token.MustParse(c.ContractAddress)
}

func (c *Config) CoinGeckoTimeout() time.Duration {
	return time.Duration(c.CoinGeckoTimeoutSecs) * time.Second
}

func (c *Config) Print(w io.Writer) {
	fmt.Fprintln(w, "=== $MNM Price Proxy Configuration ===")
	fmt.Fprintf(w, "Port: %d\n", c.Port)
	fmt.Fprintf(w, "CORS Origin: %s\n", c.CORSAllowOrigin)
	fmt.Fprintln(w, "--------------------------------------")
	fmt.Fprintf(w, "Token: %s on %s\n", token.Short(c.ContractAddress), c.Network)
	fmt.Fprintf(w, "Search: %q (symbol %s, name contains %q)\n", c.SearchQuery, c.Symbol, c.NameMatch)
	fmt.Fprintln(w, "--------------------------------------")
	fmt.Fprintf(w, "CoinGecko: %s\n", c.CoinGeckoBaseURL)
	fmt.Fprintf(w, "  API key: %s\n", boolLabel(c.CoinGeckoAPIKey != "", "configured", "not set (unauthenticated)"))
	fmt.Fprintf(w, "  Timeout: %ds, attempts: %d\n", c.CoinGeckoTimeoutSecs, c.CoinGeckoMaxAttempts)
	fmt.Fprintln(w, "======================================")
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
