package config

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/namepay/namepay-api/internal/client/aws"
	"github.com/namepay/namepay-api/internal/logger"
	"github.com/namepay/namepay-api/internal/registry"

	"go.uber.org/zap"
)

// Config carries everything the API process needs at startup. Values come
// from environment variables; secrets may instead come from AWS Secrets
// Manager when the corresponding *_SECRET_ARN variable is set.
type Config struct {
	Stage string
	Port  string

	// DatabaseURL is optional: when empty the quote cache runs in memory.
	DatabaseURL string

	LiFiBaseURL      string
	LiFiAPIKey       string
	NameServiceURL   string
	IntentServiceURL string

	// APIKey guards the v1 API when set; empty disables the check.
	APIKey string

	// RPCURLs maps chain IDs to JSON-RPC endpoints for on-chain reads.
	RPCURLs map[registry.ChainID]string

	QuoteCacheTTL time.Duration
	QuoteTimeout  time.Duration

	RateLimitPerSecond float64
	RateLimitBurst     int
}

const (
	defaultPort          = "8000"
	defaultQuoteCacheTTL = 30 * time.Second
	defaultQuoteTimeout  = 20 * time.Second
)

// Load builds a Config from the environment. It never fails on missing
// optional values; required values are validated by the components that
// consume them.
func Load(ctx context.Context) *Config {
	cfg := &Config{
		Stage:            getEnv("STAGE", "dev"),
		Port:             getEnv("API_PORT", defaultPort),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		LiFiBaseURL:      getEnv("LIFI_BASE_URL", "https://li.quest/v1"),
		LiFiAPIKey:       os.Getenv("LIFI_API_KEY"),
		NameServiceURL:   os.Getenv("NAME_SERVICE_URL"),
		IntentServiceURL: os.Getenv("INTENT_SERVICE_URL"),
		APIKey:           os.Getenv("API_KEY"),

		RPCURLs: rpcURLsFromEnv(),

		QuoteCacheTTL: getDurationEnv("QUOTE_CACHE_TTL", defaultQuoteCacheTTL),
		QuoteTimeout:  getDurationEnv("QUOTE_TIMEOUT", defaultQuoteTimeout),

		RateLimitPerSecond: getFloatEnv("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 20),
	}

	cfg.loadSecrets(ctx)

	return cfg
}

// loadSecrets overrides env-sourced secrets with Secrets Manager values when
// ARN variables are present. A failed fetch keeps the env-sourced value.
func (c *Config) loadSecrets(ctx context.Context) {
	if os.Getenv("LIFI_API_KEY_SECRET_ARN") == "" && os.Getenv("DATABASE_URL_SECRET_ARN") == "" {
		return
	}

	client, err := aws.NewSecretsManagerClient(ctx)
	if err != nil {
		logger.Warn("failed to create Secrets Manager client, using env values", zap.Error(err))
		return
	}

	if key, err := client.GetSecretString(ctx, "LIFI_API_KEY_SECRET_ARN", "LIFI_API_KEY"); err == nil {
		c.LiFiAPIKey = key
	}
	if dbURL, err := client.GetSecretString(ctx, "DATABASE_URL_SECRET_ARN", "DATABASE_URL"); err == nil {
		c.DatabaseURL = dbURL
	}
}

// rpcURLsFromEnv reads RPC_URL_<chainID> variables for every registered chain
func rpcURLsFromEnv() map[registry.ChainID]string {
	urls := make(map[registry.ChainID]string)
	for _, chainID := range []registry.ChainID{
		registry.ChainEthereum,
		registry.ChainOptimism,
		registry.ChainPolygon,
		registry.ChainBase,
		registry.ChainArbitrum,
	} {
		key := "RPC_URL_" + strconv.FormatUint(uint64(chainID), 10)
		if url := strings.TrimSpace(os.Getenv(key)); url != "" {
			urls[chainID] = url
		}
	}
	return urls
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		logger.Warn("invalid duration in env var, using default", zap.String("key", key))
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		logger.Warn("invalid integer in env var, using default", zap.String("key", key))
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		logger.Warn("invalid float in env var, using default", zap.String("key", key))
	}
	return fallback
}
