package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Database configuration
	DatabaseURL string

	// Redis configuration
	RedisURL      string
	RedisPassword string

	// Session token configuration
	JWTSecret string

	// SealKey encrypts stored wallet seeds at rest. Any non-empty
	// passphrase; the actual key is derived from it.
	SealKey string

	// XRPL node configuration
	LedgerWSURL    string
	LedgerTxLimit  int
	RequestTimeout time.Duration

	// CoinGecko API configuration
	CoinGeckoAPIKey      string
	PriceRefreshInterval time.Duration

	// CORS configuration
	AllowedOrigins []string
}

// Load loads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  getEnv("ENV", "development"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisURL:             getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		SealKey:              getEnv("SEAL_KEY", ""),
		LedgerWSURL:          getEnv("LEDGER_WS_URL", "wss://s.altnet.rippletest.net:51233"),
		LedgerTxLimit:        getEnvAsInt("LEDGER_TX_LIMIT", 10),
		RequestTimeout:       getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
		CoinGeckoAPIKey:      getEnv("COINGECKO_API_KEY", ""),
		PriceRefreshInterval: getEnvAsDuration("PRICE_REFRESH_INTERVAL", 30*time.Second),
		AllowedOrigins:       strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.SealKey == "" {
		return fmt.Errorf("SEAL_KEY is required")
	}

	if c.LedgerWSURL == "" {
		return fmt.Errorf("LEDGER_WS_URL is required")
	}

	if c.LedgerTxLimit <= 0 {
		return fmt.Errorf("LEDGER_TX_LIMIT must be positive")
	}

	// CoinGecko API key is required in production but optional in development
	if c.CoinGeckoAPIKey == "" && c.IsProduction() {
		return fmt.Errorf("COINGECKO_API_KEY is required in production")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
