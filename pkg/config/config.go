package config

import (
	"errors"
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
	Port           string
	Env            string
	AllowedOrigins []string
	MaxUploadBytes int64

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Trade store: Postgres when DatabaseURL is set, SQLite otherwise
	DatabaseURL string
	SQLitePath  string

	// Preview store: Redis when RedisURL is set, in-process otherwise
	RedisURL      string
	RedisPassword string
	PreviewTTL    time.Duration

	// Ingestion defaults
	DefaultFeeRate    float64
	DefaultTaxRate    float64
	HeaderAliasesPath string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first if present; real environment variables
// take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &Config{
		Port:              getEnv("PORT", "4000"),
		Env:               getEnv("ENV", "development"),
		AllowedOrigins:    getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		MaxUploadBytes:    int64(getEnvAsInt("MAX_UPLOAD_BYTES", 10<<20)),
		RateLimitRPS:      getEnvAsFloat("RATE_LIMIT_RPS", 100),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 20),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		SQLitePath:        getEnv("SQLITE_PATH", "tradebook.db"),
		RedisURL:          getEnv("REDIS_URL", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		PreviewTTL:        getEnvAsDuration("PREVIEW_TTL", 30*time.Minute),
		DefaultFeeRate:    getEnvAsFloat("DEFAULT_FEE_RATE", 0.0005),
		DefaultTaxRate:    getEnvAsFloat("DEFAULT_TAX_RATE", 0.001),
		HeaderAliasesPath: getEnv("HEADER_ALIASES_PATH", ""),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures the configuration is usable
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.DatabaseURL == "" && c.SQLitePath == "" {
		return fmt.Errorf("either DATABASE_URL or SQLITE_PATH is required")
	}

	if c.DatabaseURL == "" && c.IsProduction() {
		return fmt.Errorf("DATABASE_URL is required in production")
	}

	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	if c.PreviewTTL <= 0 {
		return fmt.Errorf("PREVIEW_TTL must be positive")
	}

	if c.DefaultFeeRate < 0 || c.DefaultTaxRate < 0 {
		return fmt.Errorf("DEFAULT_FEE_RATE and DEFAULT_TAX_RATE must not be negative")
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
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

// getEnvAsFloat gets an environment variable as a float with a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsDuration gets an environment variable as a duration ("30m") with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
