package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the storefront service configuration, loaded from the
// environment with .env support for development.
type Config struct {
	Env      string
	LogLevel string
	Port     uint16
	Upstream UpstreamConfig
	Tenant   TenantConfig
	Checkout CheckoutConfig
}

// UpstreamConfig points at the commerce API that owns all persistence.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// TenantConfig drives path-based tenant resolution.
type TenantConfig struct {
	AdminPrefix     string
	ShopPrefix      string
	DefaultCurrency string
	LoginPath       string
}

// CheckoutConfig holds checkout tuning.
type CheckoutConfig struct {
	// TaxRate is a decimal string, e.g. "0.21". Empty uses the default.
	TaxRate string
}

// NewConfig loads configuration from the environment, walking up at most two
// directories to find a .env file.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvInt("PORT", 4000),
		Upstream: UpstreamConfig{
			BaseURL: getEnv("UPSTREAM_BASE_URL", "http://localhost:8080/api"),
			Timeout: getEnvDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		},
		Tenant: TenantConfig{
			AdminPrefix:     getEnv("TENANT_ADMIN_PREFIX", "/admin"),
			ShopPrefix:      getEnv("TENANT_SHOP_PREFIX", "/shop"),
			DefaultCurrency: getEnv("TENANT_DEFAULT_CURRENCY", "EUR"),
			LoginPath:       getEnv("LOGIN_PATH", "/login"),
		},
		Checkout: CheckoutConfig{
			TaxRate: getEnv("CHECKOUT_TAX_RATE", "0.21"),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.Upstream.BaseURL == "" {
		return nil, fmt.Errorf("UPSTREAM_BASE_URL must be set")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
