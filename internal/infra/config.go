package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	JWTSecret         string
	JWTLifetime       time.Duration
	AllowedOrigins    []string
	GeoIPDBPath       string
	CardAPIKey        string
	CardBaseURL       string
	WalletProjectID   string
	WalletBaseURL     string
	TreasuryAddress   string
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	HTTPIdleTimeout   time.Duration
	RateLimitPerMin   int
	ReconcileInterval time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTLifetime:       time.Hour * time.Duration(getEnvInt("JWT_LIFETIME_HOURS", 24)),
		AllowedOrigins:    splitEnv(getEnv("ALLOWED_ORIGINS", "*")),
		GeoIPDBPath:       os.Getenv("GEOIP_DB_PATH"),
		CardAPIKey:        os.Getenv("CARD_API_KEY"),
		CardBaseURL:       os.Getenv("CARD_BASE_URL"),
		WalletProjectID:   os.Getenv("WALLET_PROJECT_ID"),
		WalletBaseURL:     os.Getenv("WALLET_BASE_URL"),
		TreasuryAddress:   os.Getenv("TREASURY_ADDRESS"),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:   getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		ReconcileInterval: time.Minute * time.Duration(getEnvInt("RECONCILE_INTERVAL_MINUTES", 15)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitEnv(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
