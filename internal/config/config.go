package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the whole application configuration, read from the environment.
type Config struct {
	Port  string // listen port
	GoEnv string // dev/prod

	DBDriver     string // postgres / mysql / sqlite / sqlserver
	DatabaseURL  string // DSN for DBDriver
	DBAutoCreate bool   // postgres only: CREATE DATABASE when missing

	JWTSecret     string
	UserTokenTTL  time.Duration
	AdminTokenTTL time.Duration

	StripeSecretKey      string
	StripePublishableKey string
	StripeWebhookSecret  string
	StripeCurrency       string
	StripeTimeout        time.Duration

	RedisAddr       string // empty disables webhook dedup
	WebhookDedupTTL time.Duration

	CORSOrigins []string
}

func (c Config) IsProduction() bool {
	return c.GoEnv == "prod" || c.GoEnv == "production"
}

// Load reads the environment. Call godotenv before it if a .env file is used.
func Load() (Config, error) {
	cfg := Config{
		Port:  getenv("PORT", "8000"),
		GoEnv: getenv("GO_ENV", "dev"),

		DBDriver:    getenv("DB_DRIVER", "postgres"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		StripePublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		StripeWebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeCurrency:       strings.ToLower(getenv("STRIPE_CURRENCY", "usd")),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		CORSOrigins: splitList(getenv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
	}

	var err error
	if cfg.DBAutoCreate, err = boolEnv("DB_AUTO_CREATE", false); err != nil {
		return Config{}, err
	}
	if cfg.UserTokenTTL, err = durationEnv("USER_TOKEN_TTL", 60*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.AdminTokenTTL, err = durationEnv("ADMIN_TOKEN_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.StripeTimeout, err = durationEnv("STRIPE_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.WebhookDedupTTL, err = durationEnv("WEBHOOK_DEDUP_TTL", 72*time.Hour); err != nil {
		return Config{}, err
	}

	if cfg.DatabaseURL == "" && cfg.DBDriver == "postgres" {
		cfg.DatabaseURL = postgresURLFromParts()
	}

	// required
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required for DB_DRIVER=%s", cfg.DBDriver)
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StripeTimeout <= 0 {
		return Config{}, fmt.Errorf("STRIPE_TIMEOUT must be positive")
	}

	return cfg, nil
}

func postgresURLFromParts() string {
	host := getenv("POSTGRES_HOST", "localhost")
	port := getenv("POSTGRES_PORT", "5432")
	user := getenv("POSTGRES_USER", "postgres")
	pass := getenv("POSTGRES_PASSWORD", "postgres")
	name := getenv("POSTGRES_DB", "pizzeria")
	ssl := getenv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, name, ssl)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a bool: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
