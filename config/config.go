package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Pix      PixConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN              string
	MaxIdleConns     int
	MaxOpenConns     int
	ConnMaxLifetime  time.Duration
	StatementTimeout time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// PixConfig for the PIX charge/payout gateway. WebhookBaseURL is this
// server's public base; the callback lands on /api/v1/webhooks/pix.
type PixConfig struct {
	BaseURL        string
	ClientID       string
	ClientSecret   string
	WebhookBaseURL string
}

func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "8080"),
			Env:          env("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:              env("DATABASE_DSN", "banca:banca@tcp(localhost:3306)/banca?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:     envInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:     envInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime:  time.Hour,
			StatementTimeout: 5 * time.Second,
		},
		JWT: JWTConfig{
			AccessSecret:  env("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: env("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "banca",
		},
		Pix: PixConfig{
			BaseURL:        env("PIX_BASE_URL", ""),
			ClientID:       env("PIX_CLIENT_ID", ""),
			ClientSecret:   env("PIX_CLIENT_SECRET", ""),
			WebhookBaseURL: env("PIX_WEBHOOK_BASE_URL", ""),
		},
	}
}

func env(key, fallback string) string {
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
