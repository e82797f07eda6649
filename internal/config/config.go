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

const devSecret = "yamdb-development-secret"

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string

	DBHost    string
	DBPort    string
	DBUser    string
	DBPass    string
	DBName    string
	DBSSLMode string

	RedisURL string

	SecretKey           string
	JWTTTL              time.Duration
	ConfirmationCodeTTL time.Duration
	SignupCooldown      time.Duration

	MailFrom string
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string

	MeiliSearchHost string
	MeiliMasterKey  string

	SentryDSN string

	PageSize int
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		DBHost:    getEnv("DB_HOST", "localhost"),
		DBPort:    getEnv("DB_PORT", "5432"),
		DBUser:    getEnv("DB_USER", "postgres"),
		DBPass:    os.Getenv("DB_PASS"),
		DBName:    getEnv("DB_NAME", "yamdb"),
		DBSSLMode: getEnv("DB_SSLMODE", "disable"),

		RedisURL: os.Getenv("REDIS_URL"),

		SecretKey: os.Getenv("SECRET_KEY"),

		MailFrom: getEnv("MAIL_FROM", "noreply@yamdb.local"),
		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnv("SMTP_PORT", "25"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		SentryDSN: os.Getenv("SENTRY_DSN"),
	}

	if cfg.SecretKey == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("SECRET_KEY is required outside development")
		}
		cfg.SecretKey = devSecret
	}

	var err error
	if cfg.JWTTTL, err = parseDuration(getEnv("JWT_TTL", "1h")); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.ConfirmationCodeTTL, err = parseDuration(getEnv("CONFIRMATION_CODE_TTL", "72h")); err != nil {
		return nil, fmt.Errorf("invalid CONFIRMATION_CODE_TTL: %w", err)
	}
	if cfg.SignupCooldown, err = parseDuration(getEnv("SIGNUP_COOLDOWN", "60s")); err != nil {
		return nil, fmt.Errorf("invalid SIGNUP_COOLDOWN: %w", err)
	}

	cfg.PageSize, err = strconv.Atoi(getEnv("PAGE_SIZE", "10"))
	if err != nil || cfg.PageSize < 1 {
		return nil, fmt.Errorf("invalid PAGE_SIZE: %q", os.Getenv("PAGE_SIZE"))
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
