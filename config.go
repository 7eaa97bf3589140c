package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aashavskiy/tennisbookingbot/pkg/extract"
)

// Config is the process configuration, read once at startup. A local .env
// file is loaded when present but never overrides real environment
// variables.
type Config struct {
	Token      string // Telegram bot token (required)
	AdminID    int64  // Telegram ID seeded as administrator
	WebhookURL string // public base URL; empty means long polling
	Port       string
	DBDSN      string // Postgres DSN
	JWTSecret  string
	// Operator API credentials (bcrypt-checked at login).
	OperatorUser     string
	OperatorPassword string

	Extract extract.Config
}

func loadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Token:            os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebhookURL:       os.Getenv("WEBHOOK_URL"),
		Port:             envOr("PORT", "8080"),
		DBDSN:            os.Getenv("DB_DSN"),
		JWTSecret:        envOr("JWT_SECRET", "dev-insecure-secret-change"),
		OperatorUser:     envOr("OPERATOR_USER", "admin"),
		OperatorPassword: envOr("OPERATOR_PASSWORD", "admin123"),
		Extract:          extract.DefaultConfig(),
	}
	if cfg.Token == "" {
		return cfg, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	if v := os.Getenv("ADMIN_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("ADMIN_ID %q: %w", v, err)
		}
		cfg.AdminID = id
	}

	// Extraction tuning. Defaults from extract.DefaultConfig apply when unset.
	if v := os.Getenv("OCR_MIN_CONTENT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("OCR_MIN_CONTENT %q: %w", v, err)
		}
		cfg.Extract.MinContent = n
	}
	if v := os.Getenv("OCR_BUDGET"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("OCR_BUDGET %q: %w", v, err)
		}
		cfg.Extract.Budget = d
	}
	if v := os.Getenv("COURT_MIN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("COURT_MIN %q: %w", v, err)
		}
		cfg.Extract.CourtMin = n
	}
	if v := os.Getenv("COURT_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("COURT_MAX %q: %w", v, err)
		}
		cfg.Extract.CourtMax = n
	}
	cfg.Extract.Pinned.Dates = splitList(os.Getenv("PINNED_DATES"))
	cfg.Extract.Pinned.Times = splitList(os.Getenv("PINNED_TIMES"))
	cfg.Extract.Pinned.Courts = splitList(os.Getenv("PINNED_COURTS"))
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
