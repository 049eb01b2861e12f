package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server
	Port    string
	AppName string

	// Analytics database (optional; the server runs without it)
	DatabaseURL string

	// Content backend (vehicle record source)
	CMSBaseURL string
	CMSDataset string
	CMSToken   string

	// Commerce backend (product record source)
	CommerceBaseURL string
	CommerceToken   string

	// Cache TTLs
	IndexTTL  time.Duration
	CompatTTL time.Duration
	SearchTTL time.Duration

	// Webhooks
	WebhookSecret string

	// Search surface
	SearchRatePerMinute int
	WarmOnStart         bool

	// Frontend
	FrontendURL string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envOrDefault("PORT", "3001"),
		AppName: envOrDefault("APP_NAME", "Storefront Core"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		CMSBaseURL: envOrDefault("CMS_BASE_URL", "http://localhost:3333"),
		CMSDataset: envOrDefault("CMS_DATASET", "production"),
		CMSToken:   os.Getenv("CMS_TOKEN"),

		CommerceBaseURL: envOrDefault("COMMERCE_BASE_URL", "http://localhost:3030"),
		CommerceToken:   os.Getenv("COMMERCE_STOREFRONT_TOKEN"),

		IndexTTL:  envOrDefaultDuration("INDEX_TTL", 15*time.Minute),
		CompatTTL: envOrDefaultDuration("COMPAT_TTL", 5*time.Minute),
		SearchTTL: envOrDefaultDuration("SEARCH_TTL", 5*time.Minute),

		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),

		SearchRatePerMinute: envOrDefaultInt("SEARCH_RATE_PER_MINUTE", 100),
		WarmOnStart:         envOrDefaultBool("WARM_ON_START", true),

		FrontendURL: envOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return fallback
}
