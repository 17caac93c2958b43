package config

import (
	"os"
	"strconv"
)

// CloudflareConfig holds the Cloudflare Stream account settings.
// PEM and SigningToken are only required for signed download/playback URLs.
type CloudflareConfig struct {
	AccountID    string
	AuthEmail    string
	AuthKey      string
	PEM          string
	SigningToken string

	// Base URLs are overridable for testing; defaults are the public
	// Cloudflare endpoints.
	APIBase      string
	SignBase     string
	DeliveryBase string

	// Readiness polling knobs for download URL generation.
	PollIntervalSec int
	PollMaxAttempts int

	// PageSize caps a single list page; Cloudflare serves at most 1000.
	PageSize int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost    string
	Port       string
	Cloudflare CloudflareConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Cloudflare: CloudflareConfig{
			AccountID:       getEnv("CF_ACCOUNT_ID", ""),
			AuthEmail:       getEnv("CF_AUTH_EMAIL", ""),
			AuthKey:         getEnv("CF_AUTH_KEY", ""),
			PEM:             getEnv("CF_SIGNING_PEM", ""),
			SigningToken:    getEnv("CF_SIGNING_TOKEN", ""),
			APIBase:         getEnv("CF_API_BASE", "https://api.cloudflare.com/client/v4"),
			SignBase:        getEnv("CF_SIGN_BASE", "https://util.cloudflarestream.com"),
			DeliveryBase:    getEnv("CF_DELIVERY_BASE", "https://videodelivery.net"),
			PollIntervalSec: getEnvInt("CF_POLL_INTERVAL_SEC", 10),
			PollMaxAttempts: getEnvInt("CF_POLL_MAX_ATTEMPTS", 30),
			PageSize:        getEnvInt("CF_LIST_PAGE_SIZE", 1000),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
