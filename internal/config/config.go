package config

import (
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Port string

	SkipCashWebhookKey string
	SkipCashAPIBase    string
	SkipCashAPIKey     string

	GeideaWebhookKey string
	GeideaSuccessURL string
	GeideaFailureURL string

	// VerifyAmounts turns on re-validation of the webhook amount against
	// the stored record before a status is applied.
	VerifyAmounts bool

	RateLimitPerMinute int
	RateLimitBurst     int
	RateLimitStore     string // "memory" or "postgres"

	ReconcileEnabled  bool
	ReconcileInterval time.Duration
	ReconcileMinAge   time.Duration
}

func Load() Config {
	return Config{
		Port: getenv("PAYGATE_PORT", "8080"),

		SkipCashWebhookKey: os.Getenv("PAYGATE_SKIPCASH_WEBHOOK_KEY"),
		SkipCashAPIBase:    getenv("PAYGATE_SKIPCASH_API_BASE", "https://api.skipcash.app"),
		SkipCashAPIKey:     os.Getenv("PAYGATE_SKIPCASH_API_KEY"),

		GeideaWebhookKey: os.Getenv("PAYGATE_GEIDEA_WEBHOOK_KEY"),
		GeideaSuccessURL: getenv("PAYGATE_GEIDEA_SUCCESS_URL", "/payment/success"),
		GeideaFailureURL: getenv("PAYGATE_GEIDEA_FAILURE_URL", "/payment/failure"),

		VerifyAmounts: getbool("PAYGATE_VERIFY_AMOUNTS", false),

		RateLimitPerMinute: getint("PAYGATE_RATELIMIT_PER_MINUTE", 120),
		RateLimitBurst:     getint("PAYGATE_RATELIMIT_BURST", 20),
		RateLimitStore:     getenv("PAYGATE_RATELIMIT_STORE", "memory"),

		ReconcileEnabled:  getbool("PAYGATE_RECONCILE_ENABLED", false),
		ReconcileInterval: getduration("PAYGATE_RECONCILE_INTERVAL", time.Minute),
		ReconcileMinAge:   getduration("PAYGATE_RECONCILE_MIN_AGE", 10*time.Minute),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
