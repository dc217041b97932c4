package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// API Configuration
	APIPort        string
	APIHost        string
	APIEnvironment string

	// Paystack
	PaystackSecretKey string
	PaystackBaseURL   string
	// WebhookSecret verifies inbound webhook signatures. Paystack signs with
	// the account secret key, so it defaults to PaystackSecretKey.
	WebhookSecret string

	// SMS (Arkesel)
	ArkeselAPIKey string
	SMSSenderID   string

	// Email
	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string
	OpsAlertEmail  string

	// Voucher store (xlsx workbook)
	StorePath string

	// Redis (optional, idempotency guard)
	RedisURL string

	// Business constants
	VoucherPriceGHS        float64
	AffiliateCommissionGHS float64
	LowStockThreshold      int

	// Rate Limiting
	RateLimitRequestsPerMinute int
	RateLimitBurst             int

	// Sentry
	SentryDSN         string
	SentryEnvironment string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// API
		APIPort:        getEnv("API_PORT", "8080"),
		APIHost:        getEnv("API_HOST", "0.0.0.0"),
		APIEnvironment: getEnv("API_ENVIRONMENT", "development"),

		// Paystack
		PaystackSecretKey: getEnv("PAYSTACK_SECRET_KEY", ""),
		PaystackBaseURL:   getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		WebhookSecret:     getEnv("PAYSTACK_WEBHOOK_SECRET", ""),

		// SMS
		ArkeselAPIKey: getEnv("ARKESEL_API_KEY", ""),
		SMSSenderID:   getEnv("SMS_SENDER_ID", "ChalePay"),

		// Email
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "noreply@chalepay.app"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "ChalePay"),
		OpsAlertEmail:  getEnv("OPS_ALERT_EMAIL", ""),

		// Store
		StorePath: getEnv("STORE_PATH", "./data/vouchers.xlsx"),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Business constants
		VoucherPriceGHS:        getEnvAsFloat("VOUCHER_PRICE_GHS", 25),
		AffiliateCommissionGHS: getEnvAsFloat("AFFILIATE_COMMISSION_GHS", 2),
		LowStockThreshold:      getEnvAsInt("LOW_STOCK_THRESHOLD", 10),

		// Rate Limiting
		RateLimitRequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 60),
		RateLimitBurst:             getEnvAsInt("RATE_LIMIT_BURST", 10),

		// Sentry
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", getEnv("API_ENVIRONMENT", "development")),
	}

	if cfg.WebhookSecret == "" {
		cfg.WebhookSecret = cfg.PaystackSecretKey
	}

	return cfg
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}
