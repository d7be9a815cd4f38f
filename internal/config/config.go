package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	ShopifyStoreDomain string // e.g. "my-store.myshopify.com"
	ShopifyAccessToken string
	ShopifyAPIVersion  string

	// OTP / session windows. Defaults match the documented flow:
	// codes live 5 minutes, sessions stay fresh for 1 hour.
	OTPTTL            time.Duration
	SessionFreshness  time.Duration
	OTPFromAddress    string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string

	// StoreBackend selects where pending codes and sessions live:
	// "memory" (default) or "dynamo".
	StoreBackend   string
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	// Optional RS256 bearer gate on the MCP endpoints. Disabled unless
	// RequireEndpointAuth is set and the key files load.
	RequireEndpointAuth bool
	JWTPublicKeyPath    string
	JWTPrivateKeyPath   string

	// Per-IP rate limiting on message-accepting endpoints. Off by default:
	// the OTP flow itself is deliberately unthrottled.
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Credentials string
	Sessions    string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		ShopifyStoreDomain: getEnv("SHOPIFY_STORE_DOMAIN", ""),
		ShopifyAccessToken: getEnv("SHOPIFY_ACCESS_TOKEN", ""),
		ShopifyAPIVersion:  getEnv("SHOPIFY_API_VERSION", "2024-10"),

		OTPTTL:           time.Duration(getEnvInt("OTP_TTL_SECONDS", 300)) * time.Second,
		SessionFreshness: time.Duration(getEnvInt("SESSION_FRESHNESS_MINUTES", 60)) * time.Minute,
		OTPFromAddress:   getEnv("OTP_FROM_ADDRESS", "noreply@example.com"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		StoreBackend:   getEnv("STORE_BACKEND", "memory"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Credentials: getEnv("DYNAMO_TABLE_CREDENTIALS", "otp_credentials"),
			Sessions:    getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
		},

		RequireEndpointAuth: getEnvBool("REQUIRE_ENDPOINT_AUTH", false),
		JWTPublicKeyPath:    getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTPrivateKeyPath:   getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", false),
		RateLimitRPS:     getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:   getEnvInt("RATE_LIMIT_BURST", 10),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
