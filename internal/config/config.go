package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/phone-otp-api/internal/domain"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	// StoreDriver selects the OTP record store backend: "dynamo" or "memory".
	StoreDriver string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	SNSRegion  string
	SMSEnabled bool // false selects the log-only sender

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	OTP domain.OTPPolicy

	DefaultCountryPrefix string

	// DebugExposeOTP echoes the generated code in the send response. It is an
	// explicit opt-in and is force-disabled outside development or whenever a
	// real SMS transport is active.
	DebugExposeOTP bool

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	OTPCodes string
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		StoreDriver: getEnv("STORE_DRIVER", "dynamo"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			OTPCodes: getEnv("DYNAMO_TABLE_OTP_CODES", "otp_codes"),
		},

		SNSRegion:  getEnv("SNS_REGION", "us-east-1"),
		SMSEnabled: getEnvBool("SNS_SMS_ENABLED", false),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,

		OTP: domain.OTPPolicy{
			TTL:         time.Duration(getEnvInt("OTP_TTL_SECONDS", 300)) * time.Second,
			Cooldown:    time.Duration(getEnvInt("OTP_COOLDOWN_SECONDS", 60)) * time.Second,
			MaxAttempts: getEnvInt("OTP_MAX_ATTEMPTS", 3),
			CodeLength:  getEnvInt("OTP_CODE_LENGTH", 6),
		},

		DefaultCountryPrefix: getEnv("DEFAULT_COUNTRY_PREFIX", "1"),

		DebugExposeOTP: getEnvBool("OTP_DEBUG_RESPONSE", false),

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

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
