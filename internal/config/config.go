package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// VerificationTTL is the fixed validity window of an issued code or provider session.
	VerificationTTL = 10 * time.Minute
	// CodeLength is the fixed number of digits in a locally generated code.
	CodeLength = 6
)

// Store backends selectable through STORE_BACKEND.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreDynamo = "dynamo"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	VerificationTTL time.Duration
	CodeLength      int

	StoreBackend             string
	StoreSweepInterval       time.Duration // 0 keeps lazy expiry only
	RedisAddr                string
	RedisPassword            string
	RedisDB                  int
	RedisKeyPrefix           string
	AWSRegion                string
	AWSEndpointURL           string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID           string
	AWSSecretKey             string
	DynamoVerificationsTable string

	ProviderTimeout time.Duration
	ProviderMaxRPS  float64 // 0 disables outbound pacing
	SMSCountryCode  string

	TwoFactorAPIKey   string
	TwoFactorBaseURL  string
	TwoFactorTemplate string

	MSG91AuthKey    string
	MSG91TemplateID string
	MSG91BaseURL    string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
	TwilioBaseURL    string

	SNSEnabled bool
	SNSRegion  string

	EmailFrom     string
	ResendAPIKey  string
	ResendBaseURL string
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string

	ReceiptPrivateKeyPath string
	ReceiptPublicKeyPath  string
	ReceiptExpiry         time.Duration

	AllowedOrigins []string // CORS allowed origins
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		VerificationTTL: VerificationTTL,
		CodeLength:      CodeLength,

		StoreBackend:             strings.ToLower(getEnv("STORE_BACKEND", StoreMemory)),
		StoreSweepInterval:       getEnvDuration("CODE_STORE_SWEEP_INTERVAL", 0),
		RedisAddr:                getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:            getEnv("REDIS_PASSWORD", ""),
		RedisDB:                  getEnvInt("REDIS_DB", 0),
		RedisKeyPrefix:           getEnv("REDIS_KEY_PREFIX", "loanlead:otp:"),
		AWSRegion:                getEnv("AWS_REGION", "ap-south-1"),
		AWSEndpointURL:           getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID:           getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:             getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoVerificationsTable: getEnv("DYNAMO_TABLE_VERIFICATIONS", "verifications"),

		ProviderTimeout: getEnvDuration("PROVIDER_TIMEOUT", 10*time.Second),
		ProviderMaxRPS:  getEnvFloat("PROVIDER_MAX_RPS", 0),
		SMSCountryCode:  getEnv("SMS_COUNTRY_CODE", "91"),

		TwoFactorAPIKey:   getEnv("TWOFACTOR_API_KEY", ""),
		TwoFactorBaseURL:  getEnv("TWOFACTOR_BASE_URL", "https://2factor.in/API/V1"),
		TwoFactorTemplate: getEnv("TWOFACTOR_TEMPLATE", ""),

		MSG91AuthKey:    getEnv("MSG91_AUTH_KEY", ""),
		MSG91TemplateID: getEnv("MSG91_TEMPLATE_ID", ""),
		MSG91BaseURL:    getEnv("MSG91_BASE_URL", "https://control.msg91.com/api/v5/flow"),

		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFrom:       getEnv("TWILIO_FROM", ""),
		TwilioBaseURL:    getEnv("TWILIO_BASE_URL", "https://api.twilio.com"),

		SNSEnabled: getEnvBool("SNS_ENABLED", false),
		SNSRegion:  getEnv("SNS_REGION", "ap-south-1"),

		EmailFrom:     getEnv("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey:  getEnv("RESEND_API_KEY", ""),
		ResendBaseURL: getEnv("RESEND_BASE_URL", "https://api.resend.com"),
		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getEnvInt("SMTP_PORT", 1025),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),

		ReceiptPrivateKeyPath: getEnv("RECEIPT_PRIVATE_KEY_PATH", "./private_key.pem"),
		ReceiptPublicKeyPath:  getEnv("RECEIPT_PUBLIC_KEY_PATH", "./public_key.pem"),
		ReceiptExpiry:         getEnvDuration("RECEIPT_EXPIRY", 30*time.Minute),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// TwoFactorEnabled reports whether the hosted OTP provider has credentials.
func (c *Config) TwoFactorEnabled() bool { return c.TwoFactorAPIKey != "" }

// MSG91Enabled reports whether the templated SMS provider has credentials.
func (c *Config) MSG91Enabled() bool { return c.MSG91AuthKey != "" && c.MSG91TemplateID != "" }

// TwilioEnabled reports whether the basic-auth messaging provider has credentials.
func (c *Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFrom != ""
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

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			return d
		}
	}
	return fallback
}
