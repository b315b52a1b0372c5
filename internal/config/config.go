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

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	RedisURL string

	JWTSecret string
	JWTExpiry time.Duration

	VerificationTTL      time.Duration
	VerificationRangeMin int
	VerificationRangeMax int

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	FindIDSubject       string
	VerificationSubject string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Accounts    string
	SubAccounts string
	Trends      string
	Inquiries   string
	Files       string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Accounts:    getEnv("DYNAMO_TABLE_ACCOUNTS", "accounts"),
			SubAccounts: getEnv("DYNAMO_TABLE_SUB_ACCOUNTS", "sub_accounts"),
			Trends:      getEnv("DYNAMO_TABLE_TRENDS", "regulatory_trends"),
			Inquiries:   getEnv("DYNAMO_TABLE_INQUIRIES", "inquiries"),
			Files:       getEnv("DYNAMO_TABLE_FILES", "file_uploads"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "account-system-files"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 6)) * time.Hour,

		VerificationTTL:      time.Duration(getEnvInt("VERIFICATION_TTL_MINUTES", 5)) * time.Minute,
		VerificationRangeMin: getEnvInt("VERIFICATION_RANGE_MIN", 100000),
		VerificationRangeMax: getEnvInt("VERIFICATION_RANGE_MAX", 999999),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		FindIDSubject:       getEnv("EMAIL_FIND_ID_SUBJECT", "Your account id"),
		VerificationSubject: getEnv("EMAIL_VERIFICATION_SUBJECT", "Email verification code"),

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
