package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Retention bounds enforced at the config/API boundary.
const (
	DefaultRetentionDays = 7
	MinRetentionDays     = 1
	MaxRetentionDays     = 30
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// External source
	ExternalBaseURL     string
	DepositsEndpoint    string
	PDFTotalsEndpoint   string
	PDFDetailedEndpoint string

	// HTTP client / resilience
	HTTPTimeout time.Duration
	MaxRetries  int
	RetryDelay  time.Duration

	// Reporting
	ReportsDir    string
	RetentionDays int
	MinShortage   decimal.Decimal
	TimeZone      string
	JobSchedule   string

	// Mail
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
	FromName   string
	HREmail    string
	AdminEmail string

	// Observability
	OTLPEndpoint string
}

// Load reads configuration from environment variables with defaults.
// A .env file is honored for local development but never overrides the
// real environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ExternalBaseURL:     getEnv("EXTERNAL_APP_URL", "http://localhost:8001"),
		DepositsEndpoint:    getEnv("DEPOSITS_ENDPOINT", "/api/deposits/db/by-plant"),
		PDFTotalsEndpoint:   getEnv("PDF_TOTALS_ENDPOINT", "/api/reports/pdf/total"),
		PDFDetailedEndpoint: getEnv("PDF_DETAILED_ENDPOINT", "/api/reports/pdf/detailed"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 90*time.Second),
		MaxRetries:  getEnvInt("MAX_RETRIES", 3),
		RetryDelay:  getEnvDuration("RETRY_DELAY", 1500*time.Millisecond),

		ReportsDir:    getEnv("REPORTS_DIR", "reportes"),
		RetentionDays: ClampRetentionDays(getEnvInt("RETENTION_DAYS", DefaultRetentionDays)),
		MinShortage:   getEnvDecimal("MIN_SHORTAGE", decimal.NewFromInt(10000)),
		TimeZone:      getEnv("TIME_ZONE", "America/Argentina/Buenos_Aires"),
		JobSchedule:   getEnv("JOB_SCHEDULE", "0 7 * * *"),

		SMTPHost:   getEnv("SMTP_HOST", ""),
		SMTPPort:   getEnvInt("SMTP_PORT", 587),
		SMTPUser:   getEnv("SMTP_USER", ""),
		SMTPPass:   getEnv("SMTP_PASS", ""),
		FromEmail:  getEnv("FROM_EMAIL", ""),
		FromName:   getEnv("FROM_NAME", "Sistema"),
		HREmail:    getEnv("HR_EMAIL", ""),
		AdminEmail: getEnv("ADMIN_EMAIL", ""),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}
}

// ClampRetentionDays forces a retention value into [1, 30].
func ClampRetentionDays(days int) int {
	if days < MinRetentionDays {
		return MinRetentionDays
	}
	if days > MaxRetentionDays {
		return MaxRetentionDays
	}
	return days
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

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return fallback
}
