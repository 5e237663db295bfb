package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Xendit       XenditConfig
	Pricing      PricingConfig
	Checkout     CheckoutConfig
	Email        EmailConfig
	SMTP         SMTPConfig
	Storage      StorageConfig
	Notification NotificationConfig
	Retention    RetentionConfig
	CORS         CORSConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	PublicBaseURL  string // e.g. "https://evermoment.app", used for share links and QR codes
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Type            string // "postgres" or "memory"
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	Migrate         bool
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// JWTConfig holds host token configuration
type JWTConfig struct {
	Secret string
}

// XenditConfig holds payment gateway configuration
type XenditConfig struct {
	APIKey          string
	WebhookToken    string
	Environment     string // "sandbox" or "production"
	Currency        string
	InvoiceDuration time.Duration
	Timeout         time.Duration
}

// PricingConfig holds the price reference per plan. A zero value means the
// plan is not configured.
type PricingConfig struct {
	Basic   decimal.Decimal
	Premium decimal.Decimal
}

// CheckoutConfig holds redirect URL templates. {CHECKOUT_SESSION_ID} is
// replaced with the gateway session reference.
type CheckoutConfig struct {
	SuccessURL string
	CancelURL  string
}

type EmailConfig struct {
	Provider       string // "smtp" or "sendgrid"
	SendGridAPIKey string
}

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	FromName    string
	// ImplicitTLS dials TLS directly (SMTPS) instead of upgrading with
	// STARTTLS. Defaults to true on port 465.
	ImplicitTLS bool
}

type StorageConfig struct {
	Type               string // "local" or "gcs"
	BasePath           string
	BaseURL            string
	GCSBucket          string
	GCSCredentialsFile string
}

type NotificationConfig struct {
	WorkerCount int
	QueueSize   int
	SendTimeout time.Duration
}

// RetentionConfig controls the purge of expired invitations. A zero
// interval disables the job.
type RetentionConfig struct {
	PurgeInterval time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	requestTimeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		PublicBaseURL:  strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		RequestTimeout: requestTimeout,
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMigrate, err := strconv.ParseBool(getEnv("DB_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIGRATE: %w", err)
	}

	maxConns, err := getEnvInt32("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt32("DB_MIN_CONNS", 1)
	if err != nil {
		return nil, err
	}
	maxConnLifetime, err := time.ParseDuration(getEnv("DB_MAX_CONN_LIFETIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONN_LIFETIME: %w", err)
	}
	maxConnIdleTime, err := time.ParseDuration(getEnv("DB_MAX_CONN_IDLE_TIME", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONN_IDLE_TIME: %w", err)
	}

	config.Database = DatabaseConfig{
		Type:            getEnv("DB_TYPE", "postgres"),
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            dbPort,
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "evermoment"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		Migrate:         dbMigrate,
		MaxConns:        maxConns,
		MinConns:        minConns,
		MaxConnLifetime: maxConnLifetime,
		MaxConnIdleTime: maxConnIdleTime,
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// Payment gateway configuration
	invoiceDuration, err := time.ParseDuration(getEnv("XENDIT_INVOICE_DURATION", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid XENDIT_INVOICE_DURATION: %w", err)
	}
	xenditTimeout, err := time.ParseDuration(getEnv("XENDIT_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid XENDIT_TIMEOUT: %w", err)
	}

	config.Xendit = XenditConfig{
		APIKey:          getEnv("XENDIT_API_KEY", ""),
		WebhookToken:    getEnv("XENDIT_WEBHOOK_TOKEN", ""),
		Environment:     getEnv("XENDIT_ENVIRONMENT", "sandbox"),
		Currency:        getEnv("XENDIT_CURRENCY", "IDR"),
		InvoiceDuration: invoiceDuration,
		Timeout:         xenditTimeout,
	}

	basicPrice, err := getEnvDecimal("PRICE_BASIC")
	if err != nil {
		return nil, err
	}
	premiumPrice, err := getEnvDecimal("PRICE_PREMIUM")
	if err != nil {
		return nil, err
	}
	config.Pricing = PricingConfig{
		Basic:   basicPrice,
		Premium: premiumPrice,
	}

	config.Checkout = CheckoutConfig{
		SuccessURL: getEnv("CHECKOUT_SUCCESS_URL", config.App.PublicBaseURL+"/sucesso?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  getEnv("CHECKOUT_CANCEL_URL", config.App.PublicBaseURL+"/criar"),
	}

	// Email configuration
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	smtpTLS, err := strconv.ParseBool(getEnv("SMTP_TLS", strconv.FormatBool(smtpPort == 465)))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_TLS: %w", err)
	}

	config.Email = EmailConfig{
		Provider:       getEnv("EMAIL_PROVIDER", "smtp"),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
	}
	config.SMTP = SMTPConfig{
		Host:        getEnv("SMTP_HOST", ""),
		Port:        smtpPort,
		Username:    getEnv("SMTP_USERNAME", ""),
		Password:    getEnv("SMTP_PASSWORD", ""),
		From:        getEnv("SMTP_FROM", "no-reply@evermoment.app"),
		FromName:    getEnv("SMTP_FROM_NAME", "Evermoment"),
		ImplicitTLS: smtpTLS,
	}

	// Storage configuration
	config.Storage = StorageConfig{
		Type:               getEnv("STORAGE_TYPE", "local"),
		BasePath:           getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:            strings.TrimRight(getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"), "/"),
		GCSBucket:          getEnv("GCS_BUCKET", ""),
		GCSCredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
	}

	// Notification worker configuration
	workers, err := strconv.Atoi(getEnv("NOTIFICATION_WORKERS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_WORKERS: %w", err)
	}
	queueSize, err := strconv.Atoi(getEnv("NOTIFICATION_QUEUE_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_QUEUE_SIZE: %w", err)
	}
	sendTimeout, err := time.ParseDuration(getEnv("NOTIFICATION_SEND_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_SEND_TIMEOUT: %w", err)
	}

	config.Notification = NotificationConfig{
		WorkerCount: workers,
		QueueSize:   queueSize,
		SendTimeout: sendTimeout,
	}

	purgeInterval, err := time.ParseDuration(getEnv("PURGE_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid PURGE_INTERVAL: %w", err)
	}
	config.Retention = RetentionConfig{
		PurgeInterval: purgeInterval,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{config.App.PublicBaseURL}),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Type {
	case "postgres":
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported DB_TYPE: %s", c.Database.Type)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Xendit.WebhookToken == "" {
		return fmt.Errorf("XENDIT_WEBHOOK_TOKEN is required")
	}
	switch c.Storage.Type {
	case "local":
	case "gcs":
		if c.Storage.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required for gcs storage")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE: %s", c.Storage.Type)
	}
	switch c.Email.Provider {
	case "smtp":
	case "sendgrid":
		if c.Email.SendGridAPIKey == "" {
			return fmt.Errorf("SENDGRID_API_KEY is required for sendgrid provider")
		}
	default:
		return fmt.Errorf("unsupported EMAIL_PROVIDER: %s", c.Email.Provider)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

func getEnvInt32(key string, fallback int32) (int32, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, value)
	}
	return int32(n), nil
}

// getEnvDecimal returns decimal.Zero when the variable is unset.
func getEnvDecimal(key string) (decimal.Decimal, error) {
	value := getEnv(key, "")
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
