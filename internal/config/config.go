package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret          string
	JWTExpiry          time.Duration
	RefreshTokenExpiry time.Duration

	// Email
	EmailSender  string // envelope sender persisted on every thread
	EmailFrom    string // display "from" used on outgoing mail
	ResendAPIKey string // presence selects the Resend path over SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SendTimeout  time.Duration

	// Storage ("local" upload root or any S3-compatible service)
	StorageDriver string
	UploadDir     string
	S3Region      string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
	S3Endpoint    string // Optional: for MinIO, DO Spaces, R2, etc.

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppName: envString("APP_NAME", "dakflow"),
		AppEnv:  envString("APP_ENV", "development"),
		Port:    envString("PORT", "8090"),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/dakflow.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		JWTSecret:          envRequired("JWT_SECRET"),
		JWTExpiry:          envDuration("JWT_EXPIRY", 1*time.Hour),
		RefreshTokenExpiry: envDuration("REFRESH_TOKEN_EXPIRY", 168*time.Hour), // 7 days

		EmailSender:  envString("EMAIL_SENDER", "noreply@example.com"),
		EmailFrom:    envString("EMAIL_FROM", "DAK <onboarding@example.com>"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),
		SMTPHost:     envString("SMTP_HOST", "localhost"),
		SMTPPort:     envInt("SMTP_PORT", 587),
		SMTPUsername: envString("SMTP_USERNAME", ""),
		SMTPPassword: envString("SMTP_PASSWORD", ""),
		SendTimeout:  envDuration("EMAIL_SEND_TIMEOUT", 10*time.Second),

		StorageDriver: envString("STORAGE_DRIVER", "local"),
		UploadDir:     envString("UPLOAD_DIR", "./data/uploads"),
		S3Region:      envString("S3_REGION", ""),
		S3Bucket:      envString("S3_BUCKET", ""),
		S3AccessKey:   envString("S3_ACCESS_KEY", ""),
		S3SecretKey:   envString("S3_SECRET_KEY", ""),
		S3Endpoint:    envString("S3_ENDPOINT", ""),

		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.StorageDriver == "s3" {
		cfg.S3Region = envRequired("S3_REGION")
		cfg.S3Bucket = envRequired("S3_BUCKET")
	}

	return cfg
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
