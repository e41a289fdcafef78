package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration, loaded from the
// environment.
type Config struct {
	// Server
	Port string

	// Database
	DatabaseURL string

	// JWT
	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration

	// Import pipeline
	ImportWorkers       int
	ImportPollInterval  time.Duration
	ImportLeaseDuration time.Duration
	UploadBaseDir       string

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	MailFromName string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTIssuer:      getEnv("JWT_ISSUER", "employee-registry"),
		AccessTokenTTL: getEnvDuration("ACCESS_TOKEN_TTL", 60*time.Minute),

		ImportWorkers:       getEnvInt("IMPORT_WORKERS", 10),
		ImportPollInterval:  getEnvDuration("IMPORT_POLL_INTERVAL", 500*time.Millisecond),
		ImportLeaseDuration: getEnvDuration("IMPORT_JOB_LEASE", 60*time.Second),
		UploadBaseDir:       getEnv("UPLOAD_BASE_DIR", "."),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 25),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@localhost"),
		MailFromName: getEnv("MAIL_FROM_NAME", "Employee Registry"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
