package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	DatabaseURL      string
	ServerPort       string
	FrontendURL      string
	EnableHSTS       bool
	RedisURL         string
	RabbitMQURL      string
	RabbitMQPrefetch int
	RateLimit        string
	MigrateOnStart   bool
	RequestTimeout   time.Duration
	MaxRequestBytes  int64
	WorkerDebugMode  bool
	ServerDebugMode  bool
	OTELEnabled      bool
	OTELEndpoint     string
	DLQRetention     time.Duration
	DLQGCInterval    time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:3000"),
		EnableHSTS:       getEnvBool("ENABLE_HSTS", false),
		RedisURL:         getEnv("REDIS_URL", ""),
		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQPrefetch: getEnvInt("RABBITMQ_PREFETCH", 1),
		RateLimit:        getEnv("RATE_LIMIT", "20-S"),
		MigrateOnStart:   getEnvBool("MIGRATE_ON_START", true),
		RequestTimeout:   getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		MaxRequestBytes:  int64(getEnvInt("MAX_REQUEST_BYTES", 1<<20)),
		WorkerDebugMode:  getEnvBool("WORKER_DEBUG_MODE", false),
		ServerDebugMode:  getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:      getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		DLQRetention:     getEnvDuration("DLQ_RETENTION", 24*time.Hour),
		DLQGCInterval:    getEnvDuration("DLQ_GC_INTERVAL", time.Hour),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if cfg.RabbitMQPrefetch <= 0 {
		return nil, fmt.Errorf("RABBITMQ_PREFETCH must be positive")
	}

	if cfg.DLQRetention <= 0 {
		return nil, fmt.Errorf("DLQ_RETENTION must be positive")
	}

	if cfg.DLQGCInterval <= 0 {
		return nil, fmt.Errorf("DLQ_GC_INTERVAL must be positive")
	}

	if cfg.MaxRequestBytes <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BYTES must be positive")
	}

	return cfg, nil
}

// DefaultBaseURL is the address of a locally running server
const DefaultBaseURL = "http://localhost:8080"

// BaseURL returns the public address of the server from BASE_URL.
// It needs no database, so client-side tools read it without calling Load.
func BaseURL() string {
	return getEnv("BASE_URL", DefaultBaseURL)
}

// EventsEnabled reports whether todo change events should be published to RabbitMQ
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
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
