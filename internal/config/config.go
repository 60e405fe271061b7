package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/benvon/metric-tracker/internal/store"
	"github.com/ulule/limiter/v3"
)

// Storage backends
const (
	StorageFile   = store.BackendFile
	StorageMemory = store.BackendMemory
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DataDir         string
	StorageBackend  string
	FrontendURL     string
	EnableHSTS      bool
	ServerDebugMode bool
	RateLimit       string
	RedisURL        string
	MetricsEnabled  bool
	OTELEnabled     bool
	OTELEndpoint    string
	OTELInsecure    bool
	OpenAPIPath     string
	RequestTimeout  time.Duration
	MaxRequestBytes int64
	AuditInterval   time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		DataDir:         getEnv("DATA_DIR", "data"),
		StorageBackend:  strings.ToLower(getEnv("STORAGE_BACKEND", StorageFile)),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		EnableHSTS:      getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode: getEnvBool("SERVER_DEBUG_MODE", false),
		RateLimit:       getEnv("RATE_LIMIT", "20-S"),
		RedisURL:        getEnv("REDIS_URL", ""),
		MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),
		OTELEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		OTELInsecure:    getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OpenAPIPath:     getEnv("OPENAPI_PATH", "api/openapi/openapi.yaml"),
		RequestTimeout:  time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		MaxRequestBytes: int64(getEnvInt("MAX_REQUEST_BYTES", 1<<20)),
		AuditInterval:   time.Duration(getEnvInt("AUDIT_INTERVAL_MINUTES", 0)) * time.Minute,
	}

	switch cfg.StorageBackend {
	case StorageFile:
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("DATA_DIR is required for the file storage backend")
		}
	case StorageMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q (want %q or %q)", cfg.StorageBackend, StorageFile, StorageMemory)
	}

	if _, err := limiter.NewRateFromFormatted(cfg.RateLimit); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
	}

	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive")
	}
	if cfg.MaxRequestBytes <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BYTES must be positive")
	}
	if cfg.AuditInterval < 0 {
		return nil, fmt.Errorf("AUDIT_INTERVAL_MINUTES must not be negative")
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.ServerPort
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
