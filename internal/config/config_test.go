package config

import (
	"testing"
	"time"
)

// Tests in this package mutate the process environment with t.Setenv and so do not run in parallel.

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		validate    func(*testing.T, *Config)
	}{
		{
			name:    "default values",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.ServerPort != "8080" {
					t.Errorf("Expected default ServerPort to be '8080', got '%s'", cfg.ServerPort)
				}
				if cfg.DataDir != "data" {
					t.Errorf("Expected default DataDir to be 'data', got '%s'", cfg.DataDir)
				}
				if cfg.StorageBackend != StorageFile {
					t.Errorf("Expected default StorageBackend to be 'file', got '%s'", cfg.StorageBackend)
				}
				if cfg.RateLimit != "20-S" {
					t.Errorf("Expected default RateLimit to be '20-S', got '%s'", cfg.RateLimit)
				}
				if !cfg.MetricsEnabled {
					t.Error("Expected metrics to be enabled by default")
				}
				if cfg.OTELEnabled {
					t.Error("Expected tracing to be disabled by default")
				}
				if cfg.RedisURL != "" {
					t.Errorf("Expected no default RedisURL, got '%s'", cfg.RedisURL)
				}
				if cfg.RequestTimeout != 30*time.Second {
					t.Errorf("Expected default RequestTimeout 30s, got %v", cfg.RequestTimeout)
				}
				if cfg.OpenAPIPath != "api/openapi/openapi.yaml" {
					t.Errorf("Expected default OpenAPIPath, got '%s'", cfg.OpenAPIPath)
				}
				if cfg.Addr() != ":8080" {
					t.Errorf("Expected Addr ':8080', got '%s'", cfg.Addr())
				}
			},
		},
		{
			name: "overrides",
			envVars: map[string]string{
				"SERVER_PORT":             "9090",
				"DATA_DIR":                "/var/lib/tracker",
				"STORAGE_BACKEND":         "Memory",
				"RATE_LIMIT":              "100-M",
				"REDIS_URL":               "redis://localhost:6379/1",
				"METRICS_ENABLED":         "false",
				"OTEL_ENABLED":            "1",
				"ENABLE_HSTS":             "yes",
				"REQUEST_TIMEOUT_SECONDS": "5",
				"AUDIT_INTERVAL_MINUTES":  "15",
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.ServerPort != "9090" {
					t.Errorf("Expected ServerPort to be '9090', got '%s'", cfg.ServerPort)
				}
				if cfg.DataDir != "/var/lib/tracker" {
					t.Errorf("Expected DataDir '/var/lib/tracker', got '%s'", cfg.DataDir)
				}
				if cfg.StorageBackend != StorageMemory {
					t.Errorf("Expected StorageBackend 'memory', got '%s'", cfg.StorageBackend)
				}
				if cfg.RateLimit != "100-M" {
					t.Errorf("Expected RateLimit '100-M', got '%s'", cfg.RateLimit)
				}
				if cfg.RedisURL != "redis://localhost:6379/1" {
					t.Errorf("Expected RedisURL to be set, got '%s'", cfg.RedisURL)
				}
				if cfg.MetricsEnabled {
					t.Error("Expected metrics to be disabled")
				}
				if !cfg.OTELEnabled {
					t.Error("Expected tracing to be enabled")
				}
				if !cfg.EnableHSTS {
					t.Error("Expected HSTS to be enabled")
				}
				if cfg.RequestTimeout != 5*time.Second {
					t.Errorf("Expected RequestTimeout 5s, got %v", cfg.RequestTimeout)
				}
				if cfg.AuditInterval != 15*time.Minute {
					t.Errorf("Expected AuditInterval 15m, got %v", cfg.AuditInterval)
				}
			},
		},
		{
			name:        "unknown storage backend",
			envVars:     map[string]string{"STORAGE_BACKEND": "postgres"},
			expectError: true,
		},
		{
			name:        "malformed rate limit",
			envVars:     map[string]string{"RATE_LIMIT": "lots"},
			expectError: true,
		},
		{
			name:        "negative audit interval",
			envVars:     map[string]string{"AUDIT_INTERVAL_MINUTES": "-1"},
			expectError: true,
		},
		{
			name:        "non-positive timeout",
			envVars:     map[string]string{"REQUEST_TIMEOUT_SECONDS": "0"},
			expectError: true,
		},
	}

	keys := []string{
		"SERVER_PORT", "DATA_DIR", "STORAGE_BACKEND", "FRONTEND_URL", "ENABLE_HSTS",
		"SERVER_DEBUG_MODE", "RATE_LIMIT", "REDIS_URL", "METRICS_ENABLED", "OTEL_ENABLED",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE", "OPENAPI_PATH",
		"REQUEST_TIMEOUT_SECONDS", "MAX_REQUEST_BYTES", "AUDIT_INTERVAL_MINUTES",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range keys {
				t.Setenv(key, "")
			}
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := Load()
			if tt.expectError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value        string
		defaultValue bool
		expected     bool
	}{
		{value: "true", expected: true},
		{value: "1", expected: true},
		{value: "yes", expected: true},
		{value: "false", defaultValue: true, expected: false},
		{value: "no", defaultValue: true, expected: false},
		{value: "", defaultValue: true, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_BOOL_VAR", tt.value)
			if got := getEnvBool("TEST_BOOL_VAR", tt.defaultValue); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		value    string
		expected int
	}{
		{value: "42", expected: 42},
		{value: "", expected: 7},
		{value: "seven", expected: 7},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_INT_VAR", tt.value)
			if got := getEnvInt("TEST_INT_VAR", 7); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}
