package config

import (
	"testing"
	"time"
)

func TestLoad_CustomEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "file:./prod.db")
	t.Setenv("FRAME_RATE", "60")
	t.Setenv("CHASE_DELAY_FRAMES", "12")
	t.Setenv("OUTPUT_DRIVER", "artnet")
	t.Setenv("ARTNET_ENABLED", "true")
	t.Setenv("ARTNET_PORT", "6455")
	t.Setenv("ARTNET_ADDR", "192.168.1.255")
	t.Setenv("PREVIEW_RATE", "30")
	t.Setenv("FRAME_DRIFT_THRESHOLD", "5")
	t.Setenv("FRAME_DRIFT_THROTTLE", "10000")
	t.Setenv("CORS_ORIGIN", "http://example.com")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected Port to be '8080', got '%s'", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("Expected Env to be 'production', got '%s'", cfg.Env)
	}
	if cfg.DatabaseURL != "file:./prod.db" {
		t.Errorf("Expected DatabaseURL to be 'file:./prod.db', got '%s'", cfg.DatabaseURL)
	}
	if cfg.FrameRate != 60 {
		t.Errorf("Expected FrameRate to be 60, got %d", cfg.FrameRate)
	}
	if cfg.ChaseDelayFrames != 12 {
		t.Errorf("Expected ChaseDelayFrames to be 12, got %d", cfg.ChaseDelayFrames)
	}
	if cfg.OutputDriver != "artnet" {
		t.Errorf("Expected OutputDriver to be 'artnet', got '%s'", cfg.OutputDriver)
	}
	if cfg.ArtNetEnabled != true {
		t.Errorf("Expected ArtNetEnabled to be true, got %v", cfg.ArtNetEnabled)
	}
	if cfg.ArtNetPort != 6455 {
		t.Errorf("Expected ArtNetPort to be 6455, got %d", cfg.ArtNetPort)
	}
	if cfg.ArtNetAddr != "192.168.1.255" {
		t.Errorf("Expected ArtNetAddr to be '192.168.1.255', got '%s'", cfg.ArtNetAddr)
	}
	if cfg.PreviewRateHz != 30 {
		t.Errorf("Expected PreviewRateHz to be 30, got %d", cfg.PreviewRateHz)
	}
	if cfg.FrameDriftThreshold != 5*time.Millisecond {
		t.Errorf("Expected FrameDriftThreshold to be 5ms, got %v", cfg.FrameDriftThreshold)
	}
	if cfg.FrameDriftThrottle != 10*time.Second {
		t.Errorf("Expected FrameDriftThrottle to be 10s, got %v", cfg.FrameDriftThrottle)
	}
	if cfg.CORSOrigin != "http://example.com" {
		t.Errorf("Expected CORSOrigin to be 'http://example.com', got '%s'", cfg.CORSOrigin)
	}
}

func TestIsDevelopment(t *testing.T) {
	tests := []struct {
		env      string
		expected bool
	}{
		{"development", true},
		{"production", false},
		{"staging", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := &Config{Env: tt.env}
			if got := cfg.IsDevelopment(); got != tt.expected {
				t.Errorf("IsDevelopment() = %v, want %v for env '%s'", got, tt.expected, tt.env)
			}
		})
	}
}

func TestIsProduction(t *testing.T) {
	tests := []struct {
		env      string
		expected bool
	}{
		{"production", true},
		{"development", false},
		{"staging", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := &Config{Env: tt.env}
			if got := cfg.IsProduction(); got != tt.expected {
				t.Errorf("IsProduction() = %v, want %v for env '%s'", got, tt.expected, tt.env)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_GET_ENV", "custom_value")

	result := getEnv("TEST_GET_ENV", "default")
	if result != "custom_value" {
		t.Errorf("Expected 'custom_value', got '%s'", result)
	}

	result = getEnv("NON_EXISTING_VAR_12345_UNIQUE", "default_value")
	if result != "default_value" {
		t.Errorf("Expected 'default_value', got '%s'", result)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT_VAR", "42")

	result := getEnvInt("TEST_INT_VAR", 10)
	if result != 42 {
		t.Errorf("Expected 42, got %d", result)
	}

	t.Setenv("TEST_INVALID_INT", "not_a_number")

	result = getEnvInt("TEST_INVALID_INT", 10)
	if result != 10 {
		t.Errorf("Expected default 10 for invalid int, got %d", result)
	}

	result = getEnvInt("NON_EXISTING_INT_VAR_12345_UNIQUE", 100)
	if result != 100 {
		t.Errorf("Expected default 100, got %d", result)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		expected     bool
		setEnv       bool
	}{
		{"true_string", "true", false, true, true},
		{"false_string", "false", true, false, true},
		{"1_string", "1", false, true, true},
		{"0_string", "0", true, false, true},
		{"invalid_string_returns_default", "invalid", true, true, true},
		{"non_existing_returns_default_true", "", true, true, false},
		{"non_existing_returns_default_false", "", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envKey := "TEST_BOOL_VAR_" + tt.name + "_UNIQUE"
			if tt.setEnv {
				t.Setenv(envKey, tt.envValue)
			}

			result := getEnvBool(envKey, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("getEnvBool(%s, %v) = %v, want %v", envKey, tt.defaultValue, result, tt.expected)
			}
		})
	}
}
