// Package config provides configuration management for the Lightwave server.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the server.
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Database configuration
	DatabaseURL string

	// Render core configuration
	FrameRate        int // Hz, one full pass per tick
	ChaseDelayFrames int // strip-2 delay for Chase sync

	// Output configuration
	OutputDriver  string // "spi", "artnet", or "null"
	SPIDevice     string // periph.io spireg name, empty for the first port
	ArtNetEnabled bool
	ArtNetAddr    string
	ArtNetPort    int

	// Preview stream
	PreviewRateHz int // WebSocket frame preview rate

	// Timing monitoring
	FrameDriftThreshold time.Duration // warn only for overruns past budget by this much
	FrameDriftThrottle  time.Duration // throttle overrun warnings

	// CORS configuration
	CORSOrigin string
}

// Load loads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		// Server
		Port: getEnv("PORT", "4000"),
		Env:  getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "file:./lightwave.db"),

		// Render core
		FrameRate:        getEnvInt("FRAME_RATE", 120),
		ChaseDelayFrames: getEnvInt("CHASE_DELAY_FRAMES", 6),

		// Output
		OutputDriver:  getEnv("OUTPUT_DRIVER", "null"),
		SPIDevice:     getEnv("SPI_DEVICE", ""),
		ArtNetEnabled: getEnvBool("ARTNET_ENABLED", false),
		ArtNetAddr:    getEnv("ARTNET_ADDR", "255.255.255.255"),
		ArtNetPort:    getEnvInt("ARTNET_PORT", 6454),

		// Preview
		PreviewRateHz: getEnvInt("PREVIEW_RATE", 15),

		// Timing
		FrameDriftThreshold: time.Duration(getEnvInt("FRAME_DRIFT_THRESHOLD", 2)) * time.Millisecond,
		FrameDriftThrottle:  time.Duration(getEnvInt("FRAME_DRIFT_THROTTLE", 5000)) * time.Millisecond,

		// CORS
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default value.
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
