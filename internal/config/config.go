package config

import (
	"os"
	"strconv"

	"tilemetry/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Data     DataConfig
	Render   RenderConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	APIPort string
	GinMode string
}

// DatabaseConfig holds database connection settings. URL may be empty, in
// which case widget configs live in memory only.
type DatabaseConfig struct {
	URL string
}

// DataConfig holds data source settings
type DataConfig struct {
	// File is the xlsx/csv file backing widgets without their own source.
	// Empty means synthetic demo data.
	File string
}

// RenderConfig holds widget rendering defaults
type RenderConfig struct {
	TopN       int
	ChartWidth int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			APIPort: getEnvOrDefault("API_PORT", "8081"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Data: DataConfig{
			File: getEnvOrDefault("DATA_FILE", ""),
		},
		Render: RenderConfig{
			TopN:       getEnvIntOrDefault("WIDGET_TOP_N", 10),
			ChartWidth: getEnvIntOrDefault("CHART_WIDTH", 1024),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT cannot be empty")
	}
	if config.Render.TopN <= 0 {
		return errors.ConfigInvalid("WIDGET_TOP_N must be positive")
	}
	if config.Render.ChartWidth <= 0 {
		return errors.ConfigInvalid("CHART_WIDTH must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
