package config

import (
	"os"
	"strconv"
	"time"

	"brineviz/internal/errors"
	"brineviz/internal/normalize"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Upload  UploadConfig
	Session SessionConfig
	Clean   CleanConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port   string
	UIPort string
}

// UploadConfig holds upload limits
type UploadConfig struct {
	MaxBytes       int64
	MaxConcurrency int64
}

// SessionConfig holds in-memory session lifecycle settings
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// CleanConfig holds data-cleaning policy settings
type CleanConfig struct {
	Strategy  string
	Malformed string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:  loadServerConfig(),
		Upload:  loadUploadConfig(),
		Session: loadSessionConfig(),
		Clean:   loadCleanConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:   getEnvOrDefault("PORT", "8080"),
		UIPort: getEnvOrDefault("UI_PORT", "8081"),
	}
}

func loadUploadConfig() UploadConfig {
	return UploadConfig{
		MaxBytes:       getEnvInt64OrDefault("MAX_UPLOAD_BYTES", 50*1024*1024),
		MaxConcurrency: getEnvInt64OrDefault("MAX_CONCURRENT_PARSES", 4),
	}
}

func loadSessionConfig() SessionConfig {
	return SessionConfig{
		TTL:           getEnvDurationOrDefault("SESSION_TTL", 2*time.Hour),
		SweepInterval: getEnvDurationOrDefault("SESSION_SWEEP_INTERVAL", 10*time.Minute),
	}
}

func loadCleanConfig() CleanConfig {
	return CleanConfig{
		Strategy:  getEnvOrDefault("AGGREGATION_STRATEGY", string(normalize.StrategyFillZero)),
		Malformed: getEnvOrDefault("MALFORMED_POLICY", string(normalize.MalformedError)),
	}
}

// NormalizeOptions converts the cleaning settings into normalizer options
func (c *Config) NormalizeOptions() normalize.Options {
	return normalize.Options{
		Strategy:  normalize.Strategy(c.Clean.Strategy),
		Malformed: normalize.MalformedPolicy(c.Clean.Malformed),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Upload.MaxBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_BYTES must be positive")
	}
	if config.Upload.MaxConcurrency <= 0 {
		return errors.ConfigInvalid("MAX_CONCURRENT_PARSES must be positive")
	}
	if err := config.NormalizeOptions().Validate(); err != nil {
		return errors.ConfigInvalid(err.Error())
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

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
