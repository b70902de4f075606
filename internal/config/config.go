// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"bitbucket.org/crgw/agent-portal/internal/tools/client"
)

const (
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)

type Config struct {
	Port     string
	Env      string
	Test     bool
	LogLevel string

	Storage        StorageConfig
	BookingService BookingServiceConfig
	NewRelic       NewRelicConfig

	DefaultTimezone string
}

type StorageConfig struct {
	Driver   string
	RedisURI string
}

type BookingServiceConfig struct {
	URL     string
	Timeout time.Duration
}

type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		Test:     getBoolEnv("TEST", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Storage: StorageConfig{
			Driver:   getEnv("STORAGE_DRIVER", StorageDriverRedis),
			RedisURI: getEnv("PORTAL_REDIS_URI", ""),
		},
		BookingService: BookingServiceConfig{
			URL:     getEnv("BOOKING_SERVICE_URL", ""),
			Timeout: getDurationEnv("BOOKING_SERVICE_TIMEOUT", client.DefaultTimeout),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "agent-portal"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		DefaultTimezone: getEnv("DEFAULT_TIMEZONE", "America/New_York"),
	}
}

func (c *Config) Validate() error {
	var errs []error

	if c.BookingService.URL == "" {
		errs = append(errs, errors.New("BOOKING_SERVICE_URL is required"))
	}

	if c.BookingService.Timeout <= 0 {
		errs = append(errs, errors.New("BOOKING_SERVICE_TIMEOUT must be positive"))
	}

	switch c.Storage.Driver {
	case StorageDriverRedis:
		if c.Storage.RedisURI == "" {
			errs = append(errs, errors.New("PORTAL_REDIS_URI is required for the redis storage driver"))
		}
	case StorageDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}

	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_TIMEZONE: %w", err))
	}

	return errors.Join(errs...)
}

// Location falls back to UTC for an unknown default timezone.
func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return location
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
