// ABOUTME: Centralized configuration for the devotional CLI and MCP server
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/harper/devotional/internal/logging"
)

// Storage backends
const (
	StoreSQLite = "sqlite"
	StoreCharm  = "charm"
	StoreMemory = "memory"
)

// Config holds all configuration for the engine and its surfaces
type Config struct {
	// Storage settings
	Store  string
	DBPath string

	// Charm settings
	CharmHost   string
	CharmDBName string
	AutoSync    bool

	// Matcher settings
	TopK     int
	MinScore float64

	// Logging
	LogLevel string
	LogJSON  bool

	// Calendar day boundary for streaks; empty means the system zone
	Timezone string

	// OpenAI settings, used only for rephrasing guidance replies
	OpenAIKey  string
	ChatModel  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Store:       strings.ToLower(getEnv("DEVOTIONAL_STORE", StoreSQLite)),
		DBPath:      os.Getenv("DEVOTIONAL_DB_PATH"),
		CharmHost:   getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName: getEnv("CHARM_DB", "devotional"),
		AutoSync:    getEnvBool("CHARM_AUTO_SYNC", false),
		TopK:        getEnvInt("DEVOTIONAL_TOP_K", 3),
		MinScore:    getEnvFloat("DEVOTIONAL_MIN_SCORE", 0.15),
		LogLevel:    getEnv("DEVOTIONAL_LOG_LEVEL", "info"),
		LogJSON:     getEnvBool("DEVOTIONAL_LOG_JSON", false),
		Timezone:    os.Getenv("DEVOTIONAL_TIMEZONE"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		ChatModel:   getEnv("DEVOTIONAL_OPENAI_MODEL", "gpt-4o-mini"),
		Timeout:     getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:  getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:  getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreCharm, StoreMemory:
	default:
		return fmt.Errorf("DEVOTIONAL_STORE must be sqlite, charm, or memory, got %q", c.Store)
	}
	if c.TopK < 1 || c.TopK > 20 {
		return fmt.Errorf("DEVOTIONAL_TOP_K must be 1-20, got %d", c.TopK)
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("DEVOTIONAL_MIN_SCORE must be 0-1, got %f", c.MinScore)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("DEVOTIONAL_LOG_LEVEL: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("DEVOTIONAL_TIMEZONE: %w", err)
	}
	return nil
}

// Location resolves Timezone, defaulting to the system zone
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// RephraseEnabled reports whether an OpenAI key is configured
func (c *Config) RephraseEnabled() bool {
	return c.OpenAIKey != ""
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
