package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Holiday sources
const (
	SourceNager   = "nager"
	SourceOffline = "offline"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional; enables feature-table persistence)
	Database DatabaseConfig

	// Redis (optional; caches holiday directory responses)
	Redis RedisConfig

	// Holiday directory
	HolidayAPI HolidayAPIConfig

	// Output
	OutputDir string

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	CacheTTL time.Duration

	KeyPrefix string        // namespaces every cache key
	Timeout   time.Duration // dial, read and write
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database connection is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// HolidayAPIConfig holds holiday directory settings
type HolidayAPIConfig struct {
	Source     string // nager, offline
	BaseURL    string
	Timeout    time.Duration
	RatePerSec int
	Retries    int // 0 keeps runs fail-fast
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only caller of os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "seasonality"),
			User:            getEnv("DB_USER", "seasonality"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			CacheTTL: getEnvAsDuration("CACHE_TTL", "24h"),

			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "seasonality"),
			Timeout:   getEnvAsDuration("REDIS_TIMEOUT", "3s"),
		},

		HolidayAPI: HolidayAPIConfig{
			Source:     strings.ToLower(getEnv("HOLIDAY_SOURCE", SourceNager)),
			BaseURL:    getEnv("HOLIDAY_API_BASE_URL", "https://date.nager.at/api/v3"),
			Timeout:    getEnvAsDuration("HOLIDAY_API_TIMEOUT", "30s"),
			RatePerSec: getEnvAsInt("HOLIDAY_API_RATE_PER_SEC", 5),
			Retries:    getEnvAsInt("HOLIDAY_API_RETRIES", 0),
		},

		OutputDir: getEnv("OUTPUT_DIR", "."),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.HolidayAPI.Source != SourceNager && c.HolidayAPI.Source != SourceOffline {
		return fmt.Errorf("HOLIDAY_SOURCE must be one of: %s, %s", SourceNager, SourceOffline)
	}

	if c.HolidayAPI.Source == SourceNager && c.HolidayAPI.BaseURL == "" {
		return fmt.Errorf("HOLIDAY_API_BASE_URL is required for the %s source", SourceNager)
	}

	if c.HolidayAPI.Retries < 0 {
		return fmt.Errorf("HOLIDAY_API_RETRIES must not be negative")
	}

	if c.HolidayAPI.RatePerSec < 0 {
		return fmt.Errorf("HOLIDAY_API_RATE_PER_SEC must not be negative")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
