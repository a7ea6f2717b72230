package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the sync service
type Config struct {
	// Service configuration
	Service ServiceConfig

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// Sync configuration
	Sync SyncConfig

	// Metadata pipeline configuration
	Metadata MetadataConfig
}

// ServiceConfig holds service-level configuration
type ServiceConfig struct {
	Environment  string
	ServiceName  string
	LogLevel     string
	ShutdownTime time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig holds Redis configuration. Redis is optional; when Host is
// empty the service falls back to the in-memory cache.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// SyncConfig holds sync orchestration configuration
type SyncConfig struct {
	// EnrichmentWorkers is the number of background enrichment workers.
	EnrichmentWorkers int
	// EnrichmentQueueSize bounds the background enrichment queue.
	EnrichmentQueueSize int
	// DefaultScheduleInterval is used when an account has no explicit interval.
	DefaultScheduleInterval time.Duration
}

// MetadataConfig holds metadata pipeline configuration
type MetadataConfig struct {
	// BatchTimeout is the overall time budget for one enrichment batch.
	BatchTimeout time.Duration
	// SearchResultCap caps search options returned for user presentation.
	SearchResultCap int
	// MinDescriptionLength is the placeholder heuristic threshold.
	MinDescriptionLength int
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	cfg := &Config{
		Service: ServiceConfig{
			Environment:  getEnv("ENVIRONMENT", "development"),
			ServiceName:  serviceName,
			LogLevel:     getEnv("LOG_LEVEL", "info"),
			ShutdownTime: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "inventory"),
			Password:     getEnv("DB_PASSWORD", "inventory"),
			Database:     getEnv("DB_NAME", "inventory"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			PoolSize: getEnvAsInt("REDIS_POOL_SIZE", 10),
		},
		Sync: SyncConfig{
			EnrichmentWorkers:       getEnvAsInt("SYNC_ENRICHMENT_WORKERS", 2),
			EnrichmentQueueSize:     getEnvAsInt("SYNC_ENRICHMENT_QUEUE_SIZE", 64),
			DefaultScheduleInterval: getEnvAsDuration("SYNC_SCHEDULE_INTERVAL", time.Hour),
		},
		Metadata: MetadataConfig{
			BatchTimeout:         getEnvAsDuration("METADATA_BATCH_TIMEOUT", 5*time.Minute),
			SearchResultCap:      getEnvAsInt("METADATA_SEARCH_RESULT_CAP", 10),
			MinDescriptionLength: getEnvAsInt("METADATA_MIN_DESCRIPTION_LENGTH", 20),
		},
	}

	return cfg, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return defaultValue
}
