package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ServerConfig holds HTTP API server settings
type ServerConfig struct {
	Host        string
	Port        string
	Environment string
}

// GetServerConfig returns server configuration from environment or defaults
func GetServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:        getEnvOrDefault("SCRIBE_HOST", "0.0.0.0"),
		Port:        getEnvOrDefault("SCRIBE_PORT", DefaultHTTPPort),
		Environment: getEnvOrDefault("SCRIBE_ENV", "development"),
	}
}

// Addr returns the listen address
func (sc *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", sc.Host, sc.Port)
}

// QueueConfig holds Redis queue settings
type QueueConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ResultTTL bounds how long finished job results stay readable.
	ResultTTL time.Duration
}

// GetQueueConfig returns queue configuration from environment or defaults
func GetQueueConfig() *QueueConfig {
	return &QueueConfig{
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", DefaultRedisAddr),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		ResultTTL:     getEnvDuration("SCRIBE_RESULT_TTL", DefaultResultTTL),
	}
}

// StorageConfig holds MinIO object store settings. An empty endpoint
// disables result persistence entirely.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// GetStorageConfig returns object store configuration from environment
func GetStorageConfig() *StorageConfig {
	return &StorageConfig{
		Endpoint:  getEnvOrDefault("MINIO_ENDPOINT", ""),
		AccessKey: getEnvOrDefault("MINIO_ACCESS_KEY", ""),
		SecretKey: getEnvOrDefault("MINIO_SECRET_KEY", ""),
		Bucket:    getEnvOrDefault("MINIO_BUCKET", DefaultResultBucket),
		UseSSL:    getEnvBool("MINIO_USE_SSL", false),
	}
}

// Enabled reports whether an object store endpoint is configured
func (sc *StorageConfig) Enabled() bool {
	return sc.Endpoint != ""
}

// LedgerConfig holds job ledger database settings
type LedgerConfig struct {
	DatabaseURL string
	SQLitePath  string
}

// GetLedgerConfig returns ledger configuration from environment or defaults
func GetLedgerConfig() *LedgerConfig {
	return &LedgerConfig{
		DatabaseURL: getEnvOrDefault("DATABASE_URL", ""),
		SQLitePath:  getEnvOrDefault("SCRIBE_DB_PATH", defaultSQLitePath()),
	}
}

// UsePostgres reports whether a PostgreSQL connection string is configured
func (lc *LedgerConfig) UsePostgres() bool {
	return lc.DatabaseURL != ""
}

func defaultSQLitePath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".scribe", "jobs.db")
	}
	return filepath.Join("data", "jobs.db")
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
