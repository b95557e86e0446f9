package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > 30*time.Minute {
		return fmt.Errorf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}

// ValidateConcurrency validates worker count
func ValidateConcurrency(concurrency int, name string) error {
	if concurrency <= 0 {
		return fmt.Errorf("%s concurrency must be positive", name)
	}
	if concurrency > 100 {
		return fmt.Errorf("%s concurrency too high (max 100)", name)
	}
	return nil
}

// ValidateAPIKey validates API key format
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return fmt.Errorf("%s API key is required", keyType)
	}

	switch keyType {
	case "OpenAI":
		if !strings.HasPrefix(apiKey, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format: must start with 'sk-'")
		}
		if len(apiKey) < 20 {
			return fmt.Errorf("invalid OpenAI API key format: too short")
		}
	case "Gemini":
		if !strings.HasPrefix(apiKey, "AIza") {
			return fmt.Errorf("invalid Gemini API key format: must start with 'AIza'")
		}
		if len(apiKey) < 30 {
			return fmt.Errorf("invalid Gemini API key format: too short")
		}
	}

	return nil
}

// ValidateURL validates URL format
func ValidateURL(url string, name string) error {
	if url == "" {
		return fmt.Errorf("%s URL is required", name)
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("%s URL must start with http:// or https://", name)
	}

	return nil
}

// ValidatePort validates port number
func ValidatePort(port string, name string) error {
	if port == "" {
		return fmt.Errorf("%s port is required", name)
	}

	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%s port invalid: %q", name, port)
	}

	return nil
}

// ValidateAddr validates a host:port address
func ValidateAddr(addr string, name string) error {
	if addr == "" {
		return fmt.Errorf("%s address is required", name)
	}

	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%s address must be host:port: %w", name, err)
	}

	return ValidatePort(port, name)
}

// ValidateServerConfig validates the HTTP server settings
func ValidateServerConfig(sc *ServerConfig) error {
	if sc.Host == "" {
		return fmt.Errorf("server host is required")
	}
	return ValidatePort(sc.Port, "server")
}

// ValidateQueueConfig validates the Redis queue settings
func ValidateQueueConfig(qc *QueueConfig) error {
	if err := ValidateAddr(qc.RedisAddr, "redis"); err != nil {
		return err
	}
	if qc.RedisDB < 0 || qc.RedisDB > 15 {
		return fmt.Errorf("redis DB index out of range: %d", qc.RedisDB)
	}
	if qc.ResultTTL <= 0 {
		return fmt.Errorf("result TTL must be positive")
	}
	return nil
}

// ValidateStorageConfig validates object store settings when an endpoint
// is configured; a disabled store always validates
func ValidateStorageConfig(sc *StorageConfig) error {
	if !sc.Enabled() {
		return nil
	}

	// minio-go takes a bare host[:port]; a scheme prefix is the usual
	// misconfiguration
	if strings.Contains(sc.Endpoint, "://") {
		return fmt.Errorf("MINIO_ENDPOINT must be host[:port] without scheme, got %q", sc.Endpoint)
	}
	if sc.AccessKey == "" || sc.SecretKey == "" {
		return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}
	if sc.Bucket == "" {
		return fmt.Errorf("object store bucket is required")
	}

	return nil
}
