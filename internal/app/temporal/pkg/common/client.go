package common

import (
	"fmt"
	"os"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
)

// Defaults for a local Temporal dev server.
const (
	DefaultTemporalHost = "localhost:7233"
	DefaultNamespace    = "default"
	DefaultTaskQueue    = "scribe-transcription"
)

// TemporalConfig holds Temporal client configuration
type TemporalConfig struct {
	HostPort  string
	Namespace string
	TaskQueue string
}

// DefaultTemporalConfig returns default Temporal configuration
func DefaultTemporalConfig() TemporalConfig {
	return TemporalConfig{
		HostPort:  GetEnv("TEMPORAL_HOST", DefaultTemporalHost),
		Namespace: GetEnv("TEMPORAL_NAMESPACE", DefaultNamespace),
		TaskQueue: GetEnv("TEMPORAL_TASK_QUEUE", DefaultTaskQueue),
	}
}

// NewTemporalClient creates a new Temporal client with the given
// configuration. A non-nil logger routes the SDK's own logging through
// zap.
func NewTemporalClient(config TemporalConfig, logger *zap.Logger) (client.Client, error) {
	options := client.Options{
		HostPort:  config.HostPort,
		Namespace: config.Namespace,
	}
	if logger != nil {
		options.Logger = NewZapAdapter(logger)
	}

	c, err := client.Dial(options)
	if err != nil {
		return nil, fmt.Errorf("failed to create Temporal client: %w", err)
	}
	return c, nil
}

// GetEnv gets an environment variable with a default.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
