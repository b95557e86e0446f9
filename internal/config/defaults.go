package config

import "time"

// Component default configuration constants
const (
	// Server defaults. Write timeout is generous: a synchronous job holds
	// the response open for the whole engine call.
	DefaultHTTPPort        = "8000"
	DefaultReadTimeout     = 5 * time.Minute
	DefaultWriteTimeout    = 15 * time.Minute
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	// Queue defaults
	DefaultRedisAddr   = "localhost:6379"
	DefaultResultTTL   = 24 * time.Hour
	DefaultPollTimeout = 5 * time.Second

	// Object store defaults
	DefaultResultBucket = "scribe-results"

	// Batch defaults
	DefaultBatchConcurrency = 2
)
