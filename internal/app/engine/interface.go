package engine

import (
	"context"
)

// Engine is a transcription backend. Implementations own decoding,
// inference and result formatting; the worker only supplies an audio file
// whose extension correctly names its container format, plus options.
//
// A failed Transcribe is terminal for the invocation that issued it: no
// implementation retries internally, and no caller in this module retries
// on its behalf. Retry policy belongs to the platform invoking the worker.
type Engine interface {
	// Transcribe runs one synchronous transcription.
	Transcribe(ctx context.Context, req *Request) (*Result, error)

	// Info returns the engine's identity and capabilities.
	Info() Info

	// Validate checks that the engine's configuration is usable.
	Validate() error

	// HealthCheck verifies the engine can currently serve requests.
	HealthCheck(ctx context.Context) error
}
