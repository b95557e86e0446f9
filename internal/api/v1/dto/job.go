package dto

import (
	"encoding/json"

	"audio-scribe/internal/api/errors"
	"audio-scribe/internal/app/handler"
)

// JobRequest is the body of /v1/run and /v1/runsync: the worker input
// wrapped in an "input" envelope. No binding tags on the inner fields;
// the worker core owns input validation and reports violations as
// invalid_input job failures, not HTTP 4xx.
type JobRequest struct {
	Input handler.Input `json:"input"`
}

// Validate rejects bodies whose envelope is present but empty. Everything
// beyond this is the worker's call.
func (r *JobRequest) Validate() error {
	if r.Input.AudioBase64 == "" && r.Input.AudioURL == "" {
		return errors.NewValidationError("invalid job request", map[string]string{
			"input": "either audio_base64 or audio must be set",
		})
	}
	return nil
}

// JobResponse is the platform job envelope used by every job endpoint.
// Output carries the engine payload verbatim; DelayTime and ExecutionTime
// are milliseconds.
type JobResponse struct {
	ID            string             `json:"id"`
	Status        string             `json:"status"`
	Output        json.RawMessage    `json:"output,omitempty"`
	Error         *handler.ErrorInfo `json:"error,omitempty"`
	DelayTime     int64              `json:"delayTime,omitempty"`
	ExecutionTime int64              `json:"executionTime,omitempty"`

	// ResultURL is a presigned object-store link to the stored payload,
	// present only when an object store is configured.
	ResultURL string `json:"resultUrl,omitempty"`
}

// PurgeResponse reports how many queued jobs a purge removed.
type PurgeResponse struct {
	Removed int64 `json:"removed"`
}
