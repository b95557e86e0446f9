package handler

import (
	"encoding/json"
	"time"

	"audio-scribe/internal/app/audio"
	"audio-scribe/internal/app/engine"
)

// Error kinds reported on the job response.
const (
	KindInvalidInput = "invalid_input"
	KindDecodeError  = "decode_error"
	KindFormatError  = "format_error"
	KindFetchError   = "fetch_error"
	KindIOError      = "io_error"
	KindEngineError  = "engine_error"
	KindInternal     = "internal_error"
)

// Input is the payload of one transcription job. Exactly one of AudioBase64
// and AudioURL must be set. Transcription options are forwarded to the
// engine as given; the worker validates none of them.
type Input struct {
	// AudioBase64 is the audio container bytes, base64 encoded. A data URI
	// prefix is tolerated and stripped.
	AudioBase64 string `json:"audio_base64,omitempty"`

	// AudioURL is an alternative to AudioBase64: a direct media URL or a
	// page carrying an og:audio reference.
	AudioURL string `json:"audio,omitempty"`

	// AudioFormat optionally declares the container format. The bytes are
	// still sniffed; a declaration conflicting with the sniff is an error.
	AudioFormat string `json:"audio_format,omitempty"`

	// Engine selects a transcription engine by name, empty means the
	// deployment default.
	Engine string `json:"engine,omitempty"`

	Model         string `json:"model,omitempty"`
	Transcription string `json:"transcription,omitempty"`

	Language       string  `json:"language,omitempty"`
	Translate      bool    `json:"translate,omitempty"`
	Temperature    float32 `json:"temperature,omitempty"`
	BeamSize       int     `json:"beam_size,omitempty"`
	BestOf         int     `json:"best_of,omitempty"`
	InitialPrompt  string  `json:"initial_prompt,omitempty"`
	WordTimestamps bool    `json:"word_timestamps,omitempty"`
	EnableVAD      bool    `json:"enable_vad,omitempty"`
}

// ErrorInfo is the structured error of a failed job.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Engine  string `json:"engine,omitempty"`
}

// Output is the result of one job. Exactly one of Result and Error is set.
//
// Result is the engine's payload byte for byte; callers serialize it into
// their response untouched. The remaining fields are bookkeeping for the
// ledger and logs and never feed back into Result.
type Output struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ErrorInfo      `json:"error,omitempty"`

	Text        string        `json:"-"`
	Language    string        `json:"-"`
	DurationSec float64       `json:"-"`
	Engine      string        `json:"-"`
	Model       string        `json:"-"`
	Format      audio.Format  `json:"-"`
	Elapsed     time.Duration `json:"-"`
}

// Failed reports whether the job produced an error.
func (o *Output) Failed() bool {
	return o.Error != nil
}

// responseFormat maps the job's output selector to an engine response
// format. Unknown selectors travel through unchanged so the engine, not
// the worker, decides whether they are acceptable.
func responseFormat(selector string) string {
	switch selector {
	case "", "plain_text", "formatted_text":
		return engine.ResponseJSON
	case "json":
		return engine.ResponseJSON
	case "verbose_json":
		return engine.ResponseVerboseJSON
	case "text":
		return engine.ResponseText
	case "srt":
		return engine.ResponseSRT
	case "vtt":
		return engine.ResponseVTT
	default:
		return selector
	}
}

func failure(kind, message string) *Output {
	return &Output{Error: &ErrorInfo{Kind: kind, Message: message}}
}

func engineFailure(engineName string, err error) *Output {
	info := &ErrorInfo{Kind: KindEngineError, Message: err.Error(), Engine: engineName}
	if engErr, ok := err.(*engine.Error); ok {
		// Keep the backing library's message verbatim.
		info.Message = engErr.Message
		if engErr.Engine != "" {
			info.Engine = engErr.Engine
		}
	}
	return &Output{Error: info}
}
