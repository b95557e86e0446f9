package engine

import (
	"bytes"
	"encoding/json"

	"audio-scribe/internal/app/audio"
)

// Type classifies where an engine runs.
type Type string

const (
	TypeLocal  Type = "local"
	TypeRemote Type = "remote"
)

// Response format selectors passed through to engines. Engines translate
// these to whatever their backing service expects; a selector an engine
// does not support is the engine's error to raise, not the worker's.
const (
	ResponseJSON        = "json"
	ResponseVerboseJSON = "verbose_json"
	ResponseText        = "text"
	ResponseSRT         = "srt"
	ResponseVTT         = "vtt"
)

// Request carries one transcription call. Options are forwarded to the
// engine verbatim; the worker validates none of them.
type Request struct {
	// AudioPath is the temporary artifact holding the decoded audio. Its
	// extension names the container format.
	AudioPath string `json:"audio_path"`

	Model          string  `json:"model,omitempty"`
	ResponseFormat string  `json:"response_format,omitempty"`
	Language       string  `json:"language,omitempty"`
	Translate      bool    `json:"translate,omitempty"`
	Temperature    float32 `json:"temperature,omitempty"`
	BeamSize       int     `json:"beam_size,omitempty"`
	BestOf         int     `json:"best_of,omitempty"`
	InitialPrompt  string  `json:"initial_prompt,omitempty"`
	WordTimestamps bool    `json:"word_timestamps,omitempty"`
	EnableVAD      bool    `json:"enable_vad,omitempty"`
}

// Result is what an engine hands back.
//
// Payload is the engine's structured output exactly as the backing library
// or service produced it. The worker returns it to callers untouched; it
// is never parsed, re-keyed or re-ordered downstream. Text is extracted by
// the engine itself for bookkeeping (ledger rows, progress display) so
// nothing outside the engine ever has to look inside Payload.
type Result struct {
	Payload  json.RawMessage `json:"payload"`
	Text     string          `json:"text"`
	Language string          `json:"language,omitempty"`

	// DurationSec is the audio length as reported by the engine, zero when
	// the engine does not report one.
	DurationSec float64 `json:"duration_sec,omitempty"`
}

// Info describes an engine's identity and capabilities.
type Info struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Type        Type   `json:"type"`
	Version     string `json:"version,omitempty"`

	SupportedFormats []audio.Format `json:"supported_formats"`

	RequiresInternet bool `json:"requires_internet"`
	RequiresAPIKey   bool `json:"requires_api_key"`
	RequiresBinary   bool `json:"requires_binary"`

	DefaultModel    string   `json:"default_model,omitempty"`
	AvailableModels []string `json:"available_models,omitempty"`
}

// Error is an engine-originated failure. Message carries the backing
// library's own message verbatim; it is reported to callers unmasked.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Engine  string `json:"engine"`
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds an engine error preserving the given message.
func NewError(engineName, code, message string) *Error {
	return &Error{Code: code, Message: message, Engine: engineName}
}

// StringPayload encodes plain engine output (subtitle text, bare
// transcripts) as a JSON string payload. HTML escaping is off so subtitle
// arrows ("-->") survive as written.
func StringPayload(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return json.RawMessage(`""`)
	}
	// Encode appends a newline.
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n"))
}

// TextProbe pulls the top-level text field out of a JSON payload for
// bookkeeping. It deliberately decodes nothing else.
func TextProbe(payload json.RawMessage) string {
	var probe struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return ""
	}
	return probe.Text
}
