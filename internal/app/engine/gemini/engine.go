package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"

	"audio-scribe/internal/app/audio"
	"audio-scribe/internal/app/engine"
)

const engineName = "gemini"

// Gemini inline requests cap out at 20MB; larger files need the Files API.
const maxInlineBytes = 20 * 1024 * 1024

// Config holds the Gemini engine configuration.
type Config struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// Gemini transcribes by sending the audio inline to a Gemini model. For
// JSON response formats the model is asked for a JSON document, which then
// travels through as the payload unchanged.
type Gemini struct {
	config Config
}

// New creates a Gemini engine.
func New(config Config) *Gemini {
	if config.Model == "" {
		config.Model = "gemini-2.0-flash"
	}
	return &Gemini{config: config}
}

// NewFromSettings creates the engine from a generic settings map.
func NewFromSettings(settings map[string]interface{}) (engine.Engine, error) {
	config := Config{}

	if apiKey, ok := settings["api_key"].(string); ok {
		config.APIKey = apiKey
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("api_key is required")
	}

	if model, ok := settings["model"].(string); ok {
		config.Model = model
	}
	if temperature, ok := settings["temperature"].(float64); ok {
		config.Temperature = float32(temperature)
	}

	return New(config), nil
}

// Transcribe sends the audio with a transcription instruction and wraps the
// model's answer.
func (g *Gemini) Transcribe(ctx context.Context, req *engine.Request) (*engine.Result, error) {
	if req.AudioPath == "" {
		return nil, engine.NewError(engineName, "invalid_input", "audio path is required")
	}

	data, err := os.ReadFile(req.AudioPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, engine.NewError(engineName, "file_not_found", fmt.Sprintf("audio file not found: %s", req.AudioPath))
		}
		return nil, engine.NewError(engineName, "file_read_failed", fmt.Sprintf("failed to read audio file: %v", err))
	}
	if len(data) > maxInlineBytes {
		return nil, engine.NewError(engineName, "file_too_large", fmt.Sprintf("audio file is %d bytes, inline Gemini requests cap at %d", len(data), maxInlineBytes))
	}

	format := req.ResponseFormat
	if format == "" {
		format = engine.ResponseJSON
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, engine.NewError(engineName, "client_creation_failed", fmt.Sprintf("failed to create Gemini client: %v", err))
	}

	parts := []*genai.Part{
		genai.NewPartFromText(promptFor(format, req.Language, req.Translate)),
		genai.NewPartFromBytes(data, mimeType(req.AudioPath)),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	config := &genai.GenerateContentConfig{}
	if temperature := g.temperature(req); temperature > 0 {
		config.Temperature = genai.Ptr(temperature)
	}
	if isJSONFormat(format) {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := client.Models.GenerateContent(ctx, g.model(req), contents, config)
	if err != nil {
		return nil, engine.NewError(engineName, "api_error", fmt.Sprintf("Gemini API error: %v", err))
	}

	return buildResult(resp.Text(), format)
}

// buildResult wraps the model's answer. JSON-mode answers must already be
// valid JSON; anything else is the model misbehaving.
func buildResult(answer, format string) (*engine.Result, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, engine.NewError(engineName, "empty_response", "Gemini returned no transcription")
	}

	if isJSONFormat(format) {
		if !json.Valid([]byte(answer)) {
			return nil, engine.NewError(engineName, "invalid_response", "Gemini returned malformed JSON in JSON mode")
		}
		var probe struct {
			Text     string `json:"text"`
			Language string `json:"language"`
		}
		_ = json.Unmarshal([]byte(answer), &probe)
		return &engine.Result{
			Payload:  json.RawMessage(answer),
			Text:     strings.TrimSpace(probe.Text),
			Language: probe.Language,
		}, nil
	}

	return &engine.Result{
		Payload: engine.StringPayload(answer),
		Text:    flattenText(answer, format),
	}, nil
}

// promptFor builds the transcription instruction for one request.
func promptFor(format, language string, translate bool) string {
	var sb strings.Builder

	if translate {
		sb.WriteString("Transcribe the audio and translate the transcript into English.")
	} else {
		sb.WriteString("Transcribe the audio exactly as spoken.")
	}
	if language != "" && !translate {
		fmt.Fprintf(&sb, " The audio is in language %q.", language)
	}

	switch format {
	case engine.ResponseSRT:
		sb.WriteString(" Reply with a complete SRT subtitle document and nothing else.")
	case engine.ResponseVTT:
		sb.WriteString(" Reply with a complete WebVTT subtitle document starting with the WEBVTT header and nothing else.")
	case engine.ResponseText:
		sb.WriteString(" Reply with the transcript text only, no commentary.")
	case engine.ResponseVerboseJSON:
		sb.WriteString(` Reply with a JSON object of the form {"text": "...", "language": "...", "segments": [{"start": 0.0, "end": 0.0, "text": "..."}]}.`)
	default:
		sb.WriteString(` Reply with a JSON object of the form {"text": "..."}.`)
	}

	return sb.String()
}

func isJSONFormat(format string) bool {
	switch format {
	case engine.ResponseText, engine.ResponseSRT, engine.ResponseVTT:
		return false
	default:
		return true
	}
}

// flattenText reduces subtitle answers to plain text for bookkeeping.
func flattenText(content, format string) string {
	if format == engine.ResponseText {
		return content
	}

	var textLines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "-->") || line == "WEBVTT" {
			continue
		}
		if format == engine.ResponseSRT && isNumeric(line) {
			continue
		}
		textLines = append(textLines, line)
	}
	return strings.Join(textLines, " ")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// mimeType maps the audio file extension to the MIME type Gemini expects.
func mimeType(path string) string {
	format, err := audio.ParseFormat(filepath.Ext(path))
	if err != nil {
		return "audio/wav"
	}
	switch format {
	case audio.FormatMP3:
		return "audio/mp3"
	case audio.FormatFLAC:
		return "audio/flac"
	case audio.FormatOGG:
		return "audio/ogg"
	case audio.FormatM4A:
		return "audio/mp4"
	case audio.FormatWebM:
		return "audio/webm"
	default:
		return "audio/wav"
	}
}

func (g *Gemini) model(req *engine.Request) string {
	if req.Model != "" {
		return req.Model
	}
	return g.config.Model
}

func (g *Gemini) temperature(req *engine.Request) float32 {
	if req.Temperature > 0 {
		return req.Temperature
	}
	return g.config.Temperature
}

// Info returns engine metadata.
func (g *Gemini) Info() engine.Info {
	return engine.Info{
		Name:        engineName,
		DisplayName: "Google Gemini",
		Type:        engine.TypeRemote,
		Version:     "1.0.0",
		SupportedFormats: []audio.Format{
			audio.FormatWAV,
			audio.FormatMP3,
			audio.FormatFLAC,
			audio.FormatOGG,
		},
		RequiresInternet: true,
		RequiresAPIKey:   true,
		RequiresBinary:   false,
		DefaultModel:     g.config.Model,
		AvailableModels:  []string{"gemini-2.0-flash", "gemini-2.0-flash-lite", "gemini-2.5-flash", "gemini-2.5-pro"},
	}
}

// Validate checks the configuration.
func (g *Gemini) Validate() error {
	if g.config.APIKey == "" {
		return fmt.Errorf("Gemini API key is required")
	}
	if g.config.Temperature < 0 || g.config.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0.0 and 2.0")
	}
	return nil
}

// HealthCheck validates the configuration. A live probe would spend quota,
// so reachability is left to the first real call.
func (g *Gemini) HealthCheck(ctx context.Context) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
