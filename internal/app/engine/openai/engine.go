package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"audio-scribe/internal/app/audio"
	"audio-scribe/internal/app/engine"
)

const engineName = "openai"

// Config holds the OpenAI Whisper API engine configuration.
type Config struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Language    string  `yaml:"language"`
	Temperature float32 `yaml:"temperature"`
	Prompt      string  `yaml:"prompt"`
	BaseURL     string  `yaml:"base_url"`
}

// Whisper transcribes through the OpenAI audio API via go-openai.
type Whisper struct {
	config Config
	client *openai.Client
}

// New creates an OpenAI engine.
func New(config Config) *Whisper {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.Model == "" {
		config.Model = string(openai.Whisper1)
	}

	return &Whisper{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
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
	if language, ok := settings["language"].(string); ok {
		config.Language = language
	}
	if temperature, ok := settings["temperature"].(float64); ok {
		config.Temperature = float32(temperature)
	}
	if prompt, ok := settings["prompt"].(string); ok {
		config.Prompt = prompt
	}
	if baseURL, ok := settings["base_url"].(string); ok {
		config.BaseURL = baseURL
	}

	return New(config), nil
}

// Transcribe calls the OpenAI audio API and shapes the result to mirror the
// upstream wire format for the requested response format.
func (w *Whisper) Transcribe(ctx context.Context, req *engine.Request) (*engine.Result, error) {
	if req.AudioPath == "" {
		return nil, engine.NewError(engineName, "invalid_input", "audio path is required")
	}
	if _, err := os.Stat(req.AudioPath); os.IsNotExist(err) {
		return nil, engine.NewError(engineName, "file_not_found", fmt.Sprintf("audio file not found: %s", req.AudioPath))
	}

	format := req.ResponseFormat
	if format == "" {
		format = engine.ResponseJSON
	}

	audioRequest := openai.AudioRequest{
		Model:       w.model(req),
		FilePath:    req.AudioPath,
		Language:    w.language(req),
		Prompt:      w.prompt(req),
		Temperature: w.temperature(req),
		Format:      apiFormat(format),
	}
	if req.WordTimestamps {
		audioRequest.TimestampGranularities = []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularitySegment,
			openai.TranscriptionTimestampGranularityWord,
		}
	}

	resp, err := w.client.CreateTranscription(ctx, audioRequest)
	if err != nil {
		return nil, w.handleAPIError(err)
	}

	return buildResult(&resp, format)
}

// buildResult shapes the library response into a payload matching what the
// API itself emits for the requested format.
func buildResult(resp *openai.AudioResponse, format string) (*engine.Result, error) {
	switch format {
	case engine.ResponseText, engine.ResponseSRT, engine.ResponseVTT:
		// go-openai carries the raw document in Text for these formats.
		content := strings.TrimSpace(resp.Text)
		return &engine.Result{
			Payload:  engine.StringPayload(content),
			Text:     content,
			Language: resp.Language,
		}, nil

	case engine.ResponseVerboseJSON:
		payload, err := json.Marshal(resp)
		if err != nil {
			return nil, engine.NewError(engineName, "invalid_response", fmt.Sprintf("failed to encode response: %v", err))
		}
		return &engine.Result{
			Payload:     json.RawMessage(payload),
			Text:        strings.TrimSpace(resp.Text),
			Language:    resp.Language,
			DurationSec: resp.Duration,
		}, nil

	default:
		payload, err := json.Marshal(struct {
			Text string `json:"text"`
		}{Text: resp.Text})
		if err != nil {
			return nil, engine.NewError(engineName, "invalid_response", fmt.Sprintf("failed to encode response: %v", err))
		}
		return &engine.Result{
			Payload:     json.RawMessage(payload),
			Text:        strings.TrimSpace(resp.Text),
			Language:    resp.Language,
			DurationSec: resp.Duration,
		}, nil
	}
}

func apiFormat(format string) openai.AudioResponseFormat {
	switch format {
	case engine.ResponseVerboseJSON:
		return openai.AudioResponseFormatVerboseJSON
	case engine.ResponseText:
		return openai.AudioResponseFormatText
	case engine.ResponseSRT:
		return openai.AudioResponseFormatSRT
	case engine.ResponseVTT:
		return openai.AudioResponseFormatVTT
	default:
		return openai.AudioResponseFormatJSON
	}
}

func (w *Whisper) model(req *engine.Request) string {
	if req.Model != "" {
		return req.Model
	}
	return w.config.Model
}

func (w *Whisper) language(req *engine.Request) string {
	if req.Language != "" {
		return req.Language
	}
	return w.config.Language
}

func (w *Whisper) prompt(req *engine.Request) string {
	if req.InitialPrompt != "" {
		return req.InitialPrompt
	}
	return w.config.Prompt
}

func (w *Whisper) temperature(req *engine.Request) float32 {
	if req.Temperature > 0 {
		return req.Temperature
	}
	return w.config.Temperature
}

// handleAPIError converts OpenAI API errors to engine errors, keeping the
// upstream message.
func (w *Whisper) handleAPIError(err error) error {
	if apiErr, ok := err.(*openai.APIError); ok {
		switch apiErr.HTTPStatusCode {
		case 401:
			return engine.NewError(engineName, "authentication_failed", "OpenAI API key is invalid or missing")
		case 429:
			return engine.NewError(engineName, "rate_limit_exceeded", "OpenAI API rate limit exceeded")
		case 413:
			return engine.NewError(engineName, "file_too_large", "audio file is too large for OpenAI API")
		case 400:
			return engine.NewError(engineName, "invalid_file", fmt.Sprintf("OpenAI rejected the request: %v", apiErr.Message))
		default:
			return engine.NewError(engineName, "api_error", fmt.Sprintf("OpenAI API error: %v", apiErr.Message))
		}
	}
	return engine.NewError(engineName, "unknown_error", fmt.Sprintf("transcription failed: %v", err))
}

// Info returns engine metadata.
func (w *Whisper) Info() engine.Info {
	return engine.Info{
		Name:        engineName,
		DisplayName: "OpenAI Whisper API",
		Type:        engine.TypeRemote,
		Version:     "1.0.0",
		SupportedFormats: []audio.Format{
			audio.FormatMP3,
			audio.FormatM4A,
			audio.FormatWAV,
			audio.FormatWebM,
			audio.FormatFLAC,
			audio.FormatOGG,
		},
		RequiresInternet: true,
		RequiresAPIKey:   true,
		RequiresBinary:   false,
		DefaultModel:     w.config.Model,
		AvailableModels:  []string{"whisper-1", "gpt-4o-transcribe", "gpt-4o-mini-transcribe"},
	}
}

// Validate checks the configuration.
func (w *Whisper) Validate() error {
	if w.config.APIKey == "" {
		return fmt.Errorf("OpenAI API key is required")
	}
	// Compatible endpoints issue their own key shapes, only enforce the
	// prefix when talking to api.openai.com itself.
	if w.config.BaseURL == "" && !strings.HasPrefix(w.config.APIKey, "sk-") {
		return fmt.Errorf("OpenAI API key should start with 'sk-'")
	}
	if w.config.Temperature < 0 || w.config.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0.0 and 1.0")
	}
	return nil
}

// HealthCheck validates config and lists models as a connectivity probe.
func (w *Whisper) HealthCheck(ctx context.Context) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}

	if _, err := w.client.ListModels(ctx); err != nil {
		return fmt.Errorf("OpenAI API health check failed: %w", err)
	}
	return nil
}
