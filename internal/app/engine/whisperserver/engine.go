package whisperserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"audio-scribe/internal/app/audio"
	"audio-scribe/internal/app/engine"
)

const engineName = "whisper_server"

// Config holds the whisper-server HTTP engine configuration.
type Config struct {
	BaseURL       string            `yaml:"base_url"`       // e.g. "http://192.168.1.100:8080"
	InferencePath string            `yaml:"inference_path"` // default "/inference"
	LoadPath      string            `yaml:"load_path"`      // default "/load"
	Timeout       time.Duration     `yaml:"timeout"`
	Language      string            `yaml:"language"`    // default language code
	Temperature   float32           `yaml:"temperature"` // 0.0-1.0
	Model         string            `yaml:"model"`       // advisory, the server owns its model
	CustomHeaders map[string]string `yaml:"custom_headers"`
}

// WhisperServer transcribes via HTTP against a whisper.cpp server-compatible
// inference endpoint. The response body is the engine's payload, verbatim.
type WhisperServer struct {
	config Config
	client *http.Client
}

// New creates a whisper-server engine.
func New(config Config) *WhisperServer {
	if config.InferencePath == "" {
		config.InferencePath = "/inference"
	}
	if config.LoadPath == "" {
		config.LoadPath = "/load"
	}
	if config.Timeout == 0 {
		config.Timeout = 300 * time.Second
	}
	if config.CustomHeaders == nil {
		config.CustomHeaders = make(map[string]string)
	}

	return &WhisperServer{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// NewFromSettings creates the engine from a generic settings map.
func NewFromSettings(settings map[string]interface{}) (engine.Engine, error) {
	config := Config{}

	if baseURL, ok := settings["base_url"].(string); ok {
		config.BaseURL = baseURL
	} else {
		return nil, fmt.Errorf("base_url is required")
	}

	if inferencePath, ok := settings["inference_path"].(string); ok {
		config.InferencePath = inferencePath
	}
	if loadPath, ok := settings["load_path"].(string); ok {
		config.LoadPath = loadPath
	}
	if timeout, ok := settings["timeout_sec"].(int); ok {
		config.Timeout = time.Duration(timeout) * time.Second
	} else if timeout, ok := settings["timeout_sec"].(float64); ok {
		config.Timeout = time.Duration(timeout) * time.Second
	}
	if language, ok := settings["language"].(string); ok {
		config.Language = language
	}
	if temperature, ok := settings["temperature"].(float64); ok {
		config.Temperature = float32(temperature)
	}
	if model, ok := settings["model"].(string); ok {
		config.Model = model
	}
	if headers, ok := settings["headers"].(map[string]string); ok {
		config.CustomHeaders = headers
	} else if headers, ok := settings["custom_headers"].(map[string]interface{}); ok {
		config.CustomHeaders = make(map[string]string)
		for k, v := range headers {
			if s, ok := v.(string); ok {
				config.CustomHeaders[k] = s
			}
		}
	}

	return New(config), nil
}

// Transcribe posts the audio file to the inference endpoint and returns the
// server's response untouched.
func (ws *WhisperServer) Transcribe(ctx context.Context, req *engine.Request) (*engine.Result, error) {
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

	body, contentType, err := ws.createMultipartForm(req, format)
	if err != nil {
		return nil, engine.NewError(engineName, "form_creation_failed", fmt.Sprintf("failed to create multipart form: %v", err))
	}

	url := ws.config.BaseURL + ws.config.InferencePath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, engine.NewError(engineName, "request_creation_failed", fmt.Sprintf("failed to create HTTP request: %v", err))
	}
	httpReq.Header.Set("Content-Type", contentType)
	for key, value := range ws.config.CustomHeaders {
		httpReq.Header.Set(key, value)
	}

	resp, err := ws.client.Do(httpReq)
	if err != nil {
		return nil, engine.NewError(engineName, "request_failed", fmt.Sprintf("HTTP request failed: %v", err))
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, engine.NewError(engineName, "response_read_failed", fmt.Sprintf("failed to read response: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, engine.NewError(engineName, "api_error", fmt.Sprintf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(responseData))))
	}

	return ws.buildResult(responseData, format)
}

// buildResult wraps the raw server response into a Result. JSON formats
// are carried verbatim; subtitle and plain-text formats become a JSON
// string payload holding the exact server output.
func (ws *WhisperServer) buildResult(data []byte, format string) (*engine.Result, error) {
	switch format {
	case engine.ResponseJSON, engine.ResponseVerboseJSON:
		if !json.Valid(data) {
			return nil, engine.NewError(engineName, "invalid_response", "server returned malformed JSON")
		}
		var probe struct {
			Text     string  `json:"text"`
			Language string  `json:"language"`
			Duration float64 `json:"duration"`
		}
		// Probe failure is tolerable: the payload still travels verbatim.
		_ = json.Unmarshal(data, &probe)
		return &engine.Result{
			Payload:     json.RawMessage(data),
			Text:        strings.TrimSpace(probe.Text),
			Language:    probe.Language,
			DurationSec: probe.Duration,
		}, nil

	case engine.ResponseText:
		content := strings.TrimSpace(string(data))
		return &engine.Result{
			Payload: engine.StringPayload(content),
			Text:    content,
		}, nil

	case engine.ResponseSRT, engine.ResponseVTT:
		content := strings.TrimSpace(string(data))
		return &engine.Result{
			Payload: engine.StringPayload(content),
			Text:    extractSubtitleText(content, format),
		}, nil

	default:
		// Unknown selectors were forwarded to the server as-is; mirror its
		// answer back the same way.
		if json.Valid(data) {
			return &engine.Result{
				Payload: json.RawMessage(data),
				Text:    engine.TextProbe(data),
			}, nil
		}
		content := strings.TrimSpace(string(data))
		return &engine.Result{
			Payload: engine.StringPayload(content),
			Text:    content,
		}, nil
	}
}

func (ws *WhisperServer) createMultipartForm(req *engine.Request, format string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	file, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %v", err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(req.AudioPath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %v", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to copy file content: %v", err)
	}

	params := map[string]string{
		"response_format": format,
		"temperature":     fmt.Sprintf("%.2f", ws.temperature(req)),
	}
	if language := ws.language(req); language != "" {
		params["language"] = language
	}
	if model := ws.model(req); model != "" {
		params["model"] = model
	}
	if req.Translate {
		params["translate"] = "true"
	}
	if req.InitialPrompt != "" {
		params["prompt"] = req.InitialPrompt
	}
	if req.BeamSize > 0 {
		params["beam_size"] = strconv.Itoa(req.BeamSize)
	}
	if req.BestOf > 0 {
		params["best_of"] = strconv.Itoa(req.BestOf)
	}
	if req.WordTimestamps {
		params["word_timestamps"] = "true"
	}
	if req.EnableVAD {
		params["vad_filter"] = "true"
	}

	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %v", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType(), nil
}

// extractSubtitleText flattens subtitle content to plain text, skipping
// sequence numbers, timestamps and the WEBVTT header.
func extractSubtitleText(content, format string) string {
	lines := strings.Split(content, "\n")
	var textLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, "-->") {
			continue
		}
		if format == engine.ResponseSRT && isNumeric(line) {
			continue
		}
		if format == engine.ResponseVTT && line == "WEBVTT" {
			continue
		}
		textLines = append(textLines, line)
	}

	return strings.Join(textLines, " ")
}

func isNumeric(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func (ws *WhisperServer) language(req *engine.Request) string {
	if req != nil && req.Language != "" {
		return req.Language
	}
	return ws.config.Language
}

func (ws *WhisperServer) temperature(req *engine.Request) float32 {
	if req != nil && req.Temperature > 0 {
		return req.Temperature
	}
	return ws.config.Temperature
}

func (ws *WhisperServer) model(req *engine.Request) string {
	if req != nil && req.Model != "" {
		return req.Model
	}
	return ws.config.Model
}

func engineFormats() []audio.Format {
	return []audio.Format{
		audio.FormatWAV,
		audio.FormatMP3,
		audio.FormatFLAC,
		audio.FormatOGG,
		audio.FormatM4A,
		audio.FormatWebM,
	}
}

// Info returns engine metadata.
func (ws *WhisperServer) Info() engine.Info {
	return engine.Info{
		Name:             engineName,
		DisplayName:      "Whisper Server (HTTP API)",
		Type:             engine.TypeRemote,
		Version:          "1.0.0",
		SupportedFormats: engineFormats(),
		RequiresInternet: true,
		RequiresAPIKey:   false,
		RequiresBinary:   false,
		DefaultModel:     ws.config.Model,
	}
}

// Validate checks the configuration.
func (ws *WhisperServer) Validate() error {
	if ws.config.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if !strings.HasPrefix(ws.config.BaseURL, "http://") && !strings.HasPrefix(ws.config.BaseURL, "https://") {
		return fmt.Errorf("base_url must start with http:// or https://")
	}
	if ws.config.Temperature < 0.0 || ws.config.Temperature > 1.0 {
		return fmt.Errorf("temperature must be between 0.0 and 1.0")
	}
	return nil
}

// HealthCheck verifies the server answers at all. A 503 still counts as
// reachable, proxies in front of whisper-server produce it while the
// model is loading.
func (ws *WhisperServer) HealthCheck(ctx context.Context) error {
	if err := ws.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ws.config.BaseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}
	for key, value := range ws.config.CustomHeaders {
		req.Header.Set(key, value)
	}

	resp, err := ws.client.Do(req)
	if err != nil {
		return fmt.Errorf("server connectivity test failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 && resp.StatusCode != http.StatusServiceUnavailable {
		return fmt.Errorf("server returned error status: %d", resp.StatusCode)
	}
	return nil
}
