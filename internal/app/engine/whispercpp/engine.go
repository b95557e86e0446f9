package whispercpp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"audio-scribe/internal/app/audio"
	"audio-scribe/internal/app/engine"
)

const engineName = "whisper_cpp"

// Config holds the whisper.cpp binary engine configuration.
type Config struct {
	BinaryPath  string  `yaml:"binary_path"`
	ModelPath   string  `yaml:"model_path"`
	Language    string  `yaml:"language"`
	Prompt      string  `yaml:"prompt"`
	Threads     int     `yaml:"threads"`
	Temperature float32 `yaml:"temperature"`
	TempDir     string  `yaml:"temp_dir"`
}

// WhisperCpp shells out to a whisper.cpp binary. The binary's output file
// is the engine's payload, read back verbatim.
type WhisperCpp struct {
	config Config
}

// New creates a whisper.cpp engine.
func New(config Config) *WhisperCpp {
	if config.TempDir == "" {
		config.TempDir = filepath.Join(os.TempDir(), "scribe-whispercpp")
	}
	return &WhisperCpp{config: config}
}

// NewFromSettings creates the engine from a generic settings map.
func NewFromSettings(settings map[string]interface{}) (engine.Engine, error) {
	config := Config{}

	if binaryPath, ok := settings["binary_path"].(string); ok {
		config.BinaryPath = binaryPath
	} else {
		return nil, fmt.Errorf("binary_path is required")
	}
	if modelPath, ok := settings["model_path"].(string); ok {
		config.ModelPath = modelPath
	} else {
		return nil, fmt.Errorf("model_path is required")
	}

	if language, ok := settings["language"].(string); ok {
		config.Language = language
	}
	if prompt, ok := settings["prompt"].(string); ok {
		config.Prompt = prompt
	}
	if threads, ok := settings["threads"].(int); ok {
		config.Threads = threads
	} else if threads, ok := settings["threads"].(float64); ok {
		config.Threads = int(threads)
	}
	if temperature, ok := settings["temperature"].(float64); ok {
		config.Temperature = float32(temperature)
	}
	if tempDir, ok := settings["temp_dir"].(string); ok {
		config.TempDir = tempDir
	}

	return New(config), nil
}

// Transcribe runs the binary against the audio file and reads its output
// file back as the payload.
func (wc *WhisperCpp) Transcribe(ctx context.Context, req *engine.Request) (*engine.Result, error) {
	if req.AudioPath == "" {
		return nil, engine.NewError(engineName, "invalid_input", "audio path is required")
	}
	if _, err := os.Stat(req.AudioPath); os.IsNotExist(err) {
		return nil, engine.NewError(engineName, "file_not_found", fmt.Sprintf("audio file not found: %s", req.AudioPath))
	}
	if err := os.MkdirAll(wc.config.TempDir, 0755); err != nil {
		return nil, engine.NewError(engineName, "temp_dir_error", fmt.Sprintf("failed to create temp directory: %v", err))
	}

	format := req.ResponseFormat
	if format == "" {
		format = engine.ResponseJSON
	}

	// whisper.cpp wants 16kHz mono WAV input.
	inputPath := req.AudioPath
	is16kHzWav, err := audio.Is16kHzWav(inputPath)
	if err != nil {
		return nil, engine.NewError(engineName, "audio_check_error", fmt.Sprintf("error checking input file: %v", err))
	}
	if !is16kHzWav {
		log.Printf("Input file is not a 16kHz WAV file, converting...")
		converted, err := audio.ConvertTo16kHzWav(inputPath)
		if err != nil {
			return nil, engine.NewError(engineName, "audio_conversion_error", fmt.Sprintf("error converting input file: %v", err))
		}
		defer os.Remove(converted)
		inputPath = converted
	}

	outputBase := filepath.Join(wc.config.TempDir, fmt.Sprintf("transcription_%d", time.Now().UnixNano()))
	args := wc.buildArgs(req, format, inputPath, outputBase)

	command := exec.CommandContext(ctx, wc.config.BinaryPath, args...)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	log.Printf("Running transcription command: %s %s", wc.config.BinaryPath, strings.Join(args, " "))

	if err := command.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, engine.NewError(engineName, "transcription_failed",
			fmt.Sprintf("command execution error: %v, stderr: %s", err, strings.TrimSpace(stderr.String())))
	}

	outputPath := outputBase + outputExtension(format)
	defer os.Remove(outputPath)

	return wc.readOutput(outputPath, format)
}

// buildArgs assembles the whisper.cpp command line for one request.
func (wc *WhisperCpp) buildArgs(req *engine.Request, format, inputPath, outputBase string) []string {
	language := wc.config.Language
	if req.Language != "" {
		language = req.Language
	}
	if language == "" {
		language = "auto"
	}
	prompt := wc.config.Prompt
	if req.InitialPrompt != "" {
		prompt = req.InitialPrompt
	}

	args := []string{
		"-m", wc.config.ModelPath,
		"-l", language,
		"-f", inputPath,
		"-of", outputBase,
		outputFlag(format),
	}

	if prompt != "" {
		args = append(args, "--prompt", prompt)
	}
	if req.Translate {
		args = append(args, "-tr")
	}
	if req.BeamSize > 0 {
		args = append(args, "-bs", strconv.Itoa(req.BeamSize))
	}
	if req.BestOf > 0 {
		args = append(args, "-bo", strconv.Itoa(req.BestOf))
	}
	if wc.config.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(wc.config.Threads))
	}
	temperature := wc.config.Temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}
	if temperature > 0 {
		args = append(args, "-tp", fmt.Sprintf("%.2f", temperature))
	}

	return args
}

// outputFlag maps a response format to the whisper.cpp output switch.
func outputFlag(format string) string {
	switch format {
	case engine.ResponseVerboseJSON:
		return "-ojf"
	case engine.ResponseText:
		return "-otxt"
	case engine.ResponseSRT:
		return "-osrt"
	case engine.ResponseVTT:
		return "-ovtt"
	default:
		return "-oj"
	}
}

// outputExtension maps a response format to the file suffix whisper.cpp
// appends to the -of base.
func outputExtension(format string) string {
	switch format {
	case engine.ResponseText:
		return ".txt"
	case engine.ResponseSRT:
		return ".srt"
	case engine.ResponseVTT:
		return ".vtt"
	default:
		return ".json"
	}
}

// readOutput loads the binary's output file into a Result. JSON output is
// kept byte for byte; text and subtitle output become string payloads.
func (wc *WhisperCpp) readOutput(outputPath, format string) (*engine.Result, error) {
	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, engine.NewError(engineName, "output_read_failed", fmt.Sprintf("failed to read output file: %v", err))
	}

	switch format {
	case engine.ResponseText, engine.ResponseSRT, engine.ResponseVTT:
		content := strings.TrimSpace(string(data))
		return &engine.Result{
			Payload: engine.StringPayload(content),
			Text:    flattenText(content, format),
		}, nil
	default:
		if !json.Valid(data) {
			return nil, engine.NewError(engineName, "invalid_response", "binary produced malformed JSON output")
		}
		text, language := probeNativeJSON(data)
		return &engine.Result{
			Payload:  json.RawMessage(data),
			Text:     text,
			Language: language,
		}, nil
	}
}

// probeNativeJSON pulls the transcript text and language out of whisper.cpp
// JSON output for bookkeeping. The payload itself stays untouched.
func probeNativeJSON(data []byte) (string, string) {
	var probe struct {
		Result struct {
			Language string `json:"language"`
		} `json:"result"`
		Transcription []struct {
			Text string `json:"text"`
		} `json:"transcription"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", ""
	}

	var parts []string
	for _, segment := range probe.Transcription {
		if trimmed := strings.TrimSpace(segment.Text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " "), probe.Result.Language
}

// flattenText reduces subtitle output to plain text for bookkeeping.
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
		if format == engine.ResponseSRT {
			if _, err := strconv.Atoi(line); err == nil {
				continue
			}
		}
		textLines = append(textLines, line)
	}
	return strings.Join(textLines, " ")
}

// Info returns engine metadata.
func (wc *WhisperCpp) Info() engine.Info {
	return engine.Info{
		Name:        engineName,
		DisplayName: "Whisper.cpp (Local)",
		Type:        engine.TypeLocal,
		Version:     "1.0.0",
		SupportedFormats: []audio.Format{
			audio.FormatWAV,
			audio.FormatMP3,
			audio.FormatM4A,
			audio.FormatFLAC,
			audio.FormatOGG,
		},
		RequiresInternet: false,
		RequiresAPIKey:   false,
		RequiresBinary:   true,
		DefaultModel:     filepath.Base(wc.config.ModelPath),
		AvailableModels: []string{
			"ggml-tiny.bin", "ggml-base.bin", "ggml-small.bin",
			"ggml-medium.bin", "ggml-large-v2.bin", "ggml-large-v3.bin",
		},
	}
}

// Validate checks that the binary and model are present.
func (wc *WhisperCpp) Validate() error {
	if wc.config.BinaryPath == "" {
		return fmt.Errorf("binary_path is required")
	}
	if _, err := os.Stat(wc.config.BinaryPath); os.IsNotExist(err) {
		return fmt.Errorf("whisper.cpp binary not found at %s", wc.config.BinaryPath)
	}
	if wc.config.ModelPath == "" {
		return fmt.Errorf("model_path is required")
	}
	if _, err := os.Stat(wc.config.ModelPath); os.IsNotExist(err) {
		return fmt.Errorf("whisper model not found at %s", wc.config.ModelPath)
	}
	return nil
}

// HealthCheck verifies the binary and model exist and the temp directory
// is writable.
func (wc *WhisperCpp) HealthCheck(ctx context.Context) error {
	if err := wc.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := os.MkdirAll(wc.config.TempDir, 0755); err != nil {
		return fmt.Errorf("cannot create temp directory %s: %v", wc.config.TempDir, err)
	}
	return nil
}
