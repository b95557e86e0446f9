package whispercpp

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"audio-scribe/internal/app/engine"
)

func writeTestFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("stub"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func TestNewFromSettings(t *testing.T) {
	tests := []struct {
		name        string
		settings    map[string]interface{}
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid settings",
			settings: map[string]interface{}{
				"binary_path": "/usr/local/bin/whisper-cli",
				"model_path":  "/models/ggml-large-v3.bin",
				"language":    "en",
				"threads":     float64(8),
			},
			expectError: false,
		},
		{
			name: "missing binary_path",
			settings: map[string]interface{}{
				"model_path": "/models/ggml-large-v3.bin",
			},
			expectError: true,
			errorMsg:    "binary_path is required",
		},
		{
			name: "missing model_path",
			settings: map[string]interface{}{
				"binary_path": "/usr/local/bin/whisper-cli",
			},
			expectError: true,
			errorMsg:    "model_path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, err := NewFromSettings(tt.settings)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error message to contain %q, got %q", tt.errorMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				if eng == nil {
					t.Errorf("Expected engine but got nil")
				}
			}
		})
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	binary := writeTestFile(t, dir, "whisper-cli")
	model := writeTestFile(t, dir, "ggml-base.bin")

	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid config",
			config:      Config{BinaryPath: binary, ModelPath: model},
			expectError: false,
		},
		{
			name:        "missing binary",
			config:      Config{BinaryPath: filepath.Join(dir, "missing"), ModelPath: model},
			expectError: true,
			errorMsg:    "binary not found",
		},
		{
			name:        "missing model",
			config:      Config{BinaryPath: binary, ModelPath: filepath.Join(dir, "missing.bin")},
			expectError: true,
			errorMsg:    "model not found",
		},
		{
			name:        "empty binary path",
			config:      Config{ModelPath: model},
			expectError: true,
			errorMsg:    "binary_path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.config).Validate()

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error message to contain %q, got %q", tt.errorMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestBuildArgs(t *testing.T) {
	wc := New(Config{
		BinaryPath: "/usr/local/bin/whisper-cli",
		ModelPath:  "/models/ggml-base.bin",
		Language:   "en",
		Threads:    4,
	})

	args := wc.buildArgs(&engine.Request{
		Language:      "zh",
		Translate:     true,
		BeamSize:      5,
		InitialPrompt: "news broadcast",
	}, engine.ResponseSRT, "/tmp/in.wav", "/tmp/out")

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-m /models/ggml-base.bin",
		"-l zh",
		"-f /tmp/in.wav",
		"-of /tmp/out",
		"-osrt",
		"--prompt news broadcast",
		"-tr",
		"-bs 5",
		"-t 4",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
}

func TestBuildArgsDefaultsToAutoLanguage(t *testing.T) {
	wc := New(Config{BinaryPath: "/bin/w", ModelPath: "/m.bin"})
	args := wc.buildArgs(&engine.Request{}, engine.ResponseJSON, "/tmp/in.wav", "/tmp/out")

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-l auto") {
		t.Errorf("expected auto language detection, got: %s", joined)
	}
	if !strings.Contains(joined, "-oj") {
		t.Errorf("expected JSON output flag, got: %s", joined)
	}
}

func TestOutputFlagAndExtension(t *testing.T) {
	tests := []struct {
		format string
		flag   string
		ext    string
	}{
		{engine.ResponseJSON, "-oj", ".json"},
		{engine.ResponseVerboseJSON, "-ojf", ".json"},
		{engine.ResponseText, "-otxt", ".txt"},
		{engine.ResponseSRT, "-osrt", ".srt"},
		{engine.ResponseVTT, "-ovtt", ".vtt"},
		{"unknown", "-oj", ".json"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := outputFlag(tt.format); got != tt.flag {
				t.Errorf("outputFlag(%q) = %q, want %q", tt.format, got, tt.flag)
			}
			if got := outputExtension(tt.format); got != tt.ext {
				t.Errorf("outputExtension(%q) = %q, want %q", tt.format, got, tt.ext)
			}
		})
	}
}

func TestReadOutputJSONVerbatim(t *testing.T) {
	dir := t.TempDir()
	raw := `{"systeminfo":"AVX=1","result":{"language":"en"},"transcription":[{"text":" Hello"},{"text":" world."}]}`
	outputPath := filepath.Join(dir, "out.json")
	if err := os.WriteFile(outputPath, []byte(raw), 0644); err != nil {
		t.Fatalf("Failed to write output file: %v", err)
	}

	wc := New(Config{BinaryPath: "/bin/w", ModelPath: "/m.bin"})
	result, err := wc.readOutput(outputPath, engine.ResponseJSON)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !bytes.Equal(result.Payload, []byte(raw)) {
		t.Errorf("Payload altered:\n got: %s\nwant: %s", result.Payload, raw)
	}
	if result.Text != "Hello world." {
		t.Errorf("Text = %q, want %q", result.Text, "Hello world.")
	}
	if result.Language != "en" {
		t.Errorf("Language = %q, want %q", result.Language, "en")
	}
}

func TestReadOutputMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "out.json")
	if err := os.WriteFile(outputPath, []byte(`{"broken`), 0644); err != nil {
		t.Fatalf("Failed to write output file: %v", err)
	}

	wc := New(Config{BinaryPath: "/bin/w", ModelPath: "/m.bin"})
	_, err := wc.readOutput(outputPath, engine.ResponseJSON)
	if err == nil {
		t.Fatal("Expected error but got none")
	}
	engErr, ok := err.(*engine.Error)
	if !ok {
		t.Fatalf("Expected *engine.Error but got %T", err)
	}
	if engErr.Code != "invalid_response" {
		t.Errorf("Expected error code invalid_response, got %q", engErr.Code)
	}
}

func TestReadOutputSubtitle(t *testing.T) {
	dir := t.TempDir()
	srt := "1\n00:00:00,000 --> 00:00:02,000\nHello world.\n"
	outputPath := filepath.Join(dir, "out.srt")
	if err := os.WriteFile(outputPath, []byte(srt), 0644); err != nil {
		t.Fatalf("Failed to write output file: %v", err)
	}

	wc := New(Config{BinaryPath: "/bin/w", ModelPath: "/m.bin"})
	result, err := wc.readOutput(outputPath, engine.ResponseSRT)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := `"1\n00:00:00,000 --> 00:00:02,000\nHello world."`
	if string(result.Payload) != want {
		t.Errorf("Payload = %s, want %s", result.Payload, want)
	}
	if result.Text != "Hello world." {
		t.Errorf("Text = %q, want %q", result.Text, "Hello world.")
	}
}

func TestProbeNativeJSON(t *testing.T) {
	tests := []struct {
		name         string
		data         string
		wantText     string
		wantLanguage string
	}{
		{
			name:         "segments joined",
			data:         `{"result":{"language":"zh"},"transcription":[{"text":" 你好"},{"text":" 世界"}]}`,
			wantText:     "你好 世界",
			wantLanguage: "zh",
		},
		{
			name:     "empty transcription",
			data:     `{"result":{"language":""},"transcription":[]}`,
			wantText: "",
		},
		{
			name:     "not an object",
			data:     `[1,2,3]`,
			wantText: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, language := probeNativeJSON([]byte(tt.data))
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if language != tt.wantLanguage {
				t.Errorf("language = %q, want %q", language, tt.wantLanguage)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	wc := New(Config{BinaryPath: "/bin/w", ModelPath: "/models/ggml-large-v3.bin"})
	info := wc.Info()

	if info.Name != "whisper_cpp" {
		t.Errorf("Expected name 'whisper_cpp', got %q", info.Name)
	}
	if info.Type != engine.TypeLocal {
		t.Errorf("Expected type Local, got %v", info.Type)
	}
	if !info.RequiresBinary {
		t.Error("Expected RequiresBinary to be true")
	}
	if info.DefaultModel != "ggml-large-v3.bin" {
		t.Errorf("DefaultModel = %q, want ggml-large-v3.bin", info.DefaultModel)
	}
}
