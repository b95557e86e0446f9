package gemini

import (
	"strings"
	"testing"

	"audio-scribe/internal/app/engine"
)

func TestNewFromSettings(t *testing.T) {
	tests := []struct {
		name        string
		settings    map[string]interface{}
		expectError bool
	}{
		{
			name:     "valid settings",
			settings: map[string]interface{}{"api_key": "AIzaTest", "model": "gemini-2.5-flash"},
		},
		{
			name:        "missing api_key",
			settings:    map[string]interface{}{"model": "gemini-2.0-flash"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, err := NewFromSettings(tt.settings)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
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

func TestPromptFor(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		language  string
		translate bool
		contains  []string
	}{
		{
			name:     "json default",
			format:   engine.ResponseJSON,
			contains: []string{"Transcribe the audio", `{"text": "..."}`},
		},
		{
			name:     "srt asks for subtitle document",
			format:   engine.ResponseSRT,
			contains: []string{"SRT subtitle document"},
		},
		{
			name:     "vtt asks for header",
			format:   engine.ResponseVTT,
			contains: []string{"WEBVTT header"},
		},
		{
			name:     "language threaded through",
			format:   engine.ResponseJSON,
			language: "zh",
			contains: []string{`language "zh"`},
		},
		{
			name:      "translate requests English",
			format:    engine.ResponseText,
			translate: true,
			contains:  []string{"translate the transcript into English"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := promptFor(tt.format, tt.language, tt.translate)
			for _, want := range tt.contains {
				if !strings.Contains(prompt, want) {
					t.Errorf("prompt missing %q: %s", want, prompt)
				}
			}
		})
	}
}

func TestBuildResult(t *testing.T) {
	t.Run("json answer passes through", func(t *testing.T) {
		raw := `{"text":"Hello world.","language":"en"}`
		result, err := buildResult(raw, engine.ResponseJSON)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if string(result.Payload) != raw {
			t.Errorf("Payload = %s, want %s", result.Payload, raw)
		}
		if result.Text != "Hello world." {
			t.Errorf("Text = %q", result.Text)
		}
		if result.Language != "en" {
			t.Errorf("Language = %q", result.Language)
		}
	})

	t.Run("malformed json mode answer fails", func(t *testing.T) {
		_, err := buildResult(`not json at all`, engine.ResponseJSON)
		if err == nil {
			t.Fatal("Expected error but got none")
		}
		engErr, ok := err.(*engine.Error)
		if !ok {
			t.Fatalf("Expected *engine.Error but got %T", err)
		}
		if engErr.Code != "invalid_response" {
			t.Errorf("Code = %q, want invalid_response", engErr.Code)
		}
	})

	t.Run("empty answer fails", func(t *testing.T) {
		_, err := buildResult("   ", engine.ResponseText)
		if err == nil {
			t.Fatal("Expected error but got none")
		}
	})

	t.Run("srt answer becomes string payload", func(t *testing.T) {
		srt := "1\n00:00:00,000 --> 00:00:02,000\nHello world.\n"
		result, err := buildResult(srt, engine.ResponseSRT)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		want := `"1\n00:00:00,000 --> 00:00:02,000\nHello world."`
		if string(result.Payload) != want {
			t.Errorf("Payload = %s, want %s", result.Payload, want)
		}
		if result.Text != "Hello world." {
			t.Errorf("Text = %q", result.Text)
		}
	})
}

func TestMimeType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/tmp/a.wav", "audio/wav"},
		{"/tmp/a.mp3", "audio/mp3"},
		{"/tmp/a.flac", "audio/flac"},
		{"/tmp/a.ogg", "audio/ogg"},
		{"/tmp/a.m4a", "audio/mp4"},
		{"/tmp/a.webm", "audio/webm"},
		{"/tmp/a.xyz", "audio/wav"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := mimeType(tt.path); got != tt.want {
				t.Errorf("mimeType(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := New(Config{APIKey: "AIzaTest"}).Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := New(Config{}).Validate(); err == nil {
		t.Error("Expected error for missing API key")
	}
	if err := New(Config{APIKey: "AIzaTest", Temperature: 3.0}).Validate(); err == nil {
		t.Error("Expected error for out-of-range temperature")
	}
}
