package openai

import (
	"errors"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"

	"audio-scribe/internal/app/engine"
)

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
				"api_key":     "sk-test123",
				"model":       "whisper-1",
				"language":    "en",
				"temperature": 0.2,
			},
			expectError: false,
		},
		{
			name:        "missing api_key",
			settings:    map[string]interface{}{"model": "whisper-1"},
			expectError: true,
			errorMsg:    "api_key is required",
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
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid key",
			config:      Config{APIKey: "sk-test123"},
			expectError: false,
		},
		{
			name:        "missing key",
			config:      Config{},
			expectError: true,
			errorMsg:    "API key is required",
		},
		{
			name:        "wrong prefix against openai.com",
			config:      Config{APIKey: "token-abc"},
			expectError: true,
			errorMsg:    "should start with 'sk-'",
		},
		{
			name:        "custom endpoint allows any key shape",
			config:      Config{APIKey: "token-abc", BaseURL: "http://localhost:8000/v1"},
			expectError: false,
		},
		{
			name:        "temperature out of range",
			config:      Config{APIKey: "sk-test123", Temperature: 1.5},
			expectError: true,
			errorMsg:    "temperature must be between",
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

func TestBuildResult(t *testing.T) {
	resp := &openai.AudioResponse{
		Task:     "transcribe",
		Language: "english",
		Duration: 5.2,
		Text:     "Hello world.",
	}

	t.Run("json mirrors upstream shape", func(t *testing.T) {
		result, err := buildResult(resp, engine.ResponseJSON)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if string(result.Payload) != `{"text":"Hello world."}` {
			t.Errorf("Payload = %s, want {\"text\":\"Hello world.\"}", result.Payload)
		}
		if result.Text != "Hello world." {
			t.Errorf("Text = %q", result.Text)
		}
		if result.DurationSec != 5.2 {
			t.Errorf("DurationSec = %v, want 5.2", result.DurationSec)
		}
	})

	t.Run("verbose_json carries full response", func(t *testing.T) {
		result, err := buildResult(resp, engine.ResponseVerboseJSON)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		payload := string(result.Payload)
		for _, want := range []string{`"task":"transcribe"`, `"language":"english"`, `"text":"Hello world."`} {
			if !strings.Contains(payload, want) {
				t.Errorf("Payload missing %s: %s", want, payload)
			}
		}
	})

	t.Run("srt becomes string payload", func(t *testing.T) {
		srtResp := &openai.AudioResponse{Text: "1\n00:00:00,000 --> 00:00:05,000\nHello world.\n"}
		result, err := buildResult(srtResp, engine.ResponseSRT)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		want := `"1\n00:00:00,000 --> 00:00:05,000\nHello world."`
		if string(result.Payload) != want {
			t.Errorf("Payload = %s, want %s", result.Payload, want)
		}
	})
}

func TestHandleAPIError(t *testing.T) {
	w := New(Config{APIKey: "sk-test123"})

	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "authentication failure",
			err:      &openai.APIError{HTTPStatusCode: 401, Message: "bad key"},
			wantCode: "authentication_failed",
		},
		{
			name:     "rate limited",
			err:      &openai.APIError{HTTPStatusCode: 429, Message: "slow down"},
			wantCode: "rate_limit_exceeded",
		},
		{
			name:     "payload too large",
			err:      &openai.APIError{HTTPStatusCode: 413, Message: "too big"},
			wantCode: "file_too_large",
		},
		{
			name:     "bad request",
			err:      &openai.APIError{HTTPStatusCode: 400, Message: "unsupported file"},
			wantCode: "invalid_file",
		},
		{
			name:     "server error",
			err:      &openai.APIError{HTTPStatusCode: 500, Message: "boom"},
			wantCode: "api_error",
		},
		{
			name:     "plain error",
			err:      errors.New("network down"),
			wantCode: "unknown_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.handleAPIError(tt.err)
			engErr, ok := err.(*engine.Error)
			if !ok {
				t.Fatalf("Expected *engine.Error but got %T", err)
			}
			if engErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", engErr.Code, tt.wantCode)
			}
			if engErr.Engine != "openai" {
				t.Errorf("Engine = %q, want openai", engErr.Engine)
			}
		})
	}
}

func TestModelSelection(t *testing.T) {
	w := New(Config{APIKey: "sk-test123", Model: "whisper-1"})

	if got := w.model(&engine.Request{}); got != "whisper-1" {
		t.Errorf("model() = %q, want config default", got)
	}
	if got := w.model(&engine.Request{Model: "gpt-4o-transcribe"}); got != "gpt-4o-transcribe" {
		t.Errorf("model() = %q, want request override", got)
	}
}

func TestInfo(t *testing.T) {
	w := New(Config{APIKey: "sk-test123"})
	info := w.Info()

	if info.Name != "openai" {
		t.Errorf("Expected name 'openai', got %q", info.Name)
	}
	if info.Type != engine.TypeRemote {
		t.Errorf("Expected type Remote, got %v", info.Type)
	}
	if !info.RequiresAPIKey {
		t.Error("Expected RequiresAPIKey to be true")
	}
	if info.DefaultModel != "whisper-1" {
		t.Errorf("DefaultModel = %q, want whisper-1", info.DefaultModel)
	}
}
