package testutil

import (
	"context"
	"sync"
	"time"

	"audio-scribe/internal/app/engine"
)

// MockEngine is a configurable engine.Engine for tests. It records every
// request it sees and answers with a canned payload, a per-path override,
// or an injected error.
type MockEngine struct {
	mu sync.Mutex

	Name           string
	DefaultPayload string
	DefaultText    string
	DefaultError   error
	HealthErr      error
	Latency        time.Duration

	PayloadByPath map[string]string
	ErrorByPath   map[string]error

	Requests []engine.Request
}

// NewMockEngine returns a mock answering with a minimal valid payload.
func NewMockEngine(name string) *MockEngine {
	return &MockEngine{
		Name:           name,
		DefaultPayload: `{"text":"This is a mock transcription result."}`,
		DefaultText:    "This is a mock transcription result.",
		PayloadByPath:  make(map[string]string),
		ErrorByPath:    make(map[string]error),
	}
}

func (m *MockEngine) WithPayload(payload, text string) *MockEngine {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DefaultPayload = payload
	m.DefaultText = text
	return m
}

func (m *MockEngine) WithError(err error) *MockEngine {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DefaultError = err
	return m
}

func (m *MockEngine) WithLatency(d time.Duration) *MockEngine {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Latency = d
	return m
}

func (m *MockEngine) WithHealthError(err error) *MockEngine {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HealthErr = err
	return m
}

func (m *MockEngine) SetPayloadForPath(path, payload string) *MockEngine {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PayloadByPath[path] = payload
	return m
}

func (m *MockEngine) SetErrorForPath(path string, err error) *MockEngine {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorByPath[path] = err
	return m
}

func (m *MockEngine) Transcribe(ctx context.Context, req *engine.Request) (*engine.Result, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, *req)
	latency := m.Latency
	err := m.DefaultError
	if pathErr, ok := m.ErrorByPath[req.AudioPath]; ok {
		err = pathErr
	}
	payload := m.DefaultPayload
	if pathPayload, ok := m.PayloadByPath[req.AudioPath]; ok {
		payload = pathPayload
	}
	text := m.DefaultText
	m.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &engine.Result{
		Payload: []byte(payload),
		Text:    text,
	}, nil
}

func (m *MockEngine) Validate() error { return nil }

func (m *MockEngine) HealthCheck(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.HealthErr
}

func (m *MockEngine) Info() engine.Info {
	return engine.Info{Name: m.Name, Type: "mock"}
}

// CallCount returns how many transcriptions were requested.
func (m *MockEngine) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// LastRequest returns the most recent request, or nil.
func (m *MockEngine) LastRequest() *engine.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return nil
	}
	req := m.Requests[len(m.Requests)-1]
	return &req
}

var _ engine.Engine = (*MockEngine)(nil)
