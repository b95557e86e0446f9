package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audio-scribe/internal/app/testutil"
)

func TestEngineHandler_List(t *testing.T) {
	env := setupTestRouter(t)
	require.NoError(t, env.registry.Add("second", testutil.NewMockEngine("second")))

	req := httptest.NewRequest("GET", "/v1/engines", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)

	// The default engine leads the list.
	assert.Equal(t, "mock", body[0]["name"])
	assert.Equal(t, true, body[0]["default"])
	assert.Equal(t, false, body[1]["default"])
}

func TestEngineHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		engineName     string
		expectedStatus int
		validateBody   func(*testing.T, map[string]interface{})
	}{
		{
			name:           "known engine",
			engineName:     "mock",
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "mock", body["name"])
				assert.Equal(t, true, body["default"])
			},
		},
		{
			name:           "unknown engine",
			engineName:     "whisper_cpp",
			expectedStatus: http.StatusNotFound,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "not_found", body["kind"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestRouter(t)

			req := httptest.NewRequest("GET", "/v1/engines/"+tt.engineName, nil)
			rec := httptest.NewRecorder()

			env.router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var responseBody map[string]interface{}
			err := json.Unmarshal(rec.Body.Bytes(), &responseBody)
			require.NoError(t, err)

			tt.validateBody(t, responseBody)
		})
	}
}

func TestEngineHandler_Health(t *testing.T) {
	tests := []struct {
		name           string
		engineName     string
		setup          func(*testEnv)
		expectedStatus int
		validateBody   func(*testing.T, map[string]interface{})
	}{
		{
			name:           "healthy engine",
			engineName:     "mock",
			setup:          func(env *testEnv) {},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "mock", body["name"])
				assert.Equal(t, true, body["healthy"])
			},
		},
		{
			name:       "unhealthy engine",
			engineName: "mock",
			setup: func(env *testEnv) {
				env.engine.WithHealthError(fmt.Errorf("whisper server is unreachable"))
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, false, body["healthy"])
				assert.Contains(t, body["error"], "unreachable")
			},
		},
		{
			name:           "unknown engine",
			engineName:     "whisper_cpp",
			setup:          func(env *testEnv) {},
			expectedStatus: http.StatusNotFound,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "not_found", body["kind"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestRouter(t)
			tt.setup(env)

			req := httptest.NewRequest("GET", "/v1/engines/"+tt.engineName+"/health", nil)
			rec := httptest.NewRecorder()

			env.router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var responseBody map[string]interface{}
			err := json.Unmarshal(rec.Body.Bytes(), &responseBody)
			require.NoError(t, err)

			tt.validateBody(t, responseBody)
		})
	}
}
