package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAPIKeys(t *testing.T) {
	// Save original environment
	originalOpenAI := os.Getenv("OPENAI_API_KEY")
	originalGemini := os.Getenv("GEMINI_API_KEY")
	defer func() {
		os.Setenv("OPENAI_API_KEY", originalOpenAI)
		os.Setenv("GEMINI_API_KEY", originalGemini)
	}()

	testCases := []struct {
		name          string
		openaiKey     string
		geminiKey     string
		expectError   bool
		errorContains string
	}{
		{
			name:        "valid OpenAI key",
			openaiKey:   "sk-1234567890abcdef1234567890abcdef",
			geminiKey:   "",
			expectError: false,
		},
		{
			name:        "valid Gemini key",
			openaiKey:   "",
			geminiKey:   "AIzaTest-1234567890abcdef1234567890",
			expectError: false,
		},
		{
			name:        "both valid keys",
			openaiKey:   "sk-1234567890abcdef1234567890abcdef",
			geminiKey:   "AIzaTest-1234567890abcdef1234567890",
			expectError: false,
		},
		{
			name:          "invalid OpenAI key format",
			openaiKey:     "invalid-key",
			geminiKey:     "",
			expectError:   true,
			errorContains: "invalid OPENAI_API_KEY format",
		},
		{
			name:          "OpenAI key too short",
			openaiKey:     "sk-short",
			geminiKey:     "",
			expectError:   true,
			errorContains: "too short",
		},
		{
			name:          "invalid Gemini key format",
			openaiKey:     "",
			geminiKey:     "invalid-key",
			expectError:   true,
			errorContains: "invalid GEMINI_API_KEY format",
		},
		{
			name:          "Gemini key too short",
			openaiKey:     "",
			geminiKey:     "AIza-short",
			expectError:   true,
			errorContains: "too short",
		},
		{
			name:        "empty keys are allowed",
			openaiKey:   "",
			geminiKey:   "",
			expectError: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			os.Setenv("OPENAI_API_KEY", tc.openaiKey)
			os.Setenv("GEMINI_API_KEY", tc.geminiKey)

			apiKeys, err := GetAPIKeys()

			if tc.expectError {
				assert.Error(t, err)
				if tc.errorContains != "" {
					assert.Contains(t, err.Error(), tc.errorContains)
				}
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, apiKeys)
				assert.Equal(t, tc.openaiKey, apiKeys.OpenAI)
				assert.Equal(t, tc.geminiKey, apiKeys.Gemini)
			}
		})
	}
}

func TestRequireAPIKeys(t *testing.T) {
	testCases := []struct {
		name          string
		apiKeys       *APIKeys
		expectError   bool
		errorContains string
	}{
		{
			name: "OpenAI key only",
			apiKeys: &APIKeys{
				OpenAI: "sk-1234567890abcdef1234567890abcdef",
				Gemini: "",
			},
			expectError: false,
		},
		{
			name: "Gemini key only",
			apiKeys: &APIKeys{
				OpenAI: "",
				Gemini: "AIzaTest-1234567890abcdef1234567890",
			},
			expectError: false,
		},
		{
			name: "no keys - hosted engines need at least one",
			apiKeys: &APIKeys{
				OpenAI: "",
				Gemini: "",
			},
			expectError:   true,
			errorContains: "hosted engines require at least one API key",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := RequireAPIKeys(tc.apiKeys)

			if tc.expectError {
				assert.Error(t, err)
				if tc.errorContains != "" {
					assert.Contains(t, err.Error(), tc.errorContains)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetServerConfig(t *testing.T) {
	originalHost := os.Getenv("SCRIBE_HOST")
	originalPort := os.Getenv("SCRIBE_PORT")
	defer func() {
		os.Setenv("SCRIBE_HOST", originalHost)
		os.Setenv("SCRIBE_PORT", originalPort)
	}()

	os.Unsetenv("SCRIBE_HOST")
	os.Unsetenv("SCRIBE_PORT")

	sc := GetServerConfig()
	assert.Equal(t, "0.0.0.0", sc.Host)
	assert.Equal(t, DefaultHTTPPort, sc.Port)
	assert.Equal(t, "0.0.0.0:"+DefaultHTTPPort, sc.Addr())

	os.Setenv("SCRIBE_HOST", "127.0.0.1")
	os.Setenv("SCRIBE_PORT", "9090")

	sc = GetServerConfig()
	assert.Equal(t, "127.0.0.1:9090", sc.Addr())
	assert.NoError(t, ValidateServerConfig(sc))
}

func TestGetQueueConfig(t *testing.T) {
	originalAddr := os.Getenv("REDIS_ADDR")
	originalDB := os.Getenv("REDIS_DB")
	defer func() {
		os.Setenv("REDIS_ADDR", originalAddr)
		os.Setenv("REDIS_DB", originalDB)
	}()

	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("REDIS_DB")

	qc := GetQueueConfig()
	assert.Equal(t, DefaultRedisAddr, qc.RedisAddr)
	assert.Equal(t, 0, qc.RedisDB)
	assert.Equal(t, DefaultResultTTL, qc.ResultTTL)
	assert.NoError(t, ValidateQueueConfig(qc))

	os.Setenv("REDIS_ADDR", "redis.internal:6380")
	os.Setenv("REDIS_DB", "3")

	qc = GetQueueConfig()
	assert.Equal(t, "redis.internal:6380", qc.RedisAddr)
	assert.Equal(t, 3, qc.RedisDB)

	// Unparseable values fall back to the default
	os.Setenv("REDIS_DB", "not-a-number")
	qc = GetQueueConfig()
	assert.Equal(t, 0, qc.RedisDB)
}

func TestGetEnvDuration(t *testing.T) {
	original := os.Getenv("SCRIBE_RESULT_TTL")
	defer os.Setenv("SCRIBE_RESULT_TTL", original)

	os.Setenv("SCRIBE_RESULT_TTL", "90m")
	qc := GetQueueConfig()
	assert.Equal(t, 90*time.Minute, qc.ResultTTL)

	os.Setenv("SCRIBE_RESULT_TTL", "soon")
	qc = GetQueueConfig()
	assert.Equal(t, DefaultResultTTL, qc.ResultTTL)
}

func TestStorageConfig(t *testing.T) {
	testCases := []struct {
		name          string
		config        *StorageConfig
		expectEnabled bool
		expectError   bool
		errorContains string
	}{
		{
			name:          "no endpoint disables the store",
			config:        &StorageConfig{},
			expectEnabled: false,
			expectError:   false,
		},
		{
			name: "complete configuration",
			config: &StorageConfig{
				Endpoint:  "minio.internal:9000",
				AccessKey: "scribe",
				SecretKey: "scribe-secret",
				Bucket:    "scribe-results",
			},
			expectEnabled: true,
			expectError:   false,
		},
		{
			name: "endpoint with scheme is rejected",
			config: &StorageConfig{
				Endpoint:  "http://minio.internal:9000",
				AccessKey: "scribe",
				SecretKey: "scribe-secret",
				Bucket:    "scribe-results",
			},
			expectEnabled: true,
			expectError:   true,
			errorContains: "without scheme",
		},
		{
			name: "missing credentials",
			config: &StorageConfig{
				Endpoint: "minio.internal:9000",
				Bucket:   "scribe-results",
			},
			expectEnabled: true,
			expectError:   true,
			errorContains: "MINIO_ACCESS_KEY",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectEnabled, tc.config.Enabled())

			err := ValidateStorageConfig(tc.config)
			if tc.expectError {
				assert.Error(t, err)
				if tc.errorContains != "" {
					assert.Contains(t, err.Error(), tc.errorContains)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAddr(t *testing.T) {
	assert.NoError(t, ValidateAddr("localhost:6379", "redis"))
	assert.Error(t, ValidateAddr("", "redis"))
	assert.Error(t, ValidateAddr("localhost", "redis"))
	assert.Error(t, ValidateAddr("localhost:notaport", "redis"))
}

func TestGetProjectRoot(t *testing.T) {
	root, err := GetProjectRoot()
	require.NoError(t, err)
	assert.NotEmpty(t, root)

	// Verify go.mod exists in the found root
	_, err = os.Stat(root + "/go.mod")
	assert.NoError(t, err, "go.mod should exist in project root")
}
