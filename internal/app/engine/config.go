package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Configuration is the full engine configuration loaded from YAML.
type Configuration struct {
	// DefaultEngine is used when a request names no engine.
	DefaultEngine string `yaml:"default_engine"`

	// Engines maps engine names to their configuration.
	Engines map[string]EngineConfig `yaml:"engines"`

	// Global settings shared across engines.
	Global GlobalConfig `yaml:"global"`
}

// EngineConfig configures a single engine.
type EngineConfig struct {
	// Type selects the registered engine implementation
	// (whisper_server, whisper_cpp, openai, gemini).
	Type string `yaml:"type"`

	// Enabled engines are instantiated at startup; disabled ones are
	// listed but never called.
	Enabled bool `yaml:"enabled"`

	// Settings are engine-specific and handed to the creator verbatim
	// after environment expansion.
	Settings map[string]interface{} `yaml:"settings"`

	// Auth carries credentials; values may reference environment
	// variables as ${NAME}.
	Auth AuthConfig `yaml:"auth,omitempty"`

	// TimeoutSec bounds a single transcription call. Zero means the
	// engine's own default.
	TimeoutSec int `yaml:"timeout_sec,omitempty"`
}

// AuthConfig holds engine credentials.
type AuthConfig struct {
	APIKey  string            `yaml:"api_key,omitempty"`
	BaseURL string            `yaml:"base_url,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
}

// GlobalConfig holds settings shared by all engines.
type GlobalConfig struct {
	// TempDir overrides the directory for temporary audio artifacts.
	TempDir string `yaml:"temp_dir,omitempty"`

	// DefaultFormat is the last-resort container format for audio whose
	// bytes match no known magic header and whose request declares none.
	DefaultFormat string `yaml:"default_format,omitempty"`

	LogLevel string `yaml:"log_level,omitempty"`
}

// ResolvedSettings merges auth fields into the settings map so creators
// receive one flat configuration. Settings keys win over auth keys.
func (ec EngineConfig) ResolvedSettings() map[string]interface{} {
	settings := make(map[string]interface{}, len(ec.Settings)+4)
	if ec.Auth.APIKey != "" {
		settings["api_key"] = ec.Auth.APIKey
	}
	if ec.Auth.BaseURL != "" {
		settings["base_url"] = ec.Auth.BaseURL
	}
	if len(ec.Auth.Headers) > 0 {
		settings["headers"] = ec.Auth.Headers
	}
	if ec.TimeoutSec > 0 {
		settings["timeout_sec"] = ec.TimeoutSec
	}
	for k, v := range ec.Settings {
		settings[k] = v
	}
	return settings
}

// ConfigManager loads and persists the engine configuration file.
type ConfigManager struct {
	configPath string
	config     *Configuration
}

// NewConfigManager creates a configuration manager for the given path.
func NewConfigManager(configPath string) *ConfigManager {
	return &ConfigManager{
		configPath: configPath,
	}
}

// LoadConfig reads the YAML configuration, writing a commented default
// file first if none exists yet.
func (cm *ConfigManager) LoadConfig() (*Configuration, error) {
	if _, err := os.Stat(cm.configPath); os.IsNotExist(err) {
		defaultConfig := cm.createDefaultConfig()
		if err := cm.SaveConfig(defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		cm.config = defaultConfig
		return defaultConfig, nil
	}

	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	expandEnvironment(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cm.config = &config
	return &config, nil
}

// SaveConfig writes the configuration to the YAML file.
func (cm *ConfigManager) SaveConfig(config *Configuration) error {
	dir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(cm.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	cm.config = config
	return nil
}

// GetConfig returns the currently loaded configuration.
func (cm *ConfigManager) GetConfig() *Configuration {
	return cm.config
}

func (cm *ConfigManager) createDefaultConfig() *Configuration {
	return &Configuration{
		DefaultEngine: "whisper_server",
		Engines: map[string]EngineConfig{
			"whisper_server": {
				Type:    "whisper_server",
				Enabled: true,
				Auth: AuthConfig{
					BaseURL: "${WHISPER_SERVER_URL}",
				},
				Settings: map[string]interface{}{
					"model": "turbo",
				},
				TimeoutSec: 300,
			},
			"whisper_cpp": {
				Type:    "whisper_cpp",
				Enabled: false,
				Settings: map[string]interface{}{
					"binary_path": "${WHISPER_CPP_BINARY}",
					"model_path":  "${WHISPER_CPP_MODEL}",
				},
				TimeoutSec: 600,
			},
			"openai": {
				Type:    "openai",
				Enabled: false,
				Auth: AuthConfig{
					APIKey: "${OPENAI_API_KEY}",
				},
				Settings: map[string]interface{}{
					"model": "whisper-1",
				},
				TimeoutSec: 120,
			},
			"gemini": {
				Type:    "gemini",
				Enabled: false,
				Auth: AuthConfig{
					APIKey: "${GEMINI_API_KEY}",
				},
				Settings: map[string]interface{}{
					"model": "gemini-2.0-flash",
				},
				TimeoutSec: 180,
			},
		},
		Global: GlobalConfig{
			LogLevel: "info",
		},
	}
}

// expandEnvironment resolves ${NAME} references in auth fields and string
// settings values.
func expandEnvironment(config *Configuration) {
	for name, engineConfig := range config.Engines {
		engineConfig.Auth.APIKey = os.ExpandEnv(engineConfig.Auth.APIKey)
		engineConfig.Auth.BaseURL = os.ExpandEnv(engineConfig.Auth.BaseURL)
		for key, value := range engineConfig.Auth.Headers {
			engineConfig.Auth.Headers[key] = os.ExpandEnv(value)
		}
		for key, value := range engineConfig.Settings {
			if s, ok := value.(string); ok {
				engineConfig.Settings[key] = os.ExpandEnv(s)
			}
		}
		config.Engines[name] = engineConfig
	}

	config.Global.TempDir = os.ExpandEnv(config.Global.TempDir)
}

func validateConfig(config *Configuration) error {
	if config.DefaultEngine != "" {
		defaultConfig, exists := config.Engines[config.DefaultEngine]
		if !exists {
			return fmt.Errorf("default engine '%s' not found in engines", config.DefaultEngine)
		}
		if !defaultConfig.Enabled {
			return fmt.Errorf("default engine '%s' is disabled", config.DefaultEngine)
		}
	}

	for name, engineConfig := range config.Engines {
		if engineConfig.Type == "" {
			return fmt.Errorf("engine '%s' has no type specified", name)
		}
		if engineConfig.TimeoutSec < 0 {
			return fmt.Errorf("engine '%s' has invalid timeout", name)
		}
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration file location.
func GetDefaultConfigPath() string {
	if path := os.Getenv("SCRIBE_ENGINE_CONFIG"); path != "" {
		return path
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".scribe", "engines.yaml")
	}
	return "./config/engines.yaml"
}
