package dto

import (
	"audio-scribe/internal/app/engine"
)

// EngineResponse describes one registered engine
type EngineResponse struct {
	Name             string   `json:"name"`
	DisplayName      string   `json:"display_name"`
	Type             string   `json:"type"`
	Version          string   `json:"version,omitempty"`
	Default          bool     `json:"default"`
	SupportedFormats []string `json:"supported_formats"`
	RequiresInternet bool     `json:"requires_internet"`
	RequiresAPIKey   bool     `json:"requires_api_key"`
	RequiresBinary   bool     `json:"requires_binary"`
	DefaultModel     string   `json:"default_model,omitempty"`
	AvailableModels  []string `json:"available_models,omitempty"`
}

// EngineHealthResponse is the outcome of one engine health probe
type EngineHealthResponse struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// ToEngineResponse converts engine info to a response DTO
func ToEngineResponse(info engine.Info, isDefault bool) EngineResponse {
	formats := make([]string, 0, len(info.SupportedFormats))
	for _, f := range info.SupportedFormats {
		formats = append(formats, string(f))
	}

	return EngineResponse{
		Name:             info.Name,
		DisplayName:      info.DisplayName,
		Type:             string(info.Type),
		Version:          info.Version,
		Default:          isDefault,
		SupportedFormats: formats,
		RequiresInternet: info.RequiresInternet,
		RequiresAPIKey:   info.RequiresAPIKey,
		RequiresBinary:   info.RequiresBinary,
		DefaultModel:     info.DefaultModel,
		AvailableModels:  info.AvailableModels,
	}
}
