package services

import (
	"context"
	"sort"

	"github.com/samber/lo"

	apierrors "audio-scribe/internal/api/errors"
	"audio-scribe/internal/api/v1/dto"
	"audio-scribe/internal/app/engine"
)

// EngineServiceImpl implements EngineService over the engine registry
type EngineServiceImpl struct {
	registry *engine.Registry
}

// NewEngineService creates a new engine service
func NewEngineService(registry *engine.Registry) *EngineServiceImpl {
	return &EngineServiceImpl{registry: registry}
}

// ListEngines returns every registered engine, default first.
func (s *EngineServiceImpl) ListEngines(ctx context.Context) ([]dto.EngineResponse, error) {
	names := s.registry.List()
	sort.Strings(names)
	defaultName := s.registry.DefaultName()

	responses := lo.FilterMap(names, func(name string, _ int) (dto.EngineResponse, bool) {
		eng, err := s.registry.Get(name)
		if err != nil {
			return dto.EngineResponse{}, false
		}
		return dto.ToEngineResponse(eng.Info(), name == defaultName), true
	})

	// Default engine leads the list.
	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].Default && !responses[j].Default
	})
	return responses, nil
}

// GetEngine returns one engine's inventory entry.
func (s *EngineServiceImpl) GetEngine(ctx context.Context, name string) (*dto.EngineResponse, error) {
	eng, err := s.registry.Get(name)
	if err != nil {
		return nil, apierrors.NewNotFoundError("engine")
	}

	resp := dto.ToEngineResponse(eng.Info(), name == s.registry.DefaultName())
	return &resp, nil
}

// CheckEngineHealth probes one engine.
func (s *EngineServiceImpl) CheckEngineHealth(ctx context.Context, name string) (*dto.EngineHealthResponse, error) {
	eng, err := s.registry.Get(name)
	if err != nil {
		return nil, apierrors.NewNotFoundError("engine")
	}

	resp := &dto.EngineHealthResponse{Name: name, Healthy: true}
	if err := eng.HealthCheck(ctx); err != nil {
		resp.Healthy = false
		resp.Error = err.Error()
	}
	return resp, nil
}
