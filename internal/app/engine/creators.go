package engine

import (
	"fmt"
	"sync"
)

// Creator builds an engine instance from its settings map. Engine
// packages register their creator from init(); cmd packages blank-import
// them so registration happens before any config is loaded.
type Creator func(settings map[string]interface{}) (Engine, error)

var (
	creators      = make(map[string]Creator)
	creatorsMutex sync.RWMutex
)

// Register records a creator function for an engine type.
func Register(engineType string, creator Creator) {
	creatorsMutex.Lock()
	defer creatorsMutex.Unlock()
	creators[engineType] = creator
}

// GetCreator returns the creator function for an engine type.
func GetCreator(engineType string) (Creator, error) {
	creatorsMutex.RLock()
	defer creatorsMutex.RUnlock()

	creator, ok := creators[engineType]
	if !ok {
		return nil, fmt.Errorf("engine type %s not registered", engineType)
	}
	return creator, nil
}

// RegisteredTypes returns all registered engine types.
func RegisteredTypes() []string {
	creatorsMutex.RLock()
	defer creatorsMutex.RUnlock()

	var types []string
	for engineType := range creators {
		types = append(types, engineType)
	}
	return types
}

// BuildRegistry instantiates every enabled engine in cfg and returns a
// registry with the configured default selected. Engines whose creator is
// missing or whose construction fails are reported, not skipped silently.
func BuildRegistry(cfg *Configuration) (*Registry, error) {
	registry := NewRegistry()

	for name, engineCfg := range cfg.Engines {
		if !engineCfg.Enabled {
			continue
		}

		creator, err := GetCreator(engineCfg.Type)
		if err != nil {
			return nil, fmt.Errorf("engine '%s': %w", name, err)
		}

		settings := engineCfg.ResolvedSettings()
		eng, err := creator(settings)
		if err != nil {
			return nil, fmt.Errorf("engine '%s': %w", name, err)
		}

		if err := registry.Add(name, eng); err != nil {
			return nil, err
		}
	}

	if cfg.DefaultEngine != "" {
		if err := registry.SetDefault(cfg.DefaultEngine); err != nil {
			return nil, fmt.Errorf("default engine: %w", err)
		}
	}

	return registry, nil
}
