package engine

import (
	"context"
	"fmt"
	"sync"
)

// Registry holds the engine instances available to a worker process.
type Registry struct {
	mu       sync.RWMutex
	engines  map[string]Engine
	default_ string
}

// NewRegistry creates an empty engine registry.
func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[string]Engine),
	}
}

// Add registers an engine instance under name. The first engine added
// becomes the default until SetDefault says otherwise.
func (r *Registry) Add(name string, eng Engine) error {
	if name == "" {
		return fmt.Errorf("engine name cannot be empty")
	}
	if eng == nil {
		return fmt.Errorf("engine cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[name]; exists {
		return fmt.Errorf("engine '%s' already registered", name)
	}
	if err := eng.Validate(); err != nil {
		return fmt.Errorf("engine validation failed: %w", err)
	}

	r.engines[name] = eng
	if r.default_ == "" {
		r.default_ = name
	}
	return nil
}

// Get retrieves an engine by name.
func (r *Registry) Get(name string) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	eng, exists := r.engines[name]
	if !exists {
		return nil, fmt.Errorf("engine '%s' not found", name)
	}
	return eng, nil
}

// List returns the names of all registered engines.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	return names
}

// Default returns the default engine.
func (r *Registry) Default() (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.default_ == "" {
		return nil, fmt.Errorf("no default engine set")
	}
	eng, exists := r.engines[r.default_]
	if !exists {
		return nil, fmt.Errorf("default engine '%s' not found", r.default_)
	}
	return eng, nil
}

// DefaultName returns the default engine's name, empty when none is set.
func (r *Registry) DefaultName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.default_
}

// SetDefault selects the default engine.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[name]; !exists {
		return fmt.Errorf("engine '%s' not found", name)
	}
	r.default_ = name
	return nil
}

// Resolve picks the engine for a request: the named one when name is
// non-empty, the default otherwise.
func (r *Registry) Resolve(name string) (Engine, error) {
	if name == "" {
		return r.Default()
	}
	return r.Get(name)
}

// HealthCheckAll runs every engine's health check concurrently and
// returns the per-engine outcome.
func (r *Registry) HealthCheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	engines := make(map[string]Engine, len(r.engines))
	for name, eng := range r.engines {
		engines[name] = eng
	}
	r.mu.RUnlock()

	results := make(map[string]error)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, eng := range engines {
		wg.Add(1)
		go func(name string, eng Engine) {
			defer wg.Done()

			err := eng.HealthCheck(ctx)

			mu.Lock()
			results[name] = err
			mu.Unlock()
		}(name, eng)
	}

	wg.Wait()
	return results
}
