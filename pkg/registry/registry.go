// Package registry resolves generation providers by id.
package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/voxflow/voxflow/pkg/protocol"
)

// Registry holds generator factories keyed by provider id and caches the
// generators it creates. It implements the engine's GeneratorResolver.
type Registry struct {
	logger    *slog.Logger
	defaultID string

	mu         sync.Mutex
	factories  map[string]protocol.GeneratorFactory
	configs    map[string]map[string]any
	generators map[string]protocol.Generator
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:     logger,
		factories:  make(map[string]protocol.GeneratorFactory),
		configs:    make(map[string]map[string]any),
		generators: make(map[string]protocol.Generator),
	}
}

// RegisterGenerator adds a provider factory with its configuration. The
// first registered provider becomes the default.
func (r *Registry) RegisterGenerator(factory protocol.GeneratorFactory, config map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[factory.ID()] = factory
	r.configs[factory.ID()] = config

	if r.defaultID == "" {
		r.defaultID = factory.ID()
	}
}

// SetDefaultProvider overrides which provider an empty id resolves to.
func (r *Registry) SetDefaultProvider(providerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.defaultID = providerID
}

// Generator resolves a provider by id, creating and caching it on first use.
// An empty id resolves to the default provider.
func (r *Registry) Generator(providerID string) (protocol.Generator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if providerID == "" {
		providerID = r.defaultID
	}

	if providerID == "" {
		return nil, fmt.Errorf("no generation provider registered")
	}

	generator, ok := r.generators[providerID]
	if ok {
		return generator, nil
	}

	factory, ok := r.factories[providerID]
	if !ok {
		return nil, fmt.Errorf("generation provider '%s' not registered", providerID)
	}

	generator, err := factory.Create(r.configs[providerID])
	if err != nil {
		return nil, fmt.Errorf("failed to create generation provider '%s': %w", providerID, err)
	}

	r.logger.Debug("Created generation provider", "provider", providerID)
	r.generators[providerID] = generator

	return generator, nil
}

// Providers lists the registered provider ids.
func (r *Registry) Providers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}

	return ids
}
