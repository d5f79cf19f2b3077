package strategy

import (
	"sort"
	"sync"

	"github.com/elci-group/babymode/internal/segment"
)

// Descriptor identifies a registered strategy.
type Descriptor struct {
	Name        string
	Description string
}

// Registry is a name-keyed store of censoring strategies. It is populated at
// process start and read-only afterwards; reads are safe for concurrent use
// across runs.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry returns a registry preloaded with the built-in strategies.
func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[string]Strategy)}
	r.Register(NewSilence())
	r.Register(NewVolumeReduction())
	r.Register(NewBeep())
	r.Register(NewReverse())
	return r
}

// Register inserts a strategy. Registering a second strategy under an
// existing name silently replaces the prior entry.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[s.Name()] = s
}

// Get looks up a strategy by name.
func (r *Registry) Get(name string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[name]
	return s, ok
}

// List returns the registered strategies sorted by name.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]Descriptor, 0, len(r.strategies))
	for _, s := range r.strategies {
		descriptors = append(descriptors, Descriptor{Name: s.Name(), Description: s.Description()})
	}
	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Name < descriptors[j].Name
	})
	return descriptors
}

// Apply looks up name, validates cfg for that strategy and applies it. The
// output target is not touched when the lookup or validation fails.
func (r *Registry) Apply(name, inputPath, outputPath string, segments []segment.Segment, cfg Config) error {
	s, ok := r.Get(name)
	if !ok {
		return &UnknownStrategyError{Name: name}
	}
	if err := s.ValidateConfig(cfg); err != nil {
		return err
	}
	return s.Apply(inputPath, outputPath, segments, cfg)
}
