package render

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-datagrid/pkg/render/template"
)

// ErrUnknownEngine is returned when settings name an engine that was never
// registered.
var ErrUnknownEngine = errors.New("render: unknown template engine")

// Registry maps engine names, as used in template.Settings.Engine, to
// compilers.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]template.Compiler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]template.Compiler)}
}

// Register adds engine under its lower-cased Name. A name can be taken once.
func (r *Registry) Register(engine template.Compiler) error {
	if engine == nil {
		return errors.New("render: engine is required")
	}
	name := engineKey(engine.Name())
	if name == "" {
		return errors.New("render: engine name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.engines[name]; taken {
		return fmt.Errorf("render: engine %q already registered", name)
	}
	r.engines[name] = engine
	return nil
}

// Lookup returns the engine for name. An empty name selects pongo2.
func (r *Registry) Lookup(name string) (template.Compiler, error) {
	key := engineKey(name)
	if key == "" {
		key = template.EnginePongo2
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if engine, ok := r.engines[key]; ok {
		return engine, nil
	}
	return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownEngine, name,
		strings.Join(slices.Sorted(maps.Keys(r.engines)), ", "))
}

func engineKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
