package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/fragments/internal/fragments"
)

// Module is the interface that all generator modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the generators registered for a single application instance.
type Registry struct {
	generators map[string]fragments.Generator
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		generators: make(map[string]fragments.Generator),
	}
}

// RegisterGenerator registers gen under name.
func (r *Registry) RegisterGenerator(name string, gen fragments.Generator) {
	if name == "" {
		panic("generator name must not be empty")
	}
	if gen == nil {
		panic(fmt.Sprintf("generator '%s' is nil", name))
	}
	if _, exists := r.generators[name]; exists {
		panic(fmt.Sprintf("generator with name '%s' already registered", name))
	}
	slog.Debug("Registering generator.", "name", name)
	r.generators[name] = gen
}

// RegisterModules registers every module in order.
func (r *Registry) RegisterModules(modules ...Module) {
	for _, m := range modules {
		m.Register(r)
	}
}

// Generator looks up a registered generator.
func (r *Registry) Generator(name string) (fragments.Generator, bool) {
	gen, ok := r.generators[name]
	return gen, ok
}

// Names returns the registered generator names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Install adds every registered generator to t. Generators already present
// in t under the same name are replaced.
func (r *Registry) Install(t *fragments.Template) {
	for name, gen := range r.generators {
		t.InsertGenerator(name, gen)
	}
}
