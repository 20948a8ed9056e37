package registry

import (
	"fmt"
	"log/slog"
	"sort"
)

// Module is the interface built-in stage libraries implement to be registered.
type Module interface {
	Register(r *Registry)
}

// RegisteredStage holds the Go function backing a named stage and its
// grid-facing metadata.
type RegisteredStage struct {
	// Fn is any func shape accepted by the pipeline call adapter.
	Fn          any
	Description string
}

// Registry maps the function names grids refer to onto registered Go stage
// functions, for a single application instance.
type Registry struct {
	stages map[string]*RegisteredStage
}

// New creates an empty Registry and registers the given modules into it.
func New(modules ...Module) *Registry {
	r := &Registry{stages: make(map[string]*RegisteredStage)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterStage registers a stage function under a grid-visible name.
// Duplicate names are a programmer error and panic.
func (r *Registry) RegisterStage(name string, h *RegisteredStage) {
	if _, exists := r.stages[name]; exists {
		panic(fmt.Sprintf("stage function with name '%s' already registered", name))
	}
	slog.Debug("Registering stage function.", "name", name)
	r.stages[name] = h
}

// Lookup resolves a grid function name to its registered stage.
func (r *Registry) Lookup(name string) (*RegisteredStage, bool) {
	h, ok := r.stages[name]
	return h, ok
}

// Names returns all registered stage names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.stages))
	for name := range r.stages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
