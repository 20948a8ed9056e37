// Package printer provides the 'print' stage function.
package printer

import (
	"context"

	"github.com/vk/pipegrid/internal/ctxlog"
	"github.com/vk/pipegrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Print is the 'print' stage function: logs its input and passes it through,
// so it can be dropped between any two stages without changing data flow.
func Print(ctx context.Context, v any) any {
	ctxlog.FromContext(ctx).Info("print stage", "value", v)
	return v
}

// Register registers the stage function with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage("print", &registry.RegisteredStage{
		Fn:          Print,
		Description: "Log a value and pass it through unchanged.",
	})
}
