// Package env_vars provides the 'env_vars' stage function.
package env_vars

import (
	"os"
	"strings"

	"github.com/vk/pipegrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// EnvVars is the 'env_vars' stage function: snapshots the process
// environment into a map for downstream stages.
func EnvVars() map[string]any {
	envMap := make(map[string]any)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 {
			envMap[pair[0]] = pair[1]
		}
	}
	return envMap
}

// Register registers the stage function with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage("env_vars", &registry.RegisteredStage{
		Fn:          EnvVars,
		Description: "Snapshot the process environment variables.",
	})
}
