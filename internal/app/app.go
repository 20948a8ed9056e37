package app

import (
	"io"
	"log/slog"

	"github.com/vk/pipegrid/internal/hcl"
	"github.com/vk/pipegrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	loader   *hcl.Loader
	config   *Config
}

// NewApp is the constructor for the main application. Results are written to
// outW, logs to logW, so piping result lines stays clean. With no explicit
// modules the built-in stage libraries are registered.
func NewApp(outW, logW io.Writer, config *Config, modules ...registry.Module) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.New(modules...)
	logger.Debug("All stage modules registered.", "count", len(modules))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		loader:   hcl.NewLoader(),
		config:   config,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
