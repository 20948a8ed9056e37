package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vk/pipegrid/internal/ctxlog"
	"github.com/vk/pipegrid/internal/pipeline"
	"github.com/vk/pipegrid/internal/spec"
)

// Run executes the main application logic: load the grid, sweep every option
// combination, report failures, and print one result line per success.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	grid, err := a.loader.Load(ctx, a.registry, a.config.GridPath)
	if err != nil {
		return fmt.Errorf("failed to load grid: %w", err)
	}
	a.logger.Info("Grid loaded.", "name", grid.Name)

	engine := pipeline.New(grid.Root)
	results, failures, err := engine.Transform(ctx, nil, grid.Inputs)
	if err != nil {
		return fmt.Errorf("transform failed: %w", err)
	}
	for _, f := range failures {
		a.logger.Warn("Combination failed and was skipped.", "combination", f.Combination, "error", f.Err)
	}
	a.logger.Info("Transform finished.", "succeeded", len(results), "failed", len(failures))

	filtered := pipeline.FilterResults(results, columnSinks(a.config.Columns), a.config.Flatten)
	if err := a.printResults(filtered); err != nil {
		return fmt.Errorf("failed to render results: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// columnSinks converts CLI column names into sinks. Purely numeric entries
// address positional sinks, everything else named ones. A nil return means
// no filtering.
func columnSinks(columns []string) []spec.Sink {
	if len(columns) == 0 {
		return nil
	}
	sinks := make([]spec.Sink, 0, len(columns))
	for _, col := range columns {
		if i, err := strconv.Atoi(col); err == nil {
			sinks = append(sinks, spec.Index(i))
		} else {
			sinks = append(sinks, spec.Name(col))
		}
	}
	return sinks
}
