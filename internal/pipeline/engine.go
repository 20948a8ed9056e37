package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/vk/pipegrid/internal/ctxlog"
	"github.com/vk/pipegrid/internal/spec"
)

// Engine expands a specification tree into every concrete pipeline it
// implies and executes each one. The tree is held immutably for the engine's
// lifetime; Transform carries no state between calls.
type Engine struct {
	root *spec.Node
}

// New creates an engine bound to the given specification tree.
func New(root *spec.Node) *Engine {
	return &Engine{root: root}
}

// Failure records one combination whose execution failed. Failed
// combinations never appear in the primary results list; this side channel
// is how callers recover which option combination failed and why.
type Failure struct {
	// Combination is the index into the expanded combination order.
	Combination int
	Err         error
}

// Transform runs every concrete pipeline implied by the specification
// against the given positional and named inputs. It returns one environment
// snapshot per combination that completed, in expansion order, plus the
// failures of the combinations that did not. Structural errors found while
// expanding or flattening are fatal: they are returned before any stage
// executes. Execution errors are isolated per combination.
func (e *Engine) Transform(ctx context.Context, positional []any, named map[string]any) ([]Environment, []Failure, error) {
	logger := ctxlog.FromContext(ctx).With("run_id", uuid.NewString())
	ctx = ctxlog.WithLogger(ctx, logger)

	combos := spec.Expand(e.root)
	logger.Debug("Specification expanded.", "combinations", len(combos))

	// Flatten everything up front: execution only begins once the whole
	// expansion is structurally sound.
	pipelines := make([][]*spec.StageSpec, len(combos))
	for i, combo := range combos {
		stages, err := spec.Flatten(combo)
		if err != nil {
			return nil, nil, err
		}
		pipelines[i] = stages
	}

	results := make([]Environment, 0, len(pipelines))
	var failures []Failure
	for i, stages := range pipelines {
		env, err := runPipeline(ctx, stages, positional, named)
		if err != nil {
			logger.Error("Combination failed.", "combination", i, "error", err)
			failures = append(failures, Failure{Combination: i, Err: err})
			continue
		}
		results = append(results, env)
	}

	logger.Debug("Transform finished.", "succeeded", len(results), "failed", len(failures))
	return results, failures, nil
}

// AsStage adapts the engine for use as another pipeline's stage function,
// giving the sub-pipeline's sinks their own namespace. The resolved inputs
// become the sub-pipeline's positional inputs and the ordered results list
// is returned as a single output.
func (e *Engine) AsStage() func(context.Context, ...any) (any, error) {
	return func(ctx context.Context, inputs ...any) (any, error) {
		results, _, err := e.Transform(ctx, inputs, nil)
		if err != nil {
			return nil, err
		}
		return results, nil
	}
}
