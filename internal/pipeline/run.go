package pipeline

import (
	"context"
	"fmt"

	"github.com/vk/pipegrid/internal/ctxlog"
	"github.com/vk/pipegrid/internal/spec"
)

// runPipeline executes one flat, option-free stage list against a fresh
// environment seeded with the caller's inputs. Stages run strictly in
// declaration order; later writes to a shared sink overwrite earlier ones,
// which is the documented shadowing mechanism for ambiguous sinks.
func runPipeline(ctx context.Context, stages []*spec.StageSpec, positional []any, named map[string]any) (Environment, error) {
	logger := ctxlog.FromContext(ctx)

	env := make(Environment, len(named)+len(positional)+1)
	for name, v := range named {
		env[spec.Name(name)] = v
	}
	env[PipelineSink] = stages
	for i, v := range positional {
		env[spec.Index(i)] = v
	}

	for i, st := range stages {
		label := stageLabel(st, i)

		inputs := make([]any, 0, len(st.In))
		for _, sink := range st.In {
			v, ok := env[sink]
			if !ok {
				return nil, &MissingInputError{Sink: sink, Stage: label}
			}
			inputs = append(inputs, v)
		}

		outs, err := invoke(ctx, st, inputs)
		if err != nil {
			return nil, err
		}

		// Shorter tuples fail; extra outputs are discarded by contract.
		if len(outs) < len(st.Out) {
			return nil, &StageInvocationError{
				Stage: label,
				Err:   fmt.Errorf("returned %d outputs for %d declared sinks", len(outs), len(st.Out)),
			}
		}
		for j, sink := range st.Out {
			env[sink] = outs[j]
		}

		logger.Debug("Stage finished.", "stage", label, "outputs", len(st.Out))
	}

	return env, nil
}

// stageLabel names a stage for logs and errors, falling back to its position.
func stageLabel(st *spec.StageSpec, i int) string {
	if st.Name != "" {
		return st.Name
	}
	return fmt.Sprintf("stage[%d]", i)
}
