package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipegrid/internal/ctxlog"
	"github.com/vk/pipegrid/internal/spec"
)

func testCtx() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}

// The worked four-combination sweep: a three-way pipeline choice whose first
// branch carries a two-way kwarg option.
func workedExample() *spec.Node {
	sum := func(xs []float64) float64 {
		var total float64
		for _, x := range xs {
			total += x
		}
		return total
	}

	stage1 := spec.StageNode(spec.Stage{
		Func: sum, Name: "sum",
		In: []spec.Sink{spec.Index(0)}, Out: []spec.Sink{spec.Index(1)},
	})
	stage2 := spec.StageNode(spec.Stage{
		Func: func(x float64, kw Kwargs) float64 { return x * kw["y"].(float64) },
		Name: "multiply",
		In:   []spec.Sink{spec.Index(1)}, Out: []spec.Sink{spec.Index(2)},
		Kwargs: map[string]*spec.Node{"y": spec.Option(spec.Atomic(1.0), spec.Atomic(2.0))},
	})
	stage3 := spec.StageNode(spec.Stage{
		Func: func(x float64) float64 { return x * 2.0 },
		Name: "double",
		In:   []spec.Sink{spec.Index(1)}, Out: []spec.Sink{spec.Name("named_output")},
	})
	stage4 := spec.StageNode(spec.Stage{
		Func: func(x any) any { return x },
		Name: "rename",
		In:   []spec.Sink{spec.Name("named_output")}, Out: []spec.Sink{spec.Index(3)},
	})
	stage5 := spec.StageNode(spec.Stage{
		Func: func() []float64 { return []float64{0, 1, 2, 3} },
		Name: "generate",
		In:   []spec.Sink{}, Out: []spec.Sink{spec.Name("lambda_input")},
	})

	return spec.Option(
		spec.Seq(stage1, stage2),
		spec.Seq(stage1, stage3, stage4),
		spec.Seq(stage5),
	)
}

func TestTransformWorkedExample(t *testing.T) {
	data := []float64{0.0, 1.0, 2.0, 3.0}
	engine := New(workedExample())

	results, failures, err := engine.Transform(testCtx(), []any{data}, nil)
	require.NoError(t, err)
	require.Empty(t, failures)
	require.Len(t, results, 4)

	columns := []spec.Sink{
		spec.Index(0), spec.Index(1), spec.Index(2), spec.Index(3),
		spec.Name("y"), spec.Name("lambda_input"),
	}
	filtered := FilterResults(results, columns, true)

	assert.Equal(t, Environment{
		spec.Index(0):  data,
		spec.Index(1):  6.0,
		spec.Index(2):  6.0,
		spec.Name("y"): 1.0,
	}, filtered[0])
	assert.Equal(t, Environment{
		spec.Index(0):  data,
		spec.Index(1):  6.0,
		spec.Index(2):  12.0,
		spec.Name("y"): 2.0,
	}, filtered[1])
	assert.Equal(t, Environment{
		spec.Index(0): data,
		spec.Index(1): 6.0,
		spec.Index(3): 12.0,
	}, filtered[2])
	assert.Equal(t, Environment{
		spec.Index(0):             data,
		spec.Name("lambda_input"): []float64{0, 1, 2, 3},
	}, filtered[3])
}

func TestTransformIsIdempotent(t *testing.T) {
	data := []float64{0.0, 1.0, 2.0, 3.0}
	engine := New(workedExample())

	first, _, err := engine.Transform(testCtx(), []any{data}, nil)
	require.NoError(t, err)
	second, _, err := engine.Transform(testCtx(), []any{data}, nil)
	require.NoError(t, err)

	// The reserved sink holds stage descriptors with live function values,
	// so compare the data-carrying part of each environment.
	strip := func(envs []Environment) []Environment {
		out := make([]Environment, len(envs))
		for i, env := range envs {
			c := env.Clone()
			delete(c, PipelineSink)
			out[i] = c
		}
		return out
	}
	assert.Equal(t, strip(first), strip(second))
}

func TestTransformSeedsNamedAndPositionalInputs(t *testing.T) {
	n := spec.Seq(spec.StageNode(spec.Stage{
		Func: func(a float64, b float64) float64 { return a + b },
		Name: "add",
		In:   []spec.Sink{spec.Index(0), spec.Name("increment")},
		Out:  []spec.Sink{spec.Name("total")},
	}))
	engine := New(n)

	results, failures, err := engine.Transform(testCtx(), []any{40.0}, map[string]any{"increment": 2.0})
	require.NoError(t, err)
	require.Empty(t, failures)
	require.Len(t, results, 1)
	assert.Equal(t, 42.0, results[0][spec.Name("total")])
	// The reserved sink exposes the flat stage list.
	assert.IsType(t, []*spec.StageSpec{}, results[0][PipelineSink])
}

func TestTransformOverwriteLaw(t *testing.T) {
	constStage := func(v float64) *spec.Node {
		return spec.StageNode(spec.Stage{
			Func: func() float64 { return v },
			Name: "const",
			Out:  []spec.Sink{spec.Name("s")},
		})
	}
	engine := New(spec.Seq(constStage(1.0), constStage(2.0)))

	results, _, err := engine.Transform(testCtx(), nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2.0, results[0][spec.Name("s")])
}

func TestTransformMultiOutputLaw(t *testing.T) {
	n := spec.Seq(
		spec.StageNode(spec.Stage{
			Func: func() Outputs { return Outputs{"first", "second"} },
			Name: "pair",
			Out:  []spec.Sink{spec.Name("a"), spec.Name("b")},
		}),
		spec.StageNode(spec.Stage{
			// A bare non-tuple value binds unchanged, not wrapped.
			Func: func() []float64 { return []float64{1, 2} },
			Name: "bare",
			Out:  []spec.Sink{spec.Name("c")},
		}),
	)
	results, _, err := New(n).Transform(testCtx(), nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "first", results[0][spec.Name("a")])
	assert.Equal(t, "second", results[0][spec.Name("b")])
	assert.Equal(t, []float64{1, 2}, results[0][spec.Name("c")])
}

func TestTransformExtraOutputsDiscarded(t *testing.T) {
	n := spec.Seq(spec.StageNode(spec.Stage{
		Func: func() Outputs { return Outputs{1, 2, 3} },
		Name: "wide",
		Out:  []spec.Sink{spec.Name("only")},
	}))
	results, failures, err := New(n).Transform(testCtx(), nil, nil)
	require.NoError(t, err)
	require.Empty(t, failures)
	assert.Equal(t, 1, results[0][spec.Name("only")])
}

func TestTransformShortOutputsFailCombination(t *testing.T) {
	n := spec.Seq(spec.StageNode(spec.Stage{
		Func: func() Outputs { return Outputs{1} },
		Name: "narrow",
		Out:  []spec.Sink{spec.Name("a"), spec.Name("b")},
	}))
	results, failures, err := New(n).Transform(testCtx(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	require.Len(t, failures, 1)
	var invocation *StageInvocationError
	require.ErrorAs(t, failures[0].Err, &invocation)
}

func TestTransformMissingInputIsolation(t *testing.T) {
	good := spec.Seq(spec.StageNode(spec.Stage{
		Func: func() float64 { return 1.0 },
		Name: "ok",
		Out:  []spec.Sink{spec.Name("out")},
	}))
	bad := spec.Seq(spec.StageNode(spec.Stage{
		Func: func(x any) any { return x },
		Name: "needs-undeclared",
		In:   []spec.Sink{spec.Name("undeclared")},
		Out:  []spec.Sink{spec.Name("out")},
	}))

	results, failures, err := New(spec.Option(bad, good)).Transform(testCtx(), nil, nil)
	require.NoError(t, err)

	// The failing combination is absent; its sibling still succeeds.
	require.Len(t, results, 1)
	assert.Equal(t, 1.0, results[0][spec.Name("out")])

	require.Len(t, failures, 1)
	assert.Equal(t, 0, failures[0].Combination)
	var missing *MissingInputError
	require.ErrorAs(t, failures[0].Err, &missing)
	assert.Equal(t, spec.Name("undeclared"), missing.Sink)
	assert.Equal(t, "needs-undeclared", missing.Stage)
}

func TestTransformStageErrorIsolation(t *testing.T) {
	boom := errors.New("boom")
	failing := spec.Seq(spec.StageNode(spec.Stage{
		Func: func() (float64, error) { return 0, boom },
		Name: "failing",
		Out:  []spec.Sink{spec.Name("out")},
	}))
	good := spec.Seq(spec.StageNode(spec.Stage{
		Func: func() float64 { return 2.0 },
		Name: "ok",
		Out:  []spec.Sink{spec.Name("out")},
	}))

	results, failures, err := New(spec.Option(failing, good)).Transform(testCtx(), nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, failures, 1)
	// The stage's own error is preserved behind the isolation wrapper.
	assert.ErrorIs(t, failures[0].Err, boom)
}

func TestTransformMalformedSpecificationIsFatal(t *testing.T) {
	// One branch is malformed: nothing executes, not even the valid branch.
	executed := false
	valid := spec.Seq(spec.StageNode(spec.Stage{
		Func: func() float64 { executed = true; return 1.0 },
		Name: "ok",
		Out:  []spec.Sink{spec.Name("out")},
	}))
	malformed := spec.Seq(spec.Atomic("not a stage"))

	results, failures, err := New(spec.Option(valid, malformed)).Transform(testCtx(), nil, nil)
	var specErr *spec.MalformedSpecificationError
	require.ErrorAs(t, err, &specErr)
	assert.Nil(t, results)
	assert.Nil(t, failures)
	assert.False(t, executed)
}

func TestTransformSubPipeline(t *testing.T) {
	sub := New(spec.Seq(spec.StageNode(spec.Stage{
		Func: func(x float64) float64 { return x * 10 },
		Name: "times-ten",
		In:   []spec.Sink{spec.Index(0)},
		Out:  []spec.Sink{spec.Name("scaled")},
	})))

	outer := spec.Seq(spec.StageNode(spec.Stage{
		Func: sub.AsStage(),
		Name: "namespaced",
		In:   []spec.Sink{spec.Index(0)},
		Out:  []spec.Sink{spec.Name("sub_results")},
	}))

	results, failures, err := New(outer).Transform(testCtx(), []any{4.0}, nil)
	require.NoError(t, err)
	require.Empty(t, failures)
	require.Len(t, results, 1)

	subResults, ok := results[0][spec.Name("sub_results")].([]Environment)
	require.True(t, ok, "sub-pipeline output should be its results list")
	require.Len(t, subResults, 1)
	assert.Equal(t, 40.0, subResults[0][spec.Name("scaled")])
}
