// Package sliceops provides list manipulation and generation stage functions.
package sliceops

import (
	"fmt"

	"github.com/vk/pipegrid/internal/pipeline"
	"github.com/vk/pipegrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Iota is the 'iota' stage function: generates [start, start+1, ...) of
// length given by the 'n' kwarg. It takes no inputs, which makes it the
// usual way to feed a grid synthetic data.
func Iota(kw pipeline.Kwargs) ([]float64, error) {
	n, ok := kw["n"].(float64)
	if !ok || n < 0 {
		return nil, fmt.Errorf("iota: kwarg 'n' must be a non-negative number, got %v", kw["n"])
	}
	start := 0.0
	if s, ok := kw["start"].(float64); ok {
		start = s
	}
	out := make([]float64, int(n))
	for i := range out {
		out[i] = start + float64(i)
	}
	return out, nil
}

// Head is the 'head' stage function: first element of a list.
func Head(xs []any) (any, error) {
	if len(xs) == 0 {
		return nil, fmt.Errorf("head: empty list")
	}
	return xs[0], nil
}

// Reverse is the 'reverse' stage function.
func Reverse(xs []any) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[len(xs)-1-i] = x
	}
	return out
}

// MinMax is the 'minmax' stage function: two outputs, the smallest and
// largest element.
func MinMax(xs []float64) (pipeline.Outputs, error) {
	if len(xs) == 0 {
		return nil, fmt.Errorf("minmax: empty list")
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return pipeline.Outputs{lo, hi}, nil
}

// Register registers the stage functions with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage("iota", &registry.RegisteredStage{
		Fn:          Iota,
		Description: "Generate a numeric list of length 'n' starting at 'start'.",
	})
	r.RegisterStage("head", &registry.RegisteredStage{
		Fn:          Head,
		Description: "First element of a list.",
	})
	r.RegisterStage("reverse", &registry.RegisteredStage{
		Fn:          Reverse,
		Description: "Reverse a list.",
	})
	r.RegisterStage("minmax", &registry.RegisteredStage{
		Fn:          MinMax,
		Description: "Smallest and largest element of a numeric list, as two outputs.",
	})
}
