// Package mathops provides arithmetic stage functions for grids.
package mathops

import (
	"fmt"

	"github.com/vk/pipegrid/internal/pipeline"
	"github.com/vk/pipegrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Sum is the 'sum' stage function: one input, its elements summed.
func Sum(xs []float64) float64 {
	var total float64
	for _, x := range xs {
		total += x
	}
	return total
}

// Product is the 'product' stage function.
func Product(xs []float64) float64 {
	total := 1.0
	for _, x := range xs {
		total *= x
	}
	return total
}

// Scale is the 'scale' stage function: multiplies its input by the 'factor'
// kwarg. Declaring factor as an option axis sweeps the scale.
func Scale(x float64, kw pipeline.Kwargs) (float64, error) {
	factor, ok := kw["factor"].(float64)
	if !ok {
		return 0, fmt.Errorf("scale: kwarg 'factor' must be a number, got %T", kw["factor"])
	}
	return x * factor, nil
}

// Identity is the 'identity' stage function: passes its input through, which
// is how grids rename a sink.
func Identity(v any) any {
	return v
}

// Register registers the stage functions with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage("sum", &registry.RegisteredStage{
		Fn:          Sum,
		Description: "Sum the elements of a numeric list.",
	})
	r.RegisterStage("product", &registry.RegisteredStage{
		Fn:          Product,
		Description: "Multiply the elements of a numeric list.",
	})
	r.RegisterStage("scale", &registry.RegisteredStage{
		Fn:          Scale,
		Description: "Multiply a number by the 'factor' kwarg.",
	})
	r.RegisterStage("identity", &registry.RegisteredStage{
		Fn:          Identity,
		Description: "Pass a value through unchanged.",
	})
}
