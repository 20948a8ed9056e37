package pipeline

import "github.com/vk/pipegrid/internal/spec"

// PipelineSink is the reserved environment slot bound to the flat stage list
// for the running combination. Stages can read it for introspection or
// sub-pipelining.
var PipelineSink = spec.Name("pipeline")

// Environment maps sinks to the most recently written value for each. One
// environment is created per concrete specification, mutated stage by stage
// in declaration order, and returned as that combination's result.
type Environment map[spec.Sink]any

// Clone returns a shallow copy of the environment.
func (e Environment) Clone() Environment {
	out := make(Environment, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Sinks returns the environment's keys in deterministic order: index sinks
// ascending, then named sinks alphabetically.
func (e Environment) Sinks() []spec.Sink {
	return sortedSinks(e)
}
