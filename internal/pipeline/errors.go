package pipeline

import (
	"fmt"

	"github.com/vk/pipegrid/internal/spec"
)

// MissingInputError reports a stage whose declared input sink had no value
// in the environment at execution time: the sink was never produced, or was
// produced under a different identifier.
type MissingInputError struct {
	Sink  spec.Sink
	Stage string
}

// Error implements the error interface.
func (e *MissingInputError) Error() string {
	return fmt.Sprintf("stage %q: no value for input sink %q", e.Stage, e.Sink)
}

// StageInvocationError reports a stage function that failed: it returned an
// error, panicked, could not be called with the resolved inputs, or produced
// fewer outputs than the stage declares. The underlying cause is preserved
// for errors.Unwrap.
type StageInvocationError struct {
	Stage string
	Err   error
}

// Error implements the error interface.
func (e *StageInvocationError) Error() string {
	return fmt.Sprintf("stage %q: %v", e.Stage, e.Err)
}

// Unwrap exposes the wrapped cause.
func (e *StageInvocationError) Unwrap() error {
	return e.Err
}
