package spec

// MalformedSpecificationError reports a node that violates the structural
// contract of the specification tree. Malformation is fatal for the whole
// transform: no combination executes until the entire tree expands and
// flattens cleanly.
type MalformedSpecificationError struct {
	Reason string
}

// Error implements the error interface.
func (e *MalformedSpecificationError) Error() string {
	return "malformed specification: " + e.Reason
}
