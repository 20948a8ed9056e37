package spec

import "fmt"

// Flatten converts a concrete specification into the flat, ordered stage
// list the executor runs. Sequence nesting is removed depth-first, left to
// right. The input must already be option-free: encountering an option node,
// a stage with no function, or an atomic value where a stage is expected is
// a structural error.
func Flatten(n *Node) ([]*StageSpec, error) {
	switch n.kind {
	case KindSequence:
		var stages []*StageSpec
		for _, child := range n.children {
			childStages, err := Flatten(child)
			if err != nil {
				return nil, err
			}
			stages = append(stages, childStages...)
		}
		return stages, nil

	case KindStage:
		st, err := resolveStage(n.stage)
		if err != nil {
			return nil, err
		}
		return []*StageSpec{st}, nil

	case KindOption:
		return nil, &MalformedSpecificationError{
			Reason: "option node present; the specification must be expanded before flattening",
		}

	default:
		return nil, &MalformedSpecificationError{
			Reason: fmt.Sprintf("atomic value %v found where a stage or sequence is required", n.atom),
		}
	}
}

// resolveStage turns a concrete stage node into its executable descriptor,
// reducing each kwarg to the plain value of its atomic node.
func resolveStage(s *Stage) (*StageSpec, error) {
	if s.Func == nil {
		return nil, &MalformedSpecificationError{
			Reason: fmt.Sprintf("stage %q has no function", s.Name),
		}
	}

	var kwargs map[string]any
	if len(s.Kwargs) > 0 {
		kwargs = make(map[string]any, len(s.Kwargs))
		for k, v := range s.Kwargs {
			if v.kind != KindAtomic {
				return nil, &MalformedSpecificationError{
					Reason: fmt.Sprintf("stage %q kwarg %q is a %s node; kwargs must be atomic after expansion", s.Name, k, v.kind),
				}
			}
			kwargs[k] = v.atom
		}
	}

	return &StageSpec{
		Func:   s.Func,
		Name:   s.Name,
		In:     s.In,
		Out:    s.Out,
		Kwargs: kwargs,
	}, nil
}
