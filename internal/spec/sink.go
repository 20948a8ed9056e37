package spec

import "fmt"

// Sink identifies one slot in a pipeline's execution environment. It is a
// closed sum over the two identifier shapes callers can supply: an integer
// index for positional inputs and a string name for everything else. Sinks
// are comparable and usable as map keys.
type Sink struct {
	name  string
	index int
	named bool
}

// Index returns the sink for the positional input slot i.
func Index(i int) Sink {
	return Sink{index: i}
}

// Name returns the sink for the named slot s.
func Name(s string) Sink {
	return Sink{name: s, named: true}
}

// IsName reports whether the sink is a named slot rather than a positional index.
func (s Sink) IsName() bool {
	return s.named
}

// Value returns the positional index of an index sink. It panics on a named sink.
func (s Sink) Value() int {
	if s.named {
		panic(fmt.Sprintf("spec: Value called on named sink %q", s.name))
	}
	return s.index
}

// Label returns the name of a named sink. It panics on an index sink.
func (s Sink) Label() string {
	if !s.named {
		panic(fmt.Sprintf("spec: Label called on index sink %d", s.index))
	}
	return s.name
}

// String implements fmt.Stringer.
func (s Sink) String() string {
	if s.named {
		return s.name
	}
	return fmt.Sprintf("%d", s.index)
}

// Less defines a total order over sinks: index sinks first in ascending
// order, then named sinks alphabetically. Used wherever deterministic
// iteration over sink-keyed maps is required.
func (s Sink) Less(o Sink) bool {
	if s.named != o.named {
		return !s.named
	}
	if s.named {
		return s.name < o.name
	}
	return s.index < o.index
}
