package spec

// Kind discriminates the four node shapes a specification tree is built from.
type Kind int

const (
	// KindAtomic is any plain value: a constant, a function, a kwarg literal.
	KindAtomic Kind = iota
	// KindStage is a single processing step.
	KindStage
	// KindSequence is an ordered list of child nodes, executed in order.
	KindSequence
	// KindOption is a mutually exclusive choice between its alternatives.
	KindOption
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindAtomic:
		return "atomic"
	case KindStage:
		return "stage"
	case KindSequence:
		return "sequence"
	case KindOption:
		return "option"
	}
	return "unknown"
}

// Stage describes one processing step before expansion. Kwargs values are
// full specification nodes so that a kwarg can carry an Option axis; after
// expansion each kwarg value is a single atomic node.
type Stage struct {
	// Func is the Go function invoked for this stage. Any func shape is
	// accepted; the call adapter in the pipeline package resolves it.
	Func any
	// Name labels the stage in logs and errors. Grids set it to the
	// registered function name or the instance label.
	Name string
	// In lists the sinks read, in positional argument order.
	In []Sink
	// Out lists the sinks written, in output order.
	Out []Sink
	// Kwargs holds named arguments passed to Func.
	Kwargs map[string]*Node
}

// StageSpec is a fully resolved stage descriptor as seen by the executor:
// option-free, with kwargs reduced to plain values.
type StageSpec struct {
	Func   any
	Name   string
	In     []Sink
	Out    []Sink
	Kwargs map[string]any
}

// Node is one vertex of a specification tree. The kind discriminator is
// fixed at construction; container types never carry semantic meaning on
// their own.
type Node struct {
	kind     Kind
	atom     any
	stage    *Stage
	children []*Node
}

// Atomic wraps a plain value as a leaf node.
func Atomic(v any) *Node {
	return &Node{kind: KindAtomic, atom: v}
}

// StageNode wraps a stage description as a node.
func StageNode(s Stage) *Node {
	return &Node{kind: KindStage, stage: &s}
}

// Seq builds a sequence node from children in execution order.
func Seq(children ...*Node) *Node {
	return &Node{kind: KindSequence, children: children}
}

// Option builds a choice node from its alternatives in declaration order.
func Option(alternatives ...*Node) *Node {
	return &Node{kind: KindOption, children: alternatives}
}

// Kind returns the node's discriminator.
func (n *Node) Kind() Kind {
	return n.kind
}

// Atom returns the payload of an atomic node, or nil for other kinds.
func (n *Node) Atom() any {
	return n.atom
}

// Stage returns the payload of a stage node, or nil for other kinds.
func (n *Node) Stage() *Stage {
	return n.stage
}

// Children returns the child nodes of a sequence or option node.
func (n *Node) Children() []*Node {
	return n.children
}
