// Package spec defines the specification tree a pipeline grid is authored
// in: a tagged union of stage, sequence, option, and atomic nodes, plus the
// expansion of option axes into concrete trees and the flattening of a
// concrete tree into the ordered stage list.
package spec
