// Package hcl loads pipeline grids written in HCL and translates them into
// the engine's specification tree. A grid file declares one pipeline block
// whose stage, sequence, and option blocks mirror the tree's node kinds, plus
// an optional inputs block of initial named data. Stage functions are
// resolved by name against the registry at load time.
package hcl
