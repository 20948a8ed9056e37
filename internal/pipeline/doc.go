// Package pipeline executes concrete specifications: it seeds one mutable
// environment per combination, threads named values through the stages in
// declaration order, isolates failing combinations from their siblings, and
// post-processes the collected result set.
package pipeline
