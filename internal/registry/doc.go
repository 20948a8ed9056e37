// Package registry binds the stage function names used in grid files to the
// Go functions that implement them. Built-in stage libraries under modules/
// register themselves here; the grid loader resolves names at load time so a
// typo fails before anything runs.
package registry
