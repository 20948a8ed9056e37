// Package app is the composition root: it builds the application's isolated
// logger and registry, loads the grid, runs the engine, and renders results.
package app
