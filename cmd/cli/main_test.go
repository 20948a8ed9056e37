package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	// --- Act ---
	// The run function should see `shouldExit=true` and return a nil error.
	err := run(out, logs, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, logs.String(), "Usage:", "Expected help text to be printed to the log writer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}

	// --- Act ---
	err := run(&bytes.Buffer{}, &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A nil log writer makes the first debug record panic inside app.NewApp,
	// which is guaranteed to exercise the startup recover guard.
	args := []string{"-log-level", "debug", "grid.hcl"}
	out := &bytes.Buffer{}

	// --- Act ---
	// The run function should recover the panic and return it as an error.
	runErr := run(out, nil, args)

	// --- Assert ---
	require.Error(t, runErr, "run() should have returned an error after recovering from a panic")
	require.Contains(t, runErr.Error(), "application startup panicked", "The error message should indicate that a panic was recovered.")
}

func TestRun_InvalidGridFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	invalidHCL := `
		pipeline "broken" {
			stage "sum" {
		// Missing closing braces here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	err := os.WriteFile(filePath, []byte(invalidHCL), 0600)
	require.NoError(t, err, "failed to set up test file")

	// --- Act ---
	runErr := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{filePath})

	// --- Assert ---
	require.Error(t, runErr, "run() should surface the grid parse failure")
	require.Contains(t, runErr.Error(), "failed to load grid")
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	grid := `
pipeline "e2e" {
  stage "sum" {
    in  = ["samples"]
    out = ["total"]
  }
}

inputs {
  samples = [1.0, 2.0, 3.0]
}
`
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "main.hcl"), []byte(grid), 0600))

	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	// --- Act ---
	err := run(out, logs, []string{"-columns", "total", tempDir})

	// --- Assert ---
	require.NoError(t, err)
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out.String())), &record))
	assert.Equal(t, map[string]any{"total": 6.0}, record)
}
