// Package testutil provides a standardized harness for grid integration
// tests: fixture files go into a temp dir, the grid is loaded against a
// caller-supplied module set, and the transform runs with debug logging
// captured for assertions.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/pipegrid/internal/ctxlog"
	gridhcl "github.com/vk/pipegrid/internal/hcl"
	"github.com/vk/pipegrid/internal/pipeline"
	"github.com/vk/pipegrid/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of a grid test run.
type HarnessResult struct {
	Grid      *gridhcl.Grid
	Results   []pipeline.Environment
	Failures  []pipeline.Failure
	LogOutput string
	Err       error
}

// RunGridTest writes the given fixture files into a temp directory, loads
// them as a grid with the given modules registered, and runs the transform.
// Load errors are returned in Err with Results left nil.
func RunGridTest(t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	logBuffer := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuffer, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	reg := registry.New(modules...)
	grid, err := gridhcl.NewLoader().Load(ctx, reg, tmpDir)
	if err != nil {
		return &HarnessResult{Grid: grid, LogOutput: logBuffer.String(), Err: err}
	}

	results, failures, err := pipeline.New(grid.Root).Transform(ctx, nil, grid.Inputs)
	return &HarnessResult{
		Grid:      grid,
		Results:   results,
		Failures:  failures,
		LogOutput: logBuffer.String(),
		Err:       err,
	}
}
