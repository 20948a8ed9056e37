package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGridPathVariants(t *testing.T) {
	for _, args := range [][]string{
		{"-grid", "grid.hcl"},
		{"-g", "grid.hcl"},
		{"grid.hcl"},
	} {
		cfg, exit, err := Parse(args, &bytes.Buffer{})
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "grid.hcl", cfg.GridPath)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, _, err := Parse([]string{"grid.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Flatten)
	assert.Nil(t, cfg.Columns)
}

func TestParseColumns(t *testing.T) {
	cfg, _, err := Parse([]string{"-columns", "0, total ,y", "grid.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "total", "y"}, cfg.Columns)
}

func TestParseNoArgsPrintsUsage(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse(nil, out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseInvalidLogFormat(t *testing.T) {
	_, _, err := Parse([]string{"-log-format", "xml", "grid.hcl"}, &bytes.Buffer{})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseInvalidLogLevel(t *testing.T) {
	_, _, err := Parse([]string{"-log-level", "loud", "grid.hcl"}, &bytes.Buffer{})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}
