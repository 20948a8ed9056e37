package sliceops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipegrid/internal/pipeline"
)

func TestIota(t *testing.T) {
	got, err := Iota(pipeline.Kwargs{"n": 4.0})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3}, got)

	got, err = Iota(pipeline.Kwargs{"n": 2.0, "start": 5.0})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6}, got)

	_, err = Iota(pipeline.Kwargs{})
	assert.Error(t, err)
}

func TestHead(t *testing.T) {
	got, err := Head([]any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "a", got)

	_, err = Head(nil)
	assert.Error(t, err)
}

func TestReverse(t *testing.T) {
	assert.Equal(t, []any{3, 2, 1}, Reverse([]any{1, 2, 3}))
	assert.Empty(t, Reverse(nil))
}

func TestMinMax(t *testing.T) {
	outs, err := MinMax([]float64{3, 1, 4, 1, 5})
	require.NoError(t, err)
	assert.Equal(t, pipeline.Outputs{1.0, 5.0}, outs)

	_, err = MinMax(nil)
	assert.Error(t, err)
}
