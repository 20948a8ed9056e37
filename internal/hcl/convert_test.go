package hcl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipegrid/internal/spec"
	"github.com/zclconf/go-cty/cty"
)

func TestSinkFromCtyWholeNumber(t *testing.T) {
	sink, err := sinkFromCty(cty.NumberIntVal(3))
	require.NoError(t, err)
	assert.Equal(t, spec.Index(3), sink)
}

func TestSinkFromCtyString(t *testing.T) {
	sink, err := sinkFromCty(cty.StringVal("total"))
	require.NoError(t, err)
	assert.Equal(t, spec.Name("total"), sink)
}

func TestSinkFromCtyFractionalNumber(t *testing.T) {
	_, err := sinkFromCty(cty.NumberFloatVal(1.5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whole number")
}

func TestSinkFromCtyUnsupportedType(t *testing.T) {
	_, err := sinkFromCty(cty.BoolVal(true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "number or string")
}

func TestSinkFromCtyNull(t *testing.T) {
	_, err := sinkFromCty(cty.NullVal(cty.String))
	assert.Error(t, err)
}

func TestCtyToGoScalars(t *testing.T) {
	v, err := ctyToGo(cty.NumberFloatVal(2.5))
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	v, err = ctyToGo(cty.StringVal("x"))
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	v, err = ctyToGo(cty.True)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = ctyToGo(cty.NullVal(cty.String))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCtyToGoCollections(t *testing.T) {
	v, err := ctyToGo(cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.StringVal("a")}))
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, "a"}, v)

	v, err = ctyToGo(cty.ObjectVal(map[string]cty.Value{"n": cty.NumberIntVal(2)}))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": 2.0}, v)
}

func TestCtyToGoUnsupportedType(t *testing.T) {
	capsule := cty.CapsuleVal(optionCapsuleType, &optionAlternatives{})
	_, err := ctyToGo(capsule)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported grid value")
}
