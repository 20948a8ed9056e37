package hcl

import (
	"fmt"
	"math/big"

	"github.com/vk/pipegrid/internal/spec"
	"github.com/zclconf/go-cty/cty"
)

// ctyToGo converts an evaluated grid value into the native Go value that
// flows through the execution environment. Numbers become float64, which is
// the one number type HCL has; collections convert recursively.
func ctyToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	switch {
	case ty == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f, nil
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			gv, err := ctyToGo(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, gv)
		}
		return out, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			gv, err := ctyToGo(ev)
			if err != nil {
				return nil, err
			}
			out[kv.AsString()] = gv
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported grid value of type %s", ty.FriendlyName())
}

// sinkFromCty converts one element of an in/out list into a sink: whole
// numbers are positional indexes, strings are names.
func sinkFromCty(val cty.Value) (spec.Sink, error) {
	if val.IsNull() {
		return spec.Sink{}, fmt.Errorf("sink identifier must not be null")
	}
	switch val.Type() {
	case cty.Number:
		i, acc := val.AsBigFloat().Int64()
		if acc != big.Exact {
			return spec.Sink{}, fmt.Errorf("sink index %s is not a whole number", val.AsBigFloat().String())
		}
		return spec.Index(int(i)), nil
	case cty.String:
		return spec.Name(val.AsString()), nil
	}
	return spec.Sink{}, fmt.Errorf("sink identifier must be a number or string, got %s", val.Type().FriendlyName())
}
