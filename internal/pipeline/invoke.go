package pipeline

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/pipegrid/internal/spec"
)

// Kwargs carries a stage's named arguments into its function. A function
// backing a stage that declares kwargs must accept a trailing Kwargs
// parameter; the map may be nil when the stage declares none.
type Kwargs map[string]any

// Outputs is a stage's normalized output tuple. A function may return
// Outputs directly to control its tuple, or return multiple values which are
// collected in declaration order; any other single return value becomes a
// one-element tuple.
type Outputs []any

var (
	ctxType    = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType    = reflect.TypeOf((*error)(nil)).Elem()
	kwargsType = reflect.TypeOf(Kwargs(nil))
	outsType   = reflect.TypeOf(Outputs(nil))
)

// invoke calls a stage's function with the resolved input values. The
// function may optionally take a leading context.Context and, when the stage
// declares kwargs, must take a trailing Kwargs parameter. A trailing error
// return is separated from the output values. Panics inside the function are
// recovered and reported as invocation errors so one combination cannot take
// down its siblings.
func invoke(ctx context.Context, st *spec.StageSpec, inputs []any) (outs Outputs, err error) {
	defer func() {
		if r := recover(); r != nil {
			outs = nil
			err = &StageInvocationError{Stage: st.Name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	fv := reflect.ValueOf(st.Func)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return nil, &StageInvocationError{Stage: st.Name, Err: fmt.Errorf("function is %T, not a func", st.Func)}
	}
	ft := fv.Type()

	numIn := ft.NumIn()
	wantsCtx := numIn > 0 && ft.In(0) == ctxType
	wantsKwargs := numIn > 0 && !ft.IsVariadic() && ft.In(numIn-1) == kwargsType
	if len(st.Kwargs) > 0 && !wantsKwargs {
		return nil, &StageInvocationError{
			Stage: st.Name,
			Err:   fmt.Errorf("stage declares kwargs but function %s has no trailing pipeline.Kwargs parameter", ft),
		}
	}

	args := make([]reflect.Value, 0, max(numIn, 1+len(inputs)))
	if wantsCtx {
		args = append(args, reflect.ValueOf(ctx))
	}

	positional := numIn - len(args)
	if wantsKwargs {
		positional--
	}
	if ft.IsVariadic() {
		if len(inputs) < positional-1 {
			return nil, &StageInvocationError{
				Stage: st.Name,
				Err:   fmt.Errorf("function %s needs at least %d inputs, stage resolves %d", ft, positional-1, len(inputs)),
			}
		}
	} else if len(inputs) != positional {
		return nil, &StageInvocationError{
			Stage: st.Name,
			Err:   fmt.Errorf("function %s takes %d inputs, stage resolves %d", ft, positional, len(inputs)),
		}
	}

	for i, in := range inputs {
		var target reflect.Type
		if paramIdx := len(args); ft.IsVariadic() && paramIdx >= numIn-1 {
			target = ft.In(numIn - 1).Elem()
		} else {
			target = ft.In(paramIdx)
		}
		av, cerr := convertArg(in, target)
		if cerr != nil {
			return nil, &StageInvocationError{Stage: st.Name, Err: fmt.Errorf("input %d: %w", i, cerr)}
		}
		args = append(args, av)
	}
	if wantsKwargs {
		args = append(args, reflect.ValueOf(Kwargs(st.Kwargs)))
	}

	results := fv.Call(args)

	numOut := ft.NumOut()
	valueOut := numOut
	if numOut > 0 && ft.Out(numOut-1).Implements(errType) {
		valueOut--
		if errVal := results[numOut-1]; !errVal.IsNil() {
			return nil, &StageInvocationError{Stage: st.Name, Err: errVal.Interface().(error)}
		}
	}

	// Normalize to an output tuple: an explicit Outputs return passes
	// through, everything else is collected positionally.
	if valueOut == 1 && ft.Out(0) == outsType {
		return results[0].Interface().(Outputs), nil
	}
	outs = make(Outputs, valueOut)
	for i := 0; i < valueOut; i++ {
		outs[i] = results[i].Interface()
	}
	return outs, nil
}

// convertArg adapts an environment value to a parameter type. Beyond direct
// assignability it widens numerics and converts slices and maps element-wise
// so grid-loaded values like []any reach typed handler signatures.
func convertArg(v any, target reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch target.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
			return reflect.Zero(target), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use nil as %s", target)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(target) {
		return rv, nil
	}
	if isNumeric(rv.Kind()) && isNumeric(target.Kind()) {
		return rv.Convert(target), nil
	}
	if rv.Kind() == reflect.Slice && target.Kind() == reflect.Slice {
		out := reflect.MakeSlice(target, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := convertArg(rv.Index(i).Interface(), target.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(ev)
		}
		return out, nil
	}
	if rv.Kind() == reflect.Map && target.Kind() == reflect.Map {
		out := reflect.MakeMapWithSize(target, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			kv, err := convertArg(iter.Key().Interface(), target.Key())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("key %v: %w", iter.Key(), err)
			}
			vv, err := convertArg(iter.Value().Interface(), target.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("value for key %v: %w", iter.Key(), err)
			}
			out.SetMapIndex(kv, vv)
		}
		return out, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", v, target)
}

// isNumeric reports whether a reflect kind is an integer or float kind.
func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
