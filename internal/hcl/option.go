package hcl

import (
	"errors"
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// optionAlternatives is the Go payload carried by an option(...) capsule
// value until the loader turns it into an option node.
type optionAlternatives struct {
	values []cty.Value
}

// optionCapsuleType wraps option alternatives so they can travel through
// ordinary HCL expression evaluation.
var optionCapsuleType = cty.Capsule("option", reflect.TypeOf(optionAlternatives{}))

// optionFunc is the grid-side `option(...)` function. Each argument becomes
// one alternative of an option axis on the kwarg it is assigned to.
var optionFunc = function.New(&function.Spec{
	VarParam: &function.Parameter{
		Name:             "alternative",
		Type:             cty.DynamicPseudoType,
		AllowDynamicType: true,
	},
	Type: function.StaticReturnType(optionCapsuleType),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		if len(args) == 0 {
			return cty.NilVal, errors.New("option() needs at least one alternative")
		}
		alts := make([]cty.Value, len(args))
		copy(alts, args)
		return cty.CapsuleVal(optionCapsuleType, &optionAlternatives{values: alts}), nil
	},
})

// evalContext builds the EvalContext grid expressions evaluate in.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"option": optionFunc,
		},
	}
}
