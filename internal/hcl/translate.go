package hcl

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/pipegrid/internal/registry"
	"github.com/vk/pipegrid/internal/spec"
	"github.com/zclconf/go-cty/cty"
)

// translateBody converts the node blocks of a pipeline, sequence, or option
// body into specification nodes, preserving source order.
func (l *Loader) translateBody(body hcl.Body, reg *registry.Registry) ([]*spec.Node, hcl.Diagnostics) {
	content, diags := body.Content(nodeSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	var nodes []*spec.Node
	for _, block := range content.Blocks {
		switch block.Type {
		case "stage":
			node, moreDiags := l.translateStage(block, reg)
			diags = append(diags, moreDiags...)
			if node != nil {
				nodes = append(nodes, node)
			}
		case "sequence":
			children, moreDiags := l.translateBody(block.Body, reg)
			diags = append(diags, moreDiags...)
			nodes = append(nodes, spec.Seq(children...))
		case "option":
			children, moreDiags := l.translateBody(block.Body, reg)
			diags = append(diags, moreDiags...)
			if len(children) == 0 {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Empty option block",
					Detail:   "An option block needs at least one alternative.",
					Subject:  block.DefRange.Ptr(),
				})
				continue
			}
			nodes = append(nodes, spec.Option(children...))
		}
	}
	return nodes, diags
}

// translateStage converts one stage block, resolving its function name
// through the registry.
func (l *Loader) translateStage(block *hcl.Block, reg *registry.Registry) (*spec.Node, hcl.Diagnostics) {
	funcName := block.Labels[0]
	registered, ok := reg.Lookup(funcName)
	if !ok {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unknown stage function",
			Detail:   fmt.Sprintf("No stage function named %q is registered. Registered: %s.", funcName, strings.Join(reg.Names(), ", ")),
			Subject:  block.DefRange.Ptr(),
		}}
	}

	content, diags := block.Body.Content(stageSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	evalCtx := evalContext()
	st := spec.Stage{Func: registered.Fn, Name: funcName}

	if attr, ok := content.Attributes["name"]; ok {
		val, moreDiags := attr.Expr.Value(evalCtx)
		diags = append(diags, moreDiags...)
		if !moreDiags.HasErrors() {
			if val.IsNull() || val.Type() != cty.String {
				return nil, append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid stage name",
					Detail:   fmt.Sprintf("The name attribute must be a string, got %s.", val.Type().FriendlyName()),
					Subject:  attr.Range.Ptr(),
				})
			}
			st.Name = val.AsString()
		}
	}

	var moreDiags hcl.Diagnostics
	if st.In, moreDiags = l.translateSinks(content.Attributes["in"], evalCtx); moreDiags.HasErrors() {
		return nil, append(diags, moreDiags...)
	}
	if st.Out, moreDiags = l.translateSinks(content.Attributes["out"], evalCtx); moreDiags.HasErrors() {
		return nil, append(diags, moreDiags...)
	}

	for _, kb := range content.Blocks {
		kwargs, moreDiags := l.translateKwargs(kb.Body, evalCtx)
		if moreDiags.HasErrors() {
			return nil, append(diags, moreDiags...)
		}
		if st.Kwargs == nil {
			st.Kwargs = kwargs
		} else {
			for k, v := range kwargs {
				st.Kwargs[k] = v
			}
		}
	}

	return spec.StageNode(st), diags
}

// translateSinks evaluates an in/out attribute into an ordered sink list.
// A missing attribute means the empty list.
func (l *Loader) translateSinks(attr *hcl.Attribute, evalCtx *hcl.EvalContext) ([]spec.Sink, hcl.Diagnostics) {
	if attr == nil {
		return nil, nil
	}
	val, diags := attr.Expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if !val.CanIterateElements() {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid sink list",
			Detail:   fmt.Sprintf("Attribute %q must be a list of sink identifiers.", attr.Name),
			Subject:  attr.Range.Ptr(),
		}}
	}
	var sinks []spec.Sink
	for it := val.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		sink, err := sinkFromCty(ev)
		if err != nil {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid sink identifier",
				Detail:   fmt.Sprintf("In attribute %q: %s.", attr.Name, err),
				Subject:  attr.Range.Ptr(),
			}}
		}
		sinks = append(sinks, sink)
	}
	return sinks, nil
}

// translateKwargs evaluates a kwargs block. A value built with option(...)
// becomes an option node whose alternatives are the call's arguments; any
// other value becomes an atomic node.
func (l *Loader) translateKwargs(body hcl.Body, evalCtx *hcl.EvalContext) (map[string]*spec.Node, hcl.Diagnostics) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	kwargs := make(map[string]*spec.Node, len(attrs))
	for name, attr := range attrs {
		val, moreDiags := attr.Expr.Value(evalCtx)
		if moreDiags.HasErrors() {
			diags = append(diags, moreDiags...)
			continue
		}

		if val.Type().Equals(optionCapsuleType) {
			alts := val.EncapsulatedValue().(*optionAlternatives)
			nodes := make([]*spec.Node, len(alts.values))
			for i, alt := range alts.values {
				gv, err := ctyToGo(alt)
				if err != nil {
					diags = append(diags, &hcl.Diagnostic{
						Severity: hcl.DiagError,
						Summary:  "Invalid option alternative",
						Detail:   fmt.Sprintf("Kwarg %q, alternative %d: %s.", name, i, err),
						Subject:  attr.Range.Ptr(),
					})
					continue
				}
				nodes[i] = spec.Atomic(gv)
			}
			kwargs[name] = spec.Option(nodes...)
			continue
		}

		gv, err := ctyToGo(val)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid kwarg value",
				Detail:   fmt.Sprintf("Kwarg %q: %s.", name, err),
				Subject:  attr.Range.Ptr(),
			})
			continue
		}
		kwargs[name] = spec.Atomic(gv)
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return kwargs, nil
}
