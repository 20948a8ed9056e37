package spec

import "sort"

// Expand turns a specification tree into the ordered list of concrete,
// option-free trees it implies. Option nodes contribute the concatenation of
// their alternatives' expansions (a sum axis); sequences and stage kwargs
// contribute cross-products with the last axis varying fastest. Atomic nodes
// expand to themselves. Identical concrete trees arising from distinct
// choices are kept as separate entries, and an empty container expands to
// exactly one combination.
func Expand(n *Node) []*Node {
	switch n.kind {
	case KindOption:
		var out []*Node
		for _, alt := range n.children {
			out = append(out, Expand(alt)...)
		}
		return out

	case KindSequence:
		axes := make([][]*Node, len(n.children))
		for i, child := range n.children {
			axes[i] = Expand(child)
		}
		combos := product(axes)
		out := make([]*Node, len(combos))
		for i, combo := range combos {
			out[i] = &Node{kind: KindSequence, children: combo}
		}
		return out

	case KindStage:
		return expandStage(n.stage)

	default:
		return []*Node{n}
	}
}

// expandStage cross-products the expansions of a stage's kwarg values. Keys
// are visited in sorted order so the axis order, and with it the combination
// order, is deterministic.
func expandStage(s *Stage) []*Node {
	if len(s.Kwargs) == 0 {
		return []*Node{StageNode(*s)}
	}

	keys := make([]string, 0, len(s.Kwargs))
	for k := range s.Kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	axes := make([][]*Node, len(keys))
	for i, k := range keys {
		axes[i] = Expand(s.Kwargs[k])
	}

	combos := product(axes)
	out := make([]*Node, len(combos))
	for i, combo := range combos {
		kwargs := make(map[string]*Node, len(keys))
		for j, k := range keys {
			kwargs[k] = combo[j]
		}
		st := *s
		st.Kwargs = kwargs
		out[i] = StageNode(st)
	}
	return out
}

// product computes the cross-product of the given axes. Axes are consumed
// left to right, so the rightmost axis varies fastest in the result order.
// Zero axes yield a single empty combination.
func product(axes [][]*Node) [][]*Node {
	combos := [][]*Node{{}}
	for _, axis := range axes {
		next := make([][]*Node, 0, len(combos)*len(axis))
		for _, combo := range combos {
			for _, v := range axis {
				extended := make([]*Node, len(combo), len(combo)+1)
				copy(extended, combo)
				next = append(next, append(extended, v))
			}
		}
		combos = next
	}
	return combos
}
