package pipeline

import (
	"sort"

	"github.com/vk/pipegrid/internal/spec"
)

// FilterResults post-processes transform results. With flatten set, each
// environment has the keys of nested maps, lists, and stage descriptors
// promoted into the top level, parent before child, first value seen for a
// sink winning. With a non-nil columns allow-list, each (possibly flattened)
// environment is reduced to those sinks. The input environments are never
// mutated and result order is preserved.
func FilterResults(results []Environment, columns []spec.Sink, flatten bool) []Environment {
	out := make([]Environment, 0, len(results))
	for _, env := range results {
		m := env.Clone()
		if flatten {
			m = flattenEnv(env)
		}
		if columns != nil {
			kept := make(Environment, len(columns))
			for _, c := range columns {
				if v, ok := m[c]; ok {
					kept[c] = v
				}
			}
			m = kept
		}
		out = append(out, m)
	}
	return out
}

// flattenEnv promotes every reachable sink-addressable entry into one flat
// environment. Maps contribute their own entries before recursing into the
// values, so ancestors win collisions; sibling order is made deterministic
// by sorted key traversal. Lists contribute their elements' entries without
// introducing index keys of their own, and stage descriptors contribute
// their kwargs, which is how kwarg-declared options surface in flat results.
func flattenEnv(env Environment) Environment {
	flat := make(Environment)

	var walk func(v any)
	promote := func(k spec.Sink, v any) {
		if _, ok := flat[k]; !ok {
			flat[k] = v
		}
		walk(v)
	}

	walk = func(v any) {
		switch t := v.(type) {
		case Environment:
			for _, k := range sortedSinks(t) {
				promote(k, t[k])
			}
		case map[spec.Sink]any:
			for _, k := range sortedSinks(t) {
				promote(k, t[k])
			}
		case map[string]any:
			for _, k := range sortedStrings(t) {
				promote(spec.Name(k), t[k])
			}
		case Kwargs:
			for _, k := range sortedStrings(t) {
				promote(spec.Name(k), t[k])
			}
		case []any:
			for _, elem := range t {
				walk(elem)
			}
		case []Environment:
			for _, elem := range t {
				walk(elem)
			}
		case []*spec.StageSpec:
			for _, st := range t {
				walk(st)
			}
		case *spec.StageSpec:
			for _, k := range sortedStrings(t.Kwargs) {
				promote(spec.Name(k), t.Kwargs[k])
			}
		}
	}

	for _, k := range sortedSinks(env) {
		promote(k, env[k])
	}
	return flat
}

func sortedSinks[V any](m map[spec.Sink]V) []spec.Sink {
	keys := make([]spec.Sink, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

func sortedStrings[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
