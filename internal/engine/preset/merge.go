// Package preset resolves layered task options.
package preset

import (
	"maps"
	"slices"
	"strings"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/zerr"
)

// Layer is a partial option mapping.
//
// Later layers override earlier ones key by key. Nested groups merge
// recursively. Lists replace the list below them unless the layer is
// Additive, in which case they are appended to it. A nil value is unset
// and inherits whatever lies below.
type Layer struct {
	Name     string
	Values   map[string]any
	Additive bool
}

// appendList is a list that still has to be appended to the list below it.
type appendList []any

type valueKind int

const (
	kindScalar valueKind = iota
	kindGroup
	kindList
)

func (k valueKind) String() string {
	switch k {
	case kindGroup:
		return "group"
	case kindList:
		return "list"
	default:
		return "scalar"
	}
}

func kindOf(v any) valueKind {
	switch v.(type) {
	case map[string]any:
		return kindGroup
	case []any, []string, appendList:
		return kindList
	default:
		return kindScalar
	}
}

// Merge combines two layers, b on top of a. The operation is associative.
func Merge(a, b Layer) (Layer, error) {
	m := merger{}
	values := normalize(a.Values, a.Additive)
	if err := m.mergeInto(values, b.Values, b.Additive, b.Name, a.Name, ""); err != nil {
		return Layer{}, err
	}
	return Layer{Name: joinNames(a.Name, b.Name), Values: values}, nil
}

// Resolve merges layers in order and returns the resolved options.
func Resolve(layers ...Layer) (domain.Options, error) {
	m := merger{origins: make(map[string]string)}
	values := make(map[string]any)
	for _, l := range layers {
		if err := m.mergeInto(values, l.Values, l.Additive, l.Name, "", ""); err != nil {
			return domain.Options{}, err
		}
	}
	return domain.NewOptions(finalize(values).(map[string]any)), nil
}

type merger struct {
	// origins records which layer last set each key path.
	// It is nil when layer names are not tracked per key.
	origins map[string]string
}

func normalize(values map[string]any, additive bool) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if v == nil {
			continue
		}
		out[k] = normalizeValue(v, additive)
	}
	return out
}

func normalizeValue(v any, additive bool) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if item == nil {
				continue
			}
			out[k] = normalizeValue(item, additive)
		}
		return out
	case appendList:
		return slices.Clone(val)
	case []string:
		list := make([]any, len(val))
		for i, s := range val {
			list[i] = s
		}
		return normalizeValue(list, additive)
	case []any:
		list := make([]any, len(val))
		for i, item := range val {
			list[i] = domain.CloneValue(item)
		}
		if additive {
			return appendList(list)
		}
		return list
	default:
		return v
	}
}

func (m *merger) mergeInto(dst, src map[string]any, additive bool, layer, base, prefix string) error {
	for _, k := range slices.Sorted(maps.Keys(src)) {
		upper := src[k]
		if upper == nil {
			continue
		}
		path := joinPath(prefix, k)
		lower, exists := dst[k]
		if !exists {
			dst[k] = normalizeValue(upper, additive)
			m.recordTree(path, dst[k], layer)
			continue
		}

		lk, uk := kindOf(lower), kindOf(upper)
		if lk != uk {
			return m.conflict(path, lk, uk, layer, base)
		}

		switch uk {
		case kindGroup:
			if err := m.mergeInto(lower.(map[string]any), upper.(map[string]any), additive, layer, base, path); err != nil {
				return err
			}
		case kindList:
			dst[k] = combineLists(lower, normalizeValue(upper, additive))
		default:
			dst[k] = upper
		}
		m.record(path, layer)
	}
	return nil
}

// combineLists puts upper on top of lower. An appendList upper extends
// lower and keeps lower's own additivity.
func combineLists(lower, upper any) any {
	add, ok := upper.(appendList)
	if !ok {
		return upper
	}
	switch l := lower.(type) {
	case appendList:
		return append(slices.Clone(l), add...)
	case []any:
		return append(slices.Clone(l), add...)
	default:
		return upper
	}
}

func (m *merger) record(path, layer string) {
	if m.origins != nil {
		m.origins[path] = layer
	}
}

func (m *merger) recordTree(path string, v any, layer string) {
	if m.origins == nil {
		return
	}
	m.origins[path] = layer
	if group, ok := v.(map[string]any); ok {
		for k, item := range group {
			m.recordTree(joinPath(path, k), item, layer)
		}
	}
}

func (m *merger) conflict(path string, lower, upper valueKind, layer, base string) error {
	if m.origins != nil {
		base = m.origins[path]
	}
	err := domain.Annotate(domain.ErrConfigConflict, "key", path)
	err = zerr.With(err, "layer", layer)
	err = zerr.With(err, "overrides", base)
	return zerr.With(err, "kinds", lower.String()+" -> "+upper.String())
}

// finalize converts pending append lists into plain lists.
func finalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = finalize(item)
		}
		return out
	case appendList:
		return finalize([]any(val))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = finalize(item)
		}
		return out
	default:
		return v
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func joinNames(names ...string) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "+")
}
