package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// Options is a resolved, immutable option tree.
// Nested groups are map[string]any, lists are []any.
type Options struct {
	values map[string]any
}

// NewOptions creates Options from a deep copy of values.
func NewOptions(values map[string]any) Options {
	if values == nil {
		return Options{values: map[string]any{}}
	}
	return Options{values: CloneValue(values).(map[string]any)}
}

// Get returns the value at the dotted path, e.g. "source.options.cwd".
// Paths starting with "$" are treated as full JSONPath expressions.
func (o Options) Get(path string) (any, bool) {
	if o.values == nil || path == "" {
		return nil, false
	}
	if !strings.HasPrefix(path, "$") {
		path = "$." + path
	}
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, false
	}
	found := expr.Get(o.values)
	if len(found) == 0 {
		return nil, false
	}
	return CloneValue(found[0]), true
}

// String returns the value at path formatted as a string, or "" if absent.
func (o Options) String(path string) string {
	v, ok := o.Get(path)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Strings returns the list at path as strings. A scalar yields a single element.
func (o Options) Strings(path string) []string {
	v, ok := o.Get(path)
	if !ok || v == nil {
		return nil
	}
	switch list := v.(type) {
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case []string:
		return list
	default:
		return []string{fmt.Sprint(v)}
	}
}

// Bool returns the boolean at path, or false if absent or not a boolean.
func (o Options) Bool(path string) bool {
	v, ok := o.Get(path)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Map returns a deep copy of the option tree.
func (o Options) Map() map[string]any {
	return NewOptions(o.values).values
}

// Keys returns the sorted top-level keys.
func (o Options) Keys() []string {
	return slices.Sorted(maps.Keys(o.values))
}

// Len returns the number of top-level keys.
func (o Options) Len() int {
	return len(o.values)
}

// CloneValue deep-copies maps and slices inside an option value.
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = CloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		return slices.Clone(val)
	default:
		return v
	}
}
