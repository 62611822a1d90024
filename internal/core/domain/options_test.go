package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/recipe/internal/core/domain"
)

func TestOptions_Get(t *testing.T) {
	opts := domain.NewOptions(map[string]any{
		"dest": "dist",
		"source": map[string]any{
			"glob":    []any{"**/*.js", "!vendor/**"},
			"options": map[string]any{"cwd": "src"},
		},
		"debug": true,
		"jobs":  4,
	})

	v, ok := opts.Get("source.options.cwd")
	assert.True(t, ok)
	assert.Equal(t, "src", v)

	_, ok = opts.Get("source.options.missing")
	assert.False(t, ok)

	_, ok = opts.Get("")
	assert.False(t, ok)

	v, ok = opts.Get("$.source.glob[0]")
	assert.True(t, ok)
	assert.Equal(t, "**/*.js", v)

	assert.Equal(t, "dist", opts.String("dest"))
	assert.Equal(t, "4", opts.String("jobs"))
	assert.Empty(t, opts.String("nope"))
	assert.Equal(t, []string{"**/*.js", "!vendor/**"}, opts.Strings("source.glob"))
	assert.Equal(t, []string{"dist"}, opts.Strings("dest"))
	assert.Nil(t, opts.Strings("nope"))
	assert.True(t, opts.Bool("debug"))
	assert.False(t, opts.Bool("dest"))
	assert.Equal(t, []string{"debug", "dest", "jobs", "source"}, opts.Keys())
	assert.Equal(t, 4, opts.Len())
}

func TestOptions_Immutable(t *testing.T) {
	src := map[string]any{"source": map[string]any{"glob": []any{"a"}}}
	opts := domain.NewOptions(src)

	src["source"].(map[string]any)["glob"] = []any{"mutated"}
	assert.Equal(t, []string{"a"}, opts.Strings("source.glob"))

	m := opts.Map()
	m["source"].(map[string]any)["glob"].([]any)[0] = "mutated"
	assert.Equal(t, []string{"a"}, opts.Strings("source.glob"))

	v, _ := opts.Get("source.glob")
	v.([]any)[0] = "mutated"
	assert.Equal(t, []string{"a"}, opts.Strings("source.glob"))
}

func TestOptions_Zero(t *testing.T) {
	var opts domain.Options
	_, ok := opts.Get("a")
	assert.False(t, ok)
	assert.Empty(t, opts.Map())
}
