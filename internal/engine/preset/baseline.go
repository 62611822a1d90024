package preset

// DefaultsLayer is the name of the baseline layer shared by every category.
const DefaultsLayer = "defaults"

// Baseline returns the library defaults: one layer shared by every task and
// one layer per known category. Each call returns fresh maps.
func Baseline() map[string]Layer {
	layers := map[string]map[string]any{
		DefaultsLayer: {
			"debug": false,
			"dest":  "dist",
		},
		"javascripts": {
			"source": group("**/*.js", "app/assets/javascripts"),
			"watch":  group("**/*.js", "app/assets/javascripts"),
			"test":   group("**/*.js", "spec/javascripts"),
			"dest":   "dist/js",
		},
		"stylesheets": {
			"source": group([]any{"*.scss", "!_*.scss"}, "app/assets/stylesheets"),
			"watch":  group("**/*.scss", "app/assets/stylesheets"),
			"dest":   "dist/css",
		},
		"images": {
			"source": group("**", "app/assets/images"),
			"watch":  group("**", "app/assets/images"),
			"dest":   "dist/images",
		},
		"fonts": {
			"source": group("**", "app/assets/fonts"),
			"watch":  group("**", "app/assets/fonts"),
			"dest":   "dist/fonts",
		},
		"copy": {
			"source": group("**", "."),
		},
		"clean": {},
	}

	out := make(map[string]Layer, len(layers))
	for name, values := range layers {
		out[name] = Layer{Name: "baseline." + name, Values: values}
	}
	return out
}

func group(glob any, cwd string) map[string]any {
	if s, ok := glob.(string); ok {
		glob = []any{s}
	}
	return map[string]any{
		"glob":    glob,
		"options": map[string]any{"cwd": cwd},
	}
}
