package domain

// Project holds the package metadata read once at setup time.
type Project struct {
	Name        string
	Version     string
	Author      string
	Homepage    string
	Description string
	License     string
}

// Layer exposes the metadata as an option group under the "project" key,
// so tasks can read e.g. "project.version" from their resolved options.
func (p Project) Layer() map[string]any {
	group := map[string]any{}
	for k, v := range map[string]string{
		"name":        p.Name,
		"version":     p.Version,
		"author":      p.Author,
		"homepage":    p.Homepage,
		"description": p.Description,
		"license":     p.License,
	} {
		if v != "" {
			group[k] = v
		}
	}
	return map[string]any{"project": group}
}

// Setup is the result of the declarative setup phase.
type Setup struct {
	Project  Project
	Registry *Registry
	Root     string
}
