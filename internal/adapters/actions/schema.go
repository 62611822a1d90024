// Package actions implements the built-in task actions: exec, copy and clean.
package actions

import (
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Patterns is a list of glob patterns. A single scalar is accepted as a one-element list.
type Patterns []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Patterns) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*p = Patterns{node.Value}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*p = list
	return nil
}

// Glob selects files: patterns evaluated relative to Options.Cwd.
type Glob struct {
	Glob    Patterns    `yaml:"glob"`
	Options GlobOptions `yaml:"options"`
}

// GlobOptions holds glob evaluation settings.
type GlobOptions struct {
	Cwd string `yaml:"cwd"`
}

// Common holds the options every task receives from the preset layers.
type Common struct {
	Project map[string]string `yaml:"project"`
	Debug   bool              `yaml:"debug"`
	Dest    string            `yaml:"dest"`
	Source  *Glob             `yaml:"source"`
	Watch   *Glob             `yaml:"watch"`
	Test    *Glob             `yaml:"test"`
	Task    map[string]any    `yaml:"task"`
}

// CommandLine is an argv list. A scalar is run through "sh -c".
type CommandLine []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *CommandLine) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Value == "" {
			*c = nil
			return nil
		}
		*c = CommandLine{"sh", "-c", node.Value}
		return nil
	}
	var argv []string
	if err := node.Decode(&argv); err != nil {
		return zerr.Wrap(err, "cmd must be a string or a list of strings")
	}
	*c = argv
	return nil
}

// ExecOptions are the options of the exec action.
type ExecOptions struct {
	Common `yaml:",inline"`
	Cmd    CommandLine       `yaml:"cmd"`
	Dir    string            `yaml:"dir"`
	Env    map[string]string `yaml:"env"`
}

// CopyOptions are the options of the copy action.
type CopyOptions struct {
	Common `yaml:",inline"`
}

// CleanOptions are the options of the clean action.
type CleanOptions struct {
	Common `yaml:",inline"`
	Paths  Patterns `yaml:"paths"`
}
