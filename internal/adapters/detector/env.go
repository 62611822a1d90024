// Package detector chooses between the interactive and the linear renderer.
package detector

import (
	"os"
	"strings"

	"go.trai.ch/recipe/internal/core/domain"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode for a run.
type OutputMode int

const (
	// ModeAuto selects the mode from the environment.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive renderer.
	ModeTUI
	// ModeLinear forces line-prefixed output.
	ModeLinear
)

func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// ParseMode converts a flag value into an OutputMode.
// Accepted values are "auto", "tui", "linear", "ci" and the empty string.
func ParseMode(flag string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "", "auto":
		return ModeAuto, nil
	case "tui":
		return ModeTUI, nil
	case "linear", "ci":
		return ModeLinear, nil
	default:
		return ModeAuto, domain.Annotate(domain.ErrUnknownOutputMode, "mode", flag)
	}
}

// DetectEnvironment returns the mode suited to the current process:
// linear when stdout is not a terminal or CI is set.
func DetectEnvironment() OutputMode {
	return detect(term.IsTerminal(int(os.Stdout.Fd())), os.Getenv("CI"))
}

func detect(isTTY bool, ci string) OutputMode {
	if !isTTY || isCI(ci) {
		return ModeLinear
	}
	return ModeTUI
}

func isCI(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// ResolveMode applies an explicit mode over the detected one.
func ResolveMode(autoDetected, requested OutputMode) OutputMode {
	if requested == ModeAuto {
		return autoDetected
	}
	return requested
}
