package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/recipe/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <aggregate>",
		Short: "Run a registered aggregate",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Run(cmd.Context(), aggregateName(args), c.runOptions(cmd))
		},
	}
	addRunFlags(cmd)
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <aggregate>",
		Short: "Run an aggregate and rerun it when its source files change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Watch(cmd.Context(), aggregateName(args), c.runOptions(cmd))
		},
	}
	addRunFlags(cmd)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	cmd.Flags().IntP("jobs", "j", 0, "Maximum number of tasks running at once (default: number of CPUs)")
}

func (c *CLI) runOptions(cmd *cobra.Command) app.RunOptions {
	debug, _ := cmd.Flags().GetBool("debug")
	outputMode, _ := cmd.Flags().GetString("output-mode")
	ci, _ := cmd.Flags().GetBool("ci")
	jobs, _ := cmd.Flags().GetInt("jobs")

	// If --ci is set, override output-mode to "linear"
	if ci {
		outputMode = "linear"
	}

	return app.RunOptions{
		Debug:       debug,
		OutputMode:  outputMode,
		Concurrency: jobs,
		ConfigPath:  c.configPath,
	}
}

// aggregateName returns the requested aggregate, or "" so the app reports
// that none was specified.
func aggregateName(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
