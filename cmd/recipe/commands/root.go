// Package commands implements the CLI commands for the recipe build tool.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/recipe/internal/app"
	"go.trai.ch/recipe/internal/build"
)

// CLI represents the command line interface for recipe.
type CLI struct {
	app        Application
	rootCmd    *cobra.Command
	configPath string
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, name string, opts app.RunOptions) error
	Watch(ctx context.Context, name string, opts app.RunOptions) error
	List(ctx context.Context, w io.Writer, opts app.ListOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "recipe",
		Short:         "Declarative build task orchestration",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate("{{.Name}} version " + build.String() + "\n")
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "",
		"Path to the recipe file (default: search upwards for recipe.yaml)")

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
