package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/recipe/internal/app"
)

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tree, _ := cmd.Flags().GetBool("tree")
			return c.app.List(cmd.Context(), cmd.OutOrStdout(), app.ListOptions{
				ConfigPath: c.configPath,
				Tree:       tree,
			})
		},
	}
	cmd.Flags().BoolP("tree", "t", false, "Print the graph of each aggregate")
	return cmd
}
