package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"kifunav/internal/adapters/render"
	"kifunav/internal/application/commands"
)

var treeCmd = &cobra.Command{
	Use:   "tree <record>",
	Short: "Display the variation tree of a record",
	Long: `Display every position of a record with its cursor key.

Variations are indented under the move they replace and listed before
the main line continues.

Example:
  kifunav-cli tree openings/yagura.kifu.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		tree, _, err := commands.NewLoadTreeCommand(GetEnv().Repo, args[0]).Execute(ctx)
		if err != nil {
			return err
		}

		render.Tree(cmd.OutOrStdout(), tree)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
