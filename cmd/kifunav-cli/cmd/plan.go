package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"kifunav/internal/adapters/render"
	"kifunav/internal/application"
	"kifunav/internal/application/commands"
	"kifunav/internal/domain"
)

var (
	planSet   []string
	planUnset []int
)

var planCmd = &cobra.Command{
	Use:   "plan <record>",
	Short: "Follow planned branch choices to the end of a line",
	Long: `Apply branch choices to a plan and follow it through the record.

Prints the node and cursor key of the last position, then the moves
leading to it. Choices that are never reached are ignored.

Examples:
  kifunav-cli plan game.kifu.json
  kifunav-cli plan game.kifu.json --set 3:1 --set 9:2
  kifunav-cli plan game.kifu.json --set 3:1 --set 9:2 --unset 9`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		tree, _, err := commands.NewLoadTreeCommand(GetEnv().Repo, args[0]).Execute(ctx)
		if err != nil {
			return err
		}

		fps, err := application.ParseForkPointers(planSet)
		if err != nil {
			return err
		}

		plan := domain.NewForkPlan(nil)
		for _, fp := range fps {
			if plan, err = commands.NewPlanForkCommand(plan, fp.Te, fp.ForkIndex).Execute(ctx); err != nil {
				return err
			}
		}
		for _, te := range planUnset {
			if plan, err = commands.NewClearForkCommand(plan, te).Execute(ctx); err != nil {
				return err
			}
		}

		end, err := commands.NewJumpToPlanEndCommand(tree, plan).Execute(ctx)
		if err != nil {
			return err
		}
		render.End(cmd.OutOrStdout(), end)
		return nil
	},
}

func init() {
	planCmd.Flags().StringSliceVar(&planSet, "set", nil, "plan a branch choice as te:forkIndex (repeatable)")
	planCmd.Flags().IntSliceVar(&planUnset, "unset", nil, "drop the choice at move te (repeatable)")
	rootCmd.AddCommand(planCmd)
}
