package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"kifunav/internal/adapters/replay"
	"kifunav/internal/application"
	"kifunav/internal/application/commands"
)

var (
	resolveTesuu  int
	resolveForks  []string
	resolvePlayed string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <record>",
	Short: "Find the node matching a replayed position",
	Long: `Replay moves up to a cursor and find the matching node in a record.

The moves are taken from --played, or from the record itself. Replay
stops at the first move the record does not contain; the deepest node
reached is printed with its cursor key and whether the cursor was
reached exactly.

Examples:
  kifunav-cli resolve game.kifu.json --tesuu 12 --fork 3:1
  kifunav-cli resolve game.kifu.json --played edited.kifu.json --tesuu 30`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		repo := GetEnv().Repo

		tree, record, err := commands.NewLoadTreeCommand(repo, args[0]).Execute(ctx)
		if err != nil {
			return err
		}

		played := record
		if resolvePlayed != "" {
			if _, played, err = commands.NewLoadTreeCommand(repo, resolvePlayed).Execute(ctx); err != nil {
				return err
			}
		}

		fps, err := application.ParseForkPointers(resolveForks)
		if err != nil {
			return err
		}

		res, err := commands.NewResolveNodeCommand(tree, replay.NewRecordReplayer(*played), nil, resolveTesuu, fps).Execute(ctx)
		if err != nil {
			return err
		}

		exact := "exact"
		if !res.Exact {
			exact = "diverged"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", res.NodeID, res.Cursor.Key(), exact)
		return nil
	},
}

func init() {
	resolveCmd.Flags().IntVarP(&resolveTesuu, "tesuu", "t", 0, "move number reached in the played record")
	resolveCmd.Flags().StringSliceVarP(&resolveForks, "fork", "f", nil, "branch choice taken as te:forkIndex (repeatable)")
	resolveCmd.Flags().StringVarP(&resolvePlayed, "played", "p", "", "record to replay the moves from")
	rootCmd.AddCommand(resolveCmd)
}
