package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"kifunav/internal/adapters/render"
	"kifunav/internal/adapters/sqlite"
	"kifunav/internal/application/commands"
)

var (
	searchFrom    string
	searchAt      string
	searchCurrent string
	searchLimit   int
)

var searchCmd = &cobra.Command{
	Use:   "search [position-key]",
	Short: "Find every record that reaches a position",
	Long: `Search the position index for a position.

Give a position key, or a record and a cursor with --from and --at to
search for the position at that cursor. Hits in the current record
(--current, defaulting to --from) come first and are marked with '*'.

Examples:
  kifunav-cli search --from game.kifu.json --at '24,[]'
  kifunav-cli search --from game.kifu.json --at '9,[{"te":3,"forkIndex":1}]' --current other.kifu.json
  kifunav-cli search 1f0c...`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		e := GetEnv()

		var key string
		switch {
		case len(args) == 1:
			key = args[0]
		case searchFrom != "":
			cursor, err := commands.NewDecodeCursorCommand(searchAt).Execute(ctx)
			if err != nil {
				return err
			}
			if key, err = commands.NewPositionKeyAtCommand(e.Repo, e.Keyer, searchFrom, cursor).Execute(ctx); err != nil {
				return err
			}
		default:
			return fmt.Errorf("give a position key or --from")
		}

		current := searchCurrent
		if current == "" {
			current = searchFrom
		}
		limit := searchLimit
		if limit <= 0 {
			limit = e.Config.Search.MaxResults
		}

		return withIndex(func(idx *sqlite.Index) error {
			search := commands.NewSearchPositionsCommand(idx, idx, e.Repo, key, current)
			search.Logger = e.Logger
			search.Limit = limit

			results, err := search.Execute(ctx)
			if err != nil {
				return err
			}
			render.Results(cmd.OutOrStdout(), results)
			return nil
		})
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "record to take the position from")
	searchCmd.Flags().StringVar(&searchAt, "at", "0,[]", "cursor key of the position in --from")
	searchCmd.Flags().StringVar(&searchCurrent, "current", "", "record currently open")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of hits")
	rootCmd.AddCommand(searchCmd)
}
