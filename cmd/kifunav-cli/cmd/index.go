package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kifunav/internal/adapters/render"
	"kifunav/internal/adapters/sqlite"
)

var (
	indexForce bool
	indexWatch bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Update the position index",
	Long: `Bring the position index in line with the record library.

Records whose modification time is unchanged are skipped unless
--force is given. Records that disappeared are dropped. With --watch
the command keeps running and re-indexes records as they change.

Examples:
  kifunav-cli index
  kifunav-cli index --force
  kifunav-cli index --watch`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withIndex(func(idx *sqlite.Index) error {
			syncer := GetEnv().Syncer(idx)
			syncer.Force = indexForce

			stats, err := syncer.Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Stats(stats))

			if !indexWatch {
				return nil
			}
			if err := GetEnv().Watch(ctx, idx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	},
}

func init() {
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "re-index every record")
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "keep indexing records as they change")
	rootCmd.AddCommand(indexCmd)
}
