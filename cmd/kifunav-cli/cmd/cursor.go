package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"kifunav/internal/application"
	"kifunav/internal/application/commands"
)

var decodeKey string

var cursorCmd = &cobra.Command{
	Use:   "cursor [tesuu] [te:forkIndex...]",
	Short: "Encode or decode a cursor key",
	Long: `Print the canonical cursor key for a move number and branch choices,
or decode a key back into its parts.

Branch choices are given as te:forkIndex, where forkIndex 0 is the
main line and 1.. are the variations of move te.

Examples:
  kifunav-cli cursor 12
  kifunav-cli cursor 7 3:1
  kifunav-cli cursor --decode '7,[{"te":3,"forkIndex":1}]'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		if decodeKey != "" {
			cursor, err := commands.NewDecodeCursorCommand(decodeKey).Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "tesuu %d\n", cursor.Tesuu)
			for _, fp := range cursor.ForkPointers {
				fmt.Fprintf(out, "fork %d:%d\n", fp.Te, fp.ForkIndex)
			}
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("tesuu is required unless --decode is given")
		}
		tesuu, err := strconv.Atoi(args[0])
		if err != nil {
			return &application.ValidationError{Field: "tesuu", Message: fmt.Sprintf("not a number: %s", args[0])}
		}
		fps, err := application.ParseForkPointers(args[1:])
		if err != nil {
			return err
		}

		cursor, err := commands.NewEncodeCursorCommand(tesuu, fps).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, cursor.Key())
		return nil
	},
}

func init() {
	cursorCmd.Flags().StringVarP(&decodeKey, "decode", "d", "", "cursor key to decode")
	rootCmd.AddCommand(cursorCmd)
}
