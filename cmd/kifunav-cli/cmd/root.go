package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kifunav/internal/adapters/sqlite"
	"kifunav/internal/bootstrap"
	"kifunav/internal/config"
)

var (
	configPath string
	rootPath   string
	dbPath     string
	logLevel   string
	env        *bootstrap.Env
)

var rootCmd = &cobra.Command{
	Use:   "kifunav-cli",
	Short: "Navigate and search shogi game records",
	Long: `kifunav-cli works with a library of parsed shogi game records.

It encodes cursors, prints variation trees, follows planned branch
choices, resolves positions replayed from edited copies, and searches
a position index for every record that reaches a position.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		env, err = bootstrap.Load(bootstrap.Options{
			ConfigPath: configPath,
			Root:       rootPath,
			DBPath:     dbPath,
			LogLevel:   logLevel,
			LogOutput:  cmd.ErrOrStderr(),
		})
		return err
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootPath, "root", "r", "", "path to the record library (default "+config.LibraryRoot()+")")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default "+config.UserConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "position index database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// GetEnv returns the initialized environment
func GetEnv() *bootstrap.Env {
	return env
}

// withIndex opens the position index for the duration of fn
func withIndex(fn func(idx *sqlite.Index) error) error {
	idx, err := GetEnv().OpenIndex()
	if err != nil {
		return err
	}
	defer idx.Close()
	return fn(idx)
}
