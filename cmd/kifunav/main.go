package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"kifunav/internal/adapters/editor"
	"kifunav/internal/adapters/sqlite"
	"kifunav/internal/adapters/tui"
	"kifunav/internal/adapters/tui/views"
	"kifunav/internal/application/commands"
	"kifunav/internal/bootstrap"
)

func main() {
	configFlag := flag.String("config", "", "config file")
	rootFlag := flag.String("root", "", "path to the record library")
	dbFlag := flag.String("db", "", "position index database")
	flag.Parse()

	if err := run(*configFlag, *rootFlag, *dbFlag, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, root, dbPath, initialPath string) error {
	// The alt screen owns the terminal; keep logs out of it
	env, err := bootstrap.Load(bootstrap.Options{
		ConfigPath: configPath,
		Root:       root,
		DBPath:     dbPath,
		LogOutput:  io.Discard,
	})
	if err != nil {
		return err
	}

	idx, err := env.OpenIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	// Catch up with records changed since the last run so search is current
	syncer := env.Syncer(idx)
	if _, err := syncer.Execute(context.Background()); err != nil {
		return fmt.Errorf("sync index: %w", err)
	}

	// Without an argument open the first record of the library
	if initialPath == "" {
		records, err := env.Repo.ListRecords()
		if err != nil {
			return err
		}
		if len(records) > 0 {
			initialPath = records[0]
		}
	}

	// Same path form as the sync walk so an edit updates the existing row
	reindex := func(ctx context.Context, path string) error {
		abs, err := env.Repo.AbsolutePath(path)
		if err != nil {
			return err
		}
		_, err = syncer.IndexFile(ctx, abs)
		return err
	}
	opener := editor.NewOpener(env.Config.Editor.Command, env.Repo.Root())
	app := tui.NewApp(env.Repo, env.Keyer, searchFunc(env, idx), opener, reindex, initialPath)

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func searchFunc(env *bootstrap.Env, idx *sqlite.Index) views.SearchFunc {
	return func(ctx context.Context, positionKey, currentPath string) ([]commands.SearchResult, error) {
		cmd := commands.NewSearchPositionsCommand(idx, idx, env.Repo, positionKey, currentPath)
		cmd.Logger = env.Logger
		cmd.Limit = env.Config.Search.MaxResults
		return cmd.Execute(ctx)
	}
}
