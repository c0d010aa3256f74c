// Package bootstrap wires configuration, logging, the record library and
// the position index together for the kifunav binaries.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"kifunav/internal/adapters/filesystem"
	"kifunav/internal/adapters/replay"
	"kifunav/internal/adapters/sqlite"
	"kifunav/internal/adapters/watcher"
	"kifunav/internal/application/commands"
	"kifunav/internal/config"
	"kifunav/internal/logging"
	"kifunav/internal/ports"
)

// Options are the settings given on the command line. Empty fields
// leave the configured value alone.
type Options struct {
	ConfigPath string
	Root       string
	DBPath     string
	LogLevel   string
	LogOutput  io.Writer
}

// Env holds what every binary needs
type Env struct {
	Config *config.Config
	Logger *slog.Logger
	Repo   *filesystem.Repository
	Keyer  ports.PositionKeyer
}

// Load reads the configuration and sets up logging and the library
func Load(opts Options) (*Env, error) {
	cfg, err := config.LoadFor(opts.ConfigPath, opts.Root)
	if err != nil {
		return nil, err
	}
	if opts.DBPath != "" {
		cfg.Index.DBPath = opts.DBPath
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger, err := logging.SetupDefault(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: opts.LogOutput,
	})
	if err != nil {
		return nil, err
	}

	return &Env{
		Config: cfg,
		Logger: logger,
		Repo:   filesystem.NewRepository(cfg.Library.Root, cfg.Library.Extension),
		Keyer:  replay.SequenceKeyer{},
	}, nil
}

// DBPath returns the configured database path, or the per-library default
func (e *Env) DBPath() (string, error) {
	if e.Config.Index.DBPath != "" {
		return e.Config.Index.DBPath, nil
	}
	root, err := e.Repo.AbsolutePath(e.Repo.Root())
	if err != nil {
		return "", err
	}
	return sqlite.DatabasePath(root), nil
}

// OpenIndex opens the position index. The caller closes it.
func (e *Env) OpenIndex() (*sqlite.Index, error) {
	path, err := e.DBPath()
	if err != nil {
		return nil, err
	}

	idx := sqlite.NewIndex(e.Config.Index.CacheSize)
	if err := idx.Open(path); err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	e.Logger.Debug("opened index", "path", path)
	return idx, nil
}

// Syncer returns the command that brings index in line with the library
func (e *Env) Syncer(index ports.PositionIndex) *commands.IndexLibraryCommand {
	cmd := commands.NewIndexLibraryCommand(e.Repo, index, e.Keyer)
	cmd.Logger = e.Logger
	return cmd
}

// Watch re-indexes records as they change until ctx is done
func (e *Env) Watch(ctx context.Context, index ports.PositionIndex) error {
	w, err := watcher.New(e.Repo.Root(), e.Config.Library.Extension, watcher.DefaultDebounce)
	if err != nil {
		return err
	}
	w.Logger = e.Logger
	syncer := e.Syncer(index)

	e.Logger.Info("watching library", "root", w.Root())
	return w.Run(ctx, func(ev watcher.Event) {
		var err error
		switch ev.Op {
		case watcher.OpRemoved:
			err = index.RemoveFile(ev.Path)
		default:
			_, err = syncer.IndexFile(ctx, ev.Path)
		}
		if err != nil {
			e.Logger.Warn("watch update failed", "path", ev.Path, "op", ev.Op, "error", err)
			return
		}
		e.Logger.Info("record updated", "path", ev.Path, "op", ev.Op)
	})
}
