package commands

import (
	"context"
	"log/slog"
	"time"

	"kifunav/internal/application"
	"kifunav/internal/domain"
	"kifunav/internal/ports"
)

// IndexLibraryCommand brings the position index in line with the records
// in the library. Unchanged files are skipped; files that disappeared are
// dropped from the index.
type IndexLibraryCommand struct {
	loader ports.RecordLoader
	index  ports.PositionIndex
	keyer  ports.PositionKeyer
	Logger *slog.Logger

	// Force re-indexes files even when their mtime is unchanged
	Force bool
}

// NewIndexLibraryCommand creates a new IndexLibraryCommand
func NewIndexLibraryCommand(loader ports.RecordLoader, index ports.PositionIndex, keyer ports.PositionKeyer) *IndexLibraryCommand {
	return &IndexLibraryCommand{loader: loader, index: index, keyer: keyer}
}

// Execute runs the sync
func (c *IndexLibraryCommand) Execute(ctx context.Context) (*domain.SyncStats, error) {
	if c.index == nil {
		return nil, application.ErrNoIndex
	}
	log := loggerOrDefault(c.Logger)
	start := time.Now()
	stats := &domain.SyncStats{}

	paths, err := c.loader.ListRecords()
	if err != nil {
		return nil, err
	}

	present := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		present[path] = struct{}{}

		changed, positions, err := c.indexOne(ctx, path)
		switch {
		case err != nil:
			stats.FilesFailed++
			log.Warn("index failed", "path", path, "error", err)
		case !changed:
			stats.FilesUnchanged++
		default:
			stats.FilesIndexed++
			stats.PositionsAdded += positions
			log.Debug("indexed record", "path", path, "positions", positions)
		}
	}

	known, err := c.index.ListFiles()
	if err != nil {
		return stats, err
	}
	for _, f := range known {
		if _, ok := present[f.Path]; ok {
			continue
		}
		if err := c.index.RemoveFile(f.Path); err != nil {
			log.Warn("remove stale record failed", "path", f.Path, "error", err)
			continue
		}
		log.Debug("removed stale record", "path", f.Path)
	}

	stats.Duration = time.Since(start)
	log.Info("index sync complete",
		"indexed", stats.FilesIndexed,
		"unchanged", stats.FilesUnchanged,
		"failed", stats.FilesFailed,
		"positions", stats.PositionsAdded,
		"duration", stats.Duration,
	)
	return stats, nil
}

// IndexFile re-indexes a single record regardless of its mtime
func (c *IndexLibraryCommand) IndexFile(ctx context.Context, path string) (*domain.IndexedFile, error) {
	if c.index == nil {
		return nil, application.ErrNoIndex
	}
	mtime, err := c.loader.Mtime(path)
	if err != nil {
		return nil, &application.RecordError{Path: path, Reason: "stat failed", Err: err}
	}
	return c.store(ctx, path, mtime)
}

func (c *IndexLibraryCommand) indexOne(ctx context.Context, path string) (bool, int, error) {
	mtime, err := c.loader.Mtime(path)
	if err != nil {
		return false, 0, &application.RecordError{Path: path, Reason: "stat failed", Err: err}
	}

	if !c.Force {
		existing, err := c.index.GetFile(path)
		if err != nil {
			return false, 0, err
		}
		if existing != nil && existing.Mtime == mtime {
			return false, 0, nil
		}
	}

	f, err := c.store(ctx, path, mtime)
	if err != nil {
		return false, 0, err
	}
	return true, f.Positions, nil
}

func (c *IndexLibraryCommand) store(ctx context.Context, path string, mtime int64) (*domain.IndexedFile, error) {
	record, err := c.loader.LoadRecord(path)
	if err != nil {
		return nil, &application.RecordError{Path: path, Reason: "load failed", Err: err}
	}

	tree := domain.BuildTree(*record)
	return c.index.IndexRecord(ctx, path, mtime, tree, c.keyer.PositionKeys(tree))
}
