package commands

import (
	"context"
	"log/slog"

	"kifunav/internal/application"
	"kifunav/internal/domain"
	"kifunav/internal/ports"
)

// DefaultSearchLimit caps the number of hits requested from the backend
const DefaultSearchLimit = 200

// SearchResult wraps domain.PositionHit with where it was found
type SearchResult struct {
	domain.PositionHit
	Key     string // HitKey, stable list identity
	Path    string // Absolute path of the record, empty if unknown
	Current bool   // Hit is in the currently open file
}

// SearchPositionsCommand finds a position across all indexed records and
// promotes hits in the currently open file
type SearchPositionsCommand struct {
	searcher ports.PositionSearcher
	files    ports.FileLocator
	paths    ports.PathResolver
	Logger   *slog.Logger

	PositionKey string
	CurrentPath string // empty when no file is open
	Limit       int
}

// NewSearchPositionsCommand creates a new SearchPositionsCommand
func NewSearchPositionsCommand(
	searcher ports.PositionSearcher,
	files ports.FileLocator,
	paths ports.PathResolver,
	positionKey, currentPath string,
) *SearchPositionsCommand {
	return &SearchPositionsCommand{
		searcher:    searcher,
		files:       files,
		paths:       paths,
		PositionKey: positionKey,
		CurrentPath: currentPath,
		Limit:       DefaultSearchLimit,
	}
}

// Validate checks the command inputs
func (c *SearchPositionsCommand) Validate() error {
	if err := application.ValidateRequired("positionKey", c.PositionKey); err != nil {
		return err
	}
	return application.ValidateNonNegative("limit", c.Limit)
}

// Execute runs the search and returns hits with the current file first
func (c *SearchPositionsCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.searcher == nil {
		return nil, application.ErrNoIndex
	}
	log := loggerOrDefault(c.Logger)

	raw, err := c.searcher.SearchPositions(ctx, c.PositionKey, c.Limit)
	if err != nil {
		return nil, err
	}

	hits := make([]domain.PositionHit, 0, len(raw))
	for _, w := range raw {
		hit, err := domain.HitFromWire(w)
		if err != nil {
			log.Warn("dropping search hit", "file_id", w.FileID, "node_id", w.NodeID, "error", err)
			continue
		}
		hits = append(hits, hit)
	}
	hits = domain.DedupeHits(hits)

	resolve := c.pathCache()
	current := c.currentAbsolutePath(log)
	ordered := domain.OrderHits(hits, func(h domain.PositionHit) string {
		return resolve(h.FileIdentity)
	}, current)

	results := make([]SearchResult, len(ordered))
	for i, h := range ordered {
		path := resolve(h.FileIdentity)
		results[i] = SearchResult{
			PositionHit: h,
			Key:         domain.HitKey(h),
			Path:        path,
			Current:     current != "" && path == current,
		}
	}

	log.Debug("position search", "key", c.PositionKey, "hits", len(results), "current", current)
	return results, nil
}

func (c *SearchPositionsCommand) currentAbsolutePath(log *slog.Logger) string {
	if c.CurrentPath == "" {
		return ""
	}
	if c.paths == nil {
		return c.CurrentPath
	}
	abs, err := c.paths.AbsolutePath(c.CurrentPath)
	if err != nil {
		log.Warn("cannot resolve current file", "path", c.CurrentPath, "error", err)
		return ""
	}
	return abs
}

// pathCache memoizes file id lookups for one search. Unknown ids resolve
// to the empty path and never match the current file.
func (c *SearchPositionsCommand) pathCache() func(fileID string) string {
	cache := make(map[string]string)
	return func(fileID string) string {
		if p, ok := cache[fileID]; ok {
			return p
		}
		var p string
		if c.files != nil {
			if found, err := c.files.FilePath(fileID); err == nil {
				p = found
			}
		}
		cache[fileID] = p
		return p
	}
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
