package ports

import (
	"context"

	"kifunav/internal/domain"
)

// PositionSearcher finds positions across indexed records.
// Hits come back in the backend's wire format and relevance order.
type PositionSearcher interface {
	SearchPositions(ctx context.Context, positionKey string, limit int) ([]domain.WireHit, error)
}

// FileLocator maps file identities found in hits back to paths
type FileLocator interface {
	FilePath(fileID string) (string, error)
}

// PositionIndex stores the positions of every record in a library.
type PositionIndex interface {
	PositionSearcher
	FileLocator

	// Lifecycle
	Open(dbPath string) error
	Close() error

	// IndexRecord replaces the stored positions of one file. The file keeps
	// its identity across calls; its generation moves on when mtime changes.
	IndexRecord(ctx context.Context, path string, mtime int64, tree domain.Tree, keys map[domain.NodeID]string) (*domain.IndexedFile, error)

	// File queries
	GetFile(path string) (*domain.IndexedFile, error)
	ListFiles() ([]domain.IndexedFile, error)
	RemoveFile(path string) error
}

// PositionKeyer derives a search key for every node of a tree.
// Nodes that reach the same position share a key.
type PositionKeyer interface {
	PositionKeys(tree domain.Tree) map[domain.NodeID]string
}
