package domain

import "time"

// IndexedFile is a record file known to the position index
type IndexedFile struct {
	Path       string // Absolute path (primary key)
	FileID     string // Stable identity assigned on first index
	Generation int64  // Bumped on every re-index of a changed file
	Mtime      int64  // Unix nanoseconds, for incremental sync
	Positions  int
}

// IndexedPosition is one node of a record stored under its position key
type IndexedPosition struct {
	FileID      string
	Generation  int64
	NodeID      NodeID
	PositionKey string
	Cursor      Cursor
}

// SyncStats holds statistics from a sync operation
type SyncStats struct {
	FilesIndexed   int
	FilesUnchanged int
	FilesFailed    int
	PositionsAdded int
	Duration       time.Duration
}
