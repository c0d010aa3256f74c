package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/mattn/go-sqlite3"

	"kifunav/internal/domain"
	"kifunav/internal/ports"
)

const (
	schemaVersion = "1"

	// DefaultCacheSize is the number of search results kept in memory
	DefaultCacheSize = 256
)

// ErrUnknownFile is returned when a file identity is not in the index
var ErrUnknownFile = errors.New("unknown file")

// Index implements ports.PositionIndex using SQLite
type Index struct {
	db     *sql.DB
	dbPath string
	lock   *flock.Flock
	cache  *lru.Cache[string, cachedHits]

	cacheSize int
}

// Ensure Index implements PositionIndex
var _ ports.PositionIndex = (*Index)(nil)

// NewIndex creates a new SQLite index. cacheSize <= 0 uses DefaultCacheSize.
func NewIndex(cacheSize int) *Index {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &Index{cacheSize: cacheSize}
}

// Open initializes the index stored at dbPath
func (idx *Index) Open(dbPath string) error {
	// Expand ~ in path
	if len(dbPath) > 0 && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}
	idx.dbPath = dbPath

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(idx.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	cache, err := lru.New[string, cachedHits](idx.cacheSize)
	if err != nil {
		return fmt.Errorf("failed to create search cache: %w", err)
	}
	idx.cache = cache
	idx.lock = flock.New(idx.dbPath + ".lock")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite3", idx.dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			file_id TEXT NOT NULL UNIQUE,
			generation INTEGER NOT NULL,
			mtime INTEGER NOT NULL,
			positions INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS positions (
			file_id TEXT NOT NULL REFERENCES files(file_id) ON DELETE CASCADE,
			node_id TEXT NOT NULL,
			position_key TEXT NOT NULL,
			tesuu INTEGER NOT NULL,
			cursor TEXT NOT NULL,
			PRIMARY KEY (file_id, node_id)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_positions_key ON positions(position_key);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	// Update metadata
	if err := idx.updateMeta(); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// NeedsFullRebuild returns true if the index was written by another schema
func (idx *Index) NeedsFullRebuild() bool {
	var version string
	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	return version != schemaVersion
}

// DatabasePath returns the default database location for a library root
func DatabasePath(libraryRoot string) string {
	// XDG data directory
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "kifunav", hashLibraryPath(libraryRoot)+".db")
}

// hashLibraryPath returns a short hash of the library path
func hashLibraryPath(root string) string {
	h := sha256.Sum256([]byte(root))
	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars
}

// updateMeta records the schema version
func (idx *Index) updateMeta() error {
	_, err := idx.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
	return err
}

// IndexRecord replaces the positions stored for one file
func (idx *Index) IndexRecord(
	ctx context.Context,
	path string,
	mtime int64,
	tree domain.Tree,
	keys map[domain.NodeID]string,
) (*domain.IndexedFile, error) {
	unlock, err := idx.writeLock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	tx, err := idx.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	existing, err := tx.getFile(path)
	if err != nil {
		return nil, err
	}

	file := &domain.IndexedFile{Path: path, Mtime: mtime}
	switch {
	case existing == nil:
		file.FileID = uuid.NewString()
		file.Generation = 1
	case existing.Mtime != mtime:
		file.FileID = existing.FileID
		file.Generation = existing.Generation + 1
	default:
		file.FileID = existing.FileID
		file.Generation = existing.Generation
	}

	if err := tx.upsertFile(file); err != nil {
		return nil, fmt.Errorf("failed to store file %s: %w", path, err)
	}
	if err := tx.deletePositions(file.FileID); err != nil {
		return nil, fmt.Errorf("failed to clear positions of %s: %w", path, err)
	}

	for id, key := range keys {
		cursor, ok := tree.CursorOf(id)
		if !ok {
			continue
		}
		cursorJSON, err := json.Marshal(domain.ToWireCursor(cursor))
		if err != nil {
			return nil, err
		}
		if err := tx.insertPosition(file.FileID, id, key, cursor.Tesuu, string(cursorJSON)); err != nil {
			return nil, fmt.Errorf("failed to store position %s: %w", id, err)
		}
		file.Positions++
	}

	if err := tx.setPositionCount(file.FileID, file.Positions); err != nil {
		return nil, err
	}
	if err := tx.bumpRevision(); err != nil {
		return nil, fmt.Errorf("failed to bump index revision: %w", err)
	}
	if err := tx.commit(); err != nil {
		return nil, err
	}

	idx.cache.Purge()
	return file, nil
}

// RemoveFile drops a file and its positions
func (idx *Index) RemoveFile(path string) error {
	unlock, err := idx.writeLock(context.Background())
	if err != nil {
		return err
	}
	defer unlock()

	tx, err := idx.beginTx(context.Background())
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.deleteFile(path); err != nil {
		return err
	}
	if err := tx.bumpRevision(); err != nil {
		return fmt.Errorf("failed to bump index revision: %w", err)
	}
	if err := tx.commit(); err != nil {
		return err
	}

	idx.cache.Purge()
	return nil
}

// revision returns the write counter shared by every process using the
// database, "0" before the first write
func (idx *Index) revision(ctx context.Context) (string, error) {
	var rev string
	err := idx.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'revision'`).Scan(&rev)
	if err == sql.ErrNoRows {
		return "0", nil
	}
	return rev, err
}

// GetFile retrieves a file by path, nil if it is not indexed
func (idx *Index) GetFile(path string) (*domain.IndexedFile, error) {
	var f domain.IndexedFile
	err := idx.db.QueryRow(`
		SELECT path, file_id, generation, mtime, positions
		FROM files WHERE path = ?
	`, path).Scan(&f.Path, &f.FileID, &f.Generation, &f.Mtime, &f.Positions)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// FilePath returns the path of an indexed file identity
func (idx *Index) FilePath(fileID string) (string, error) {
	var path string
	err := idx.db.QueryRow(`SELECT path FROM files WHERE file_id = ?`, fileID).Scan(&path)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %s", ErrUnknownFile, fileID)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// ListFiles returns all indexed files ordered by path
func (idx *Index) ListFiles() ([]domain.IndexedFile, error) {
	rows, err := idx.db.Query(`
		SELECT path, file_id, generation, mtime, positions
		FROM files ORDER BY path
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []domain.IndexedFile
	for rows.Next() {
		var f domain.IndexedFile
		if err := rows.Scan(&f.Path, &f.FileID, &f.Generation, &f.Mtime, &f.Positions); err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	return files, rows.Err()
}

// writeLock serializes writers across processes sharing the database
func (idx *Index) writeLock(ctx context.Context) (func(), error) {
	if err := idx.lock.Lock(); err != nil {
		return nil, fmt.Errorf("failed to lock index: %w", err)
	}
	if err := ctx.Err(); err != nil {
		idx.lock.Unlock()
		return nil, err
	}
	return func() { idx.lock.Unlock() }, nil
}
