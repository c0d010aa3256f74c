package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"kifunav/internal/domain"
)

// indexTx wraps the writes of a single IndexRecord or RemoveFile call
type indexTx struct {
	tx *sql.Tx
}

func (idx *Index) beginTx(ctx context.Context) (*indexTx, error) {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &indexTx{tx: tx}, nil
}

// getFile returns the stored row for path, nil if absent
func (t *indexTx) getFile(path string) (*domain.IndexedFile, error) {
	var f domain.IndexedFile
	err := t.tx.QueryRow(`
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

// upsertFile inserts or updates a file row keeping its identity
func (t *indexTx) upsertFile(f *domain.IndexedFile) error {
	_, err := t.tx.Exec(`
		INSERT INTO files (path, file_id, generation, mtime, positions)
		VALUES (?, ?, ?, ?, 0)
		ON CONFLICT(path) DO UPDATE SET
			generation = excluded.generation,
			mtime = excluded.mtime
	`, f.Path, f.FileID, f.Generation, f.Mtime)
	return err
}

// setPositionCount records how many positions a file contributed
func (t *indexTx) setPositionCount(fileID string, n int) error {
	_, err := t.tx.Exec(`UPDATE files SET positions = ? WHERE file_id = ?`, n, fileID)
	return err
}

// deletePositions removes all positions of a file
func (t *indexTx) deletePositions(fileID string) error {
	_, err := t.tx.Exec(`DELETE FROM positions WHERE file_id = ?`, fileID)
	return err
}

// insertPosition adds one node under its position key
func (t *indexTx) insertPosition(fileID string, id domain.NodeID, key string, tesuu int, cursor string) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO positions (file_id, node_id, position_key, tesuu, cursor)
		VALUES (?, ?, ?, ?, ?)
	`, fileID, string(id), key, tesuu, cursor)
	return err
}

// deleteFile removes a file row and its positions
func (t *indexTx) deleteFile(path string) error {
	if _, err := t.tx.Exec(`
		DELETE FROM positions
		WHERE file_id IN (SELECT file_id FROM files WHERE path = ?)
	`, path); err != nil {
		return err
	}
	_, err := t.tx.Exec(`DELETE FROM files WHERE path = ?`, path)
	return err
}

// bumpRevision advances the shared write counter so readers in other
// processes drop their cached searches
func (t *indexTx) bumpRevision() error {
	_, err := t.tx.Exec(`
		INSERT INTO meta (key, value) VALUES ('revision', '1')
		ON CONFLICT(key) DO UPDATE SET value = CAST(value AS INTEGER) + 1
	`)
	return err
}

func (t *indexTx) commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction; it is a no-op after commit
func (t *indexTx) Rollback() error {
	return t.tx.Rollback()
}
