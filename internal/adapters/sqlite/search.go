package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"kifunav/internal/domain"
)

// cachedHits are search results tagged with the index revision they were
// read at
type cachedHits struct {
	revision string
	hits     []domain.WireHit
}

// SearchPositions returns the nodes stored under positionKey, shallowest
// first. A limit <= 0 returns every match.
func (idx *Index) SearchPositions(ctx context.Context, positionKey string, limit int) ([]domain.WireHit, error) {
	if limit <= 0 {
		limit = -1
	}
	// Writers in other processes only move the revision
	rev, err := idx.revision(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read index revision: %w", err)
	}
	cacheKey := positionKey + "#" + strconv.Itoa(limit)
	if cached, ok := idx.cache.Get(cacheKey); ok && cached.revision == rev {
		return cached.hits, nil
	}

	rows, err := idx.db.QueryContext(ctx, `
		SELECT p.file_id, f.generation, p.node_id, p.cursor
		FROM positions p
		JOIN files f ON f.file_id = p.file_id
		WHERE p.position_key = ?
		ORDER BY p.tesuu, f.path, p.node_id
		LIMIT ?
	`, positionKey, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer rows.Close()

	hits := []domain.WireHit{}
	for rows.Next() {
		var (
			hit        domain.WireHit
			cursorJSON string
		)
		if err := rows.Scan(&hit.FileID, &hit.Gen, &hit.NodeID, &cursorJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(cursorJSON), &hit.Cursor); err != nil {
			return nil, fmt.Errorf("corrupt cursor for %s/%s: %w", hit.FileID, hit.NodeID, err)
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	idx.cache.Add(cacheKey, cachedHits{revision: rev, hits: hits})
	return hits, nil
}
