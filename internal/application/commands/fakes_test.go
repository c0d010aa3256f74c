package commands

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"kifunav/internal/domain"
	"kifunav/internal/ports"
)

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

func mv(color domain.Color, to int, piece domain.Piece) domain.Move {
	return domain.Move{To: domain.Square{File: to / 10, Rank: to % 10}, Piece: piece, Color: color}
}

var (
	p76 = mv(domain.Black, 76, "FU")
	p26 = mv(domain.Black, 26, "FU")
	p34 = mv(domain.White, 34, "FU")
	p84 = mv(domain.White, 84, "FU")
	p22 = mv(domain.Black, 22, "KA")
)

// sampleRecord: 76 34 22 on the main line, 26 84 as a variation of move 1
func sampleRecord() domain.ParsedRecord {
	return domain.ParsedRecord{Moves: []domain.RecordMove{
		{Move: p76, Variations: [][]domain.RecordMove{{{Move: p26}, {Move: p84}}}},
		{Move: p34},
		{Move: p22},
	}}
}

// replayLine replays a fixed line regardless of fork pointers
func replayLine(moves ...domain.Move) domain.Replayer {
	return domain.ReplayFunc(func(step int, _ []domain.ForkPointer) (domain.Move, bool) {
		if step < 1 || step > len(moves) {
			return domain.Move{}, false
		}
		return moves[step-1], true
	})
}

type fakeSearcher struct {
	hits     []domain.WireHit
	err      error
	gotKey   string
	gotLimit int
}

func (s *fakeSearcher) SearchPositions(_ context.Context, key string, limit int) ([]domain.WireHit, error) {
	s.gotKey, s.gotLimit = key, limit
	return s.hits, s.err
}

// fakeLocator maps file ids to paths
type fakeLocator map[string]string

func (l fakeLocator) FilePath(fileID string) (string, error) {
	if p, ok := l[fileID]; ok {
		return p, nil
	}
	return "", errors.New("unknown file")
}

// fakePaths resolves relative paths against /lib
type fakePaths struct {
	err error
}

func (p fakePaths) AbsolutePath(path string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Join("/lib", path), nil
}

type fakeLoader struct {
	records map[string]domain.ParsedRecord
	mtimes  map[string]int64
}

var _ ports.RecordLoader = (*fakeLoader)(nil)

func (l *fakeLoader) LoadRecord(path string) (*domain.ParsedRecord, error) {
	r, ok := l.records[path]
	if !ok {
		return nil, errors.New("no such record")
	}
	return &r, nil
}

func (l *fakeLoader) ListRecords() ([]string, error) {
	paths := make([]string, 0, len(l.mtimes))
	for p := range l.mtimes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func (l *fakeLoader) Mtime(path string) (int64, error) {
	m, ok := l.mtimes[path]
	if !ok {
		return 0, errors.New("no such file")
	}
	return m, nil
}

// fakeIndex keeps files in memory and counts writes
type fakeIndex struct {
	files   map[string]*domain.IndexedFile
	writes  int
	removed []string
}

var _ ports.PositionIndex = (*fakeIndex)(nil)

func newFakeIndex() *fakeIndex {
	return &fakeIndex{files: make(map[string]*domain.IndexedFile)}
}

func (x *fakeIndex) Open(string) error { return nil }
func (x *fakeIndex) Close() error { return nil }

func (x *fakeIndex) SearchPositions(context.Context, string, int) ([]domain.WireHit, error) {
	return nil, nil
}

func (x *fakeIndex) FilePath(fileID string) (string, error) {
	for _, f := range x.files {
		if f.FileID == fileID {
			return f.Path, nil
		}
	}
	return "", errors.New("unknown file")
}

func (x *fakeIndex) IndexRecord(_ context.Context, path string, mtime int64, tree domain.Tree, keys map[domain.NodeID]string) (*domain.IndexedFile, error) {
	x.writes++
	f, ok := x.files[path]
	if !ok {
		f = &domain.IndexedFile{Path: path, FileID: "id-" + filepath.Base(path)}
		x.files[path] = f
	}
	if f.Mtime != mtime {
		f.Generation++
	}
	f.Mtime = mtime
	f.Positions = len(keys)
	copied := *f
	return &copied, nil
}

func (x *fakeIndex) GetFile(path string) (*domain.IndexedFile, error) {
	f, ok := x.files[path]
	if !ok {
		return nil, nil
	}
	copied := *f
	return &copied, nil
}

func (x *fakeIndex) ListFiles() ([]domain.IndexedFile, error) {
	var files []domain.IndexedFile
	for _, f := range x.files {
		files = append(files, *f)
	}
	return files, nil
}

func (x *fakeIndex) RemoveFile(path string) error {
	delete(x.files, path)
	x.removed = append(x.removed, path)
	return nil
}

// countKeyer gives every node a distinct key
type countKeyer struct{}

func (countKeyer) PositionKeys(tree domain.Tree) map[domain.NodeID]string {
	keys := make(map[domain.NodeID]string, tree.Len())
	for id := range tree.Nodes {
		keys[id] = string(id)
	}
	return keys
}
