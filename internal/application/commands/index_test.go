package commands

import (
	"context"
	"errors"
	"testing"

	"kifunav/internal/application"
	"kifunav/internal/domain"
	"kifunav/internal/logging"
)

func newTestIndexer(loader *fakeLoader, index *fakeIndex) *IndexLibraryCommand {
	cmd := NewIndexLibraryCommand(loader, index, countKeyer{})
	cmd.Logger = logging.Discard()
	return cmd
}

func TestIndexLibraryCommand_Execute(t *testing.T) {
	loader := &fakeLoader{
		records: map[string]domain.ParsedRecord{"/lib/a.kifu.json": sampleRecord()},
		mtimes:  map[string]int64{"/lib/a.kifu.json": 10, "/lib/broken.kifu.json": 10},
	}
	index := newFakeIndex()
	index.files["/lib/gone.kifu.json"] = &domain.IndexedFile{Path: "/lib/gone.kifu.json", FileID: "gone"}

	stats, err := newTestIndexer(loader, index).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	nodes := domain.BuildTree(sampleRecord()).Len()
	if stats.FilesIndexed != 1 || stats.FilesFailed != 1 || stats.FilesUnchanged != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.PositionsAdded != nodes {
		t.Errorf("expected %d positions, got %d", nodes, stats.PositionsAdded)
	}
	if len(index.removed) != 1 || index.removed[0] != "/lib/gone.kifu.json" {
		t.Errorf("expected stale file removed, got %v", index.removed)
	}

	// Second pass skips the unchanged file
	stats, err = newTestIndexer(loader, index).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.FilesUnchanged != 1 || stats.FilesIndexed != 0 || index.writes != 1 {
		t.Errorf("expected unchanged file to be skipped, stats %+v writes %d", stats, index.writes)
	}

	// Edits are picked up and bump the generation
	loader.mtimes["/lib/a.kifu.json"] = 20
	stats, err = newTestIndexer(loader, index).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.FilesIndexed != 1 {
		t.Errorf("expected edited file to be indexed, stats %+v", stats)
	}
	if f, _ := index.GetFile("/lib/a.kifu.json"); f == nil || f.Generation != 2 {
		t.Errorf("expected generation 2, got %+v", f)
	}
}

func TestIndexLibraryCommand_Force(t *testing.T) {
	loader := &fakeLoader{
		records: map[string]domain.ParsedRecord{"/lib/a.kifu.json": sampleRecord()},
		mtimes:  map[string]int64{"/lib/a.kifu.json": 10},
	}
	index := newFakeIndex()

	cmd := newTestIndexer(loader, index)
	cmd.Force = true
	for i := 0; i < 2; i++ {
		if _, err := cmd.Execute(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if index.writes != 2 {
		t.Errorf("expected forced re-index, got %d writes", index.writes)
	}
}

func TestIndexLibraryCommand_Cancelled(t *testing.T) {
	loader := &fakeLoader{
		records: map[string]domain.ParsedRecord{"/lib/a.kifu.json": sampleRecord()},
		mtimes:  map[string]int64{"/lib/a.kifu.json": 10},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestIndexer(loader, newFakeIndex()).Execute(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestIndexLibraryCommand_IndexFile(t *testing.T) {
	loader := &fakeLoader{
		records: map[string]domain.ParsedRecord{"/lib/a.kifu.json": sampleRecord()},
		mtimes:  map[string]int64{"/lib/a.kifu.json": 10, "/lib/broken.kifu.json": 10},
	}
	index := newFakeIndex()
	cmd := newTestIndexer(loader, index)

	f, err := cmd.IndexFile(context.Background(), "/lib/a.kifu.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Positions != domain.BuildTree(sampleRecord()).Len() {
		t.Errorf("unexpected positions %d", f.Positions)
	}

	_, err = cmd.IndexFile(context.Background(), "/lib/broken.kifu.json")
	var recErr *application.RecordError
	if !errors.As(err, &recErr) || recErr.Reason != "load failed" {
		t.Errorf("expected load failure, got %v", err)
	}

	_, err = cmd.IndexFile(context.Background(), "/lib/missing.kifu.json")
	if !errors.As(err, &recErr) || recErr.Reason != "stat failed" {
		t.Errorf("expected stat failure, got %v", err)
	}
}

func TestIndexLibraryCommand_NoIndex(t *testing.T) {
	cmd := NewIndexLibraryCommand(&fakeLoader{}, nil, countKeyer{})
	if _, err := cmd.Execute(context.Background()); !errors.Is(err, application.ErrNoIndex) {
		t.Errorf("expected ErrNoIndex, got %v", err)
	}
	if _, err := cmd.IndexFile(context.Background(), "x"); !errors.Is(err, application.ErrNoIndex) {
		t.Errorf("expected ErrNoIndex, got %v", err)
	}
}
