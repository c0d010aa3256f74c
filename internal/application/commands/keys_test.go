package commands

import (
	"context"
	"errors"
	"testing"

	"kifunav/internal/application"
	"kifunav/internal/domain"
)

func TestPositionKeyAtCommand(t *testing.T) {
	loader := &fakeLoader{records: map[string]domain.ParsedRecord{"/lib/a.kifu.json": sampleRecord()}}
	tree := domain.BuildTree(sampleRecord())

	tests := []struct {
		name    string
		path    string
		cursor  domain.Cursor
		wantErr error
	}{
		{name: "main line", path: "/lib/a.kifu.json", cursor: domain.Cursor{Tesuu: 2}},
		{name: "variation", path: "/lib/a.kifu.json", cursor: domain.Cursor{Tesuu: 2, ForkPointers: []domain.ForkPointer{{Te: 1, ForkIndex: 1}}}},
		{name: "past the end", path: "/lib/a.kifu.json", cursor: domain.Cursor{Tesuu: 9}, wantErr: application.ErrNotFound},
		{name: "empty path", path: "", cursor: domain.Cursor{}, wantErr: application.ErrInvalidInput},
		{name: "negative tesuu", path: "/lib/a.kifu.json", cursor: domain.Cursor{Tesuu: -1}, wantErr: application.ErrInvalidCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := NewPositionKeyAtCommand(loader, countKeyer{}, tt.path, tt.cursor).Execute(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want, _ := tree.NodeAt(tt.cursor)
			if key != string(want) {
				t.Errorf("expected key of node %s, got %s", want, key)
			}
		})
	}

	_, err := NewPositionKeyAtCommand(loader, countKeyer{}, "/lib/missing.kifu.json", domain.Cursor{}).Execute(context.Background())
	var recErr *application.RecordError
	if !errors.As(err, &recErr) {
		t.Errorf("expected RecordError, got %v", err)
	}
}
