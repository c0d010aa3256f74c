package domain

import (
	"errors"
	"math"
	"testing"
)

func TestSerializeCursor(t *testing.T) {
	tests := []struct {
		name    string
		tesuu   int
		fps     []ForkPointer
		want    string
		wantErr bool
	}{
		{
			name:  "single pointer",
			tesuu: 7,
			fps:   []ForkPointer{{Te: 3, ForkIndex: 0}},
			want:  `7,[{"te":3,"forkIndex":0}]`,
		},
		{
			name:  "initial position",
			tesuu: 0,
			fps:   nil,
			want:  `0,[]`,
		},
		{
			name:  "empty slice same as nil",
			tesuu: 12,
			fps:   []ForkPointer{},
			want:  `12,[]`,
		},
		{
			name:  "sorted by te",
			tesuu: 20,
			fps:   []ForkPointer{{Te: 15, ForkIndex: 2}, {Te: 4, ForkIndex: 1}},
			want:  `20,[{"te":4,"forkIndex":1},{"te":15,"forkIndex":2}]`,
		},
		{
			name:  "duplicate te last wins",
			tesuu: 9,
			fps:   []ForkPointer{{Te: 5, ForkIndex: 1}, {Te: 5, ForkIndex: 3}},
			want:  `9,[{"te":5,"forkIndex":3}]`,
		},
		{
			name:    "negative tesuu",
			tesuu:   -1,
			wantErr: true,
		},
		{
			name:    "negative fork index",
			tesuu:   3,
			fps:     []ForkPointer{{Te: 2, ForkIndex: -1}},
			wantErr: true,
		},
		{
			name:    "negative te",
			tesuu:   3,
			fps:     []ForkPointer{{Te: -2, ForkIndex: 0}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SerializeCursor(tt.tesuu, tt.fps)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCursor) {
					t.Fatalf("expected ErrInvalidCursor, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSerializeCursor_OrderInsensitive(t *testing.T) {
	a, err := SerializeCursor(30, []ForkPointer{{Te: 1, ForkIndex: 1}, {Te: 8, ForkIndex: 2}, {Te: 21, ForkIndex: 1}})
	if err != nil {
		t.Fatalf("SerializeCursor failed: %v", err)
	}
	b, err := SerializeCursor(30, []ForkPointer{{Te: 21, ForkIndex: 1}, {Te: 1, ForkIndex: 1}, {Te: 8, ForkIndex: 2}})
	if err != nil {
		t.Fatalf("SerializeCursor failed: %v", err)
	}
	if a != b {
		t.Errorf("expected identical keys, got %s and %s", a, b)
	}
}

func TestInvalidCursorError(t *testing.T) {
	_, err := NewCursor(0, []ForkPointer{{Te: 1, ForkIndex: -4}})

	var ice *InvalidCursorError
	if !errors.As(err, &ice) {
		t.Fatalf("expected *InvalidCursorError, got %T", err)
	}
	if ice.Field != "forkIndex" || ice.Value != -4 {
		t.Errorf("unexpected error details: %+v", ice)
	}
}

func TestCursor_KeyMatchesSerialize(t *testing.T) {
	fps := []ForkPointer{{Te: 6, ForkIndex: 1}, {Te: 2, ForkIndex: 2}}
	c, err := NewCursor(10, fps)
	if err != nil {
		t.Fatalf("NewCursor failed: %v", err)
	}
	want, _ := SerializeCursor(10, fps)
	if c.Key() != want {
		t.Errorf("expected %s, got %s", want, c.Key())
	}
	if c.ForkIndexAt(6) != 1 || c.ForkIndexAt(3) != 0 {
		t.Errorf("unexpected ForkIndexAt results for %s", c.Key())
	}
}

func TestCursor_Validate(t *testing.T) {
	if err := (Cursor{Tesuu: 3, ForkPointers: []ForkPointer{{Te: 1, ForkIndex: 1}}}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := Cursor{Tesuu: 3, ForkPointers: []ForkPointer{{Te: -2, ForkIndex: 1}}}.Validate()
	var ice *InvalidCursorError
	if !errors.As(err, &ice) || ice.Field != "te" {
		t.Errorf("expected te to be rejected, got %v", err)
	}
}

func TestParseCursorKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "main line", key: `0,[]`},
		{name: "with pointers", key: `14,[{"te":3,"forkIndex":1},{"te":9,"forkIndex":2}]`},
		{name: "null pointers", key: `0,null`, wantErr: true},
		{name: "reordered keys", key: `4,[{"forkIndex":1,"te":3}]`, wantErr: true},
		{name: "unsorted", key: `14,[{"te":9,"forkIndex":2},{"te":3,"forkIndex":1}]`, wantErr: true},
		{name: "whitespace", key: `4, []`, wantErr: true},
		{name: "negative", key: `-1,[]`, wantErr: true},
		{name: "missing separator", key: `4`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCursorKey(tt.key)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %s, got cursor %s", tt.key, c.Key())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Key() != tt.key {
				t.Errorf("expected %s, got %s", tt.key, c.Key())
			}
		})
	}
}

func TestNormalizeForkPointers(t *testing.T) {
	got := NormalizeForkPointers([]ForkPointer{
		{Te: 7, ForkIndex: 1},
		{Te: 2, ForkIndex: 0},
		{Te: 7, ForkIndex: 2},
	})

	want := []ForkPointer{{Te: 2, ForkIndex: 0}, {Te: 7, ForkIndex: 2}}
	if len(got) != len(want) {
		t.Fatalf("expected %d pointers, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}

	if NormalizeForkPointers(nil) == nil {
		t.Error("expected non-nil result for nil input")
	}

	// Extreme values must not overflow the comparison
	extreme := NormalizeForkPointers([]ForkPointer{{Te: 1}, {Te: math.MinInt}, {Te: math.MaxInt}})
	if extreme[0].Te != math.MinInt || extreme[1].Te != 1 || extreme[2].Te != math.MaxInt {
		t.Errorf("expected ascending order, got %+v", extreme)
	}
}
