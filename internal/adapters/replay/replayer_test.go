package replay

import (
	"testing"

	"kifunav/internal/domain"
)

func mv(color domain.Color, from, to int, piece domain.Piece) domain.Move {
	return domain.Move{
		From:  domain.Square{File: from / 10, Rank: from % 10},
		To:    domain.Square{File: to / 10, Rank: to % 10},
		Piece: piece,
		Color: color,
	}
}

var (
	p76 = mv(domain.Black, 77, 76, "FU")
	p26 = mv(domain.Black, 27, 26, "FU")
	p56 = mv(domain.Black, 57, 56, "FU")
	p34 = mv(domain.White, 33, 34, "FU")
	p84 = mv(domain.White, 83, 84, "FU")
	p54 = mv(domain.White, 53, 54, "FU")
	b22 = mv(domain.Black, 88, 22, "KA")
)

// testRecord has nested variations:
//
//	76 34 22
//	   84
//	26 84
//	   54
//	56
func testRecord() domain.ParsedRecord {
	return domain.ParsedRecord{Moves: []domain.RecordMove{
		{Move: p76, Variations: [][]domain.RecordMove{
			{{Move: p26}, {Move: p84, Variations: [][]domain.RecordMove{{{Move: p54}}}}},
			{{Move: p56}},
		}},
		{Move: p34, Variations: [][]domain.RecordMove{{{Move: p84}}}},
		{Move: b22},
	}}
}

func TestRecordReplayer_MoveAt(t *testing.T) {
	r := NewRecordReplayer(testRecord())

	tests := []struct {
		name  string
		step  int
		forks []domain.ForkPointer
		want  domain.Move
		ok    bool
	}{
		{name: "main line first", step: 1, want: p76, ok: true},
		{name: "main line third", step: 3, want: b22, ok: true},
		{name: "past the end", step: 4, ok: false},
		{name: "step zero", step: 0, ok: false},
		{name: "first variation", step: 1, forks: []domain.ForkPointer{{Te: 1, ForkIndex: 1}}, want: p26, ok: true},
		{name: "second variation", step: 1, forks: []domain.ForkPointer{{Te: 1, ForkIndex: 2}}, want: p56, ok: true},
		{name: "inside variation", step: 2, forks: []domain.ForkPointer{{Te: 1, ForkIndex: 1}}, want: p84, ok: true},
		{name: "nested variation", step: 2, forks: []domain.ForkPointer{{Te: 1, ForkIndex: 1}, {Te: 2, ForkIndex: 1}}, want: p54, ok: true},
		{name: "second move variation", step: 2, forks: []domain.ForkPointer{{Te: 2, ForkIndex: 1}}, want: p84, ok: true},
		{name: "missing branch", step: 1, forks: []domain.ForkPointer{{Te: 1, ForkIndex: 3}}, ok: false},
		{name: "short variation", step: 2, forks: []domain.ForkPointer{{Te: 1, ForkIndex: 2}}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.MoveAt(tt.step, tt.forks)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

// Every node must resolve to itself when its cursor is replayed
func TestRecordReplayer_AgreesWithTree(t *testing.T) {
	record := testRecord()
	tree := domain.BuildTree(record)
	r := NewRecordReplayer(record)

	tree.Walk(func(n domain.PositionNode) {
		c, ok := tree.CursorOf(n.ID)
		if !ok {
			t.Fatalf("CursorOf(%s) failed", n.ID)
		}
		got := domain.ResolveCurrentNodeID(tree, c.Tesuu, c.ForkPointers, r, domain.DefaultMoveMatcher)
		if got != n.ID {
			t.Errorf("cursor %s: expected %s, got %s", c.Key(), n.ID, got)
		}
	})
}

func TestRecordReplayer_Moves(t *testing.T) {
	r := NewRecordReplayer(testRecord())

	moves := r.Moves(5, []domain.ForkPointer{{Te: 2, ForkIndex: 1}})
	if len(moves) != 2 || moves[0] != p76 || moves[1] != p84 {
		t.Errorf("unexpected moves %v", moves)
	}
}
