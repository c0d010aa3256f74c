// Package replay provides collaborators that stand in for a rules engine:
// a replayer that walks a parsed record along branch choices, and a
// position keyer that identifies positions by the moves leading to them.
package replay

import (
	"kifunav/internal/domain"
)

// RecordReplayer replays a parsed record without checking legality.
// Branch numbering follows domain.BuildTree: the recorded move first,
// then its variations in order.
type RecordReplayer struct {
	record domain.ParsedRecord
}

var _ domain.Replayer = (*RecordReplayer)(nil)

// NewRecordReplayer creates a replayer for a record
func NewRecordReplayer(record domain.ParsedRecord) *RecordReplayer {
	return &RecordReplayer{record: record}
}

// continuation is a move together with the line it belongs to
type continuation struct {
	line []domain.RecordMove
	idx  int
}

func (c continuation) move() domain.Move {
	return c.line[c.idx].Move
}

// MoveAt returns the move played at step when following forkPointers
func (r *RecordReplayer) MoveAt(step int, forkPointers []domain.ForkPointer) (domain.Move, bool) {
	if step < 1 {
		return domain.Move{}, false
	}
	forks := domain.NewForkPlan(forkPointers).Lookup()

	line, idx := r.record.Moves, 0
	for te := 1; ; te++ {
		if idx >= len(line) {
			return domain.Move{}, false
		}

		alts := alternatives(line, idx)
		k := forks.ForkIndexAt(te)
		if k >= len(alts) {
			return domain.Move{}, false
		}

		chosen := alts[k]
		if te == step {
			return chosen.move(), true
		}
		line, idx = chosen.line, chosen.idx+1
	}
}

// Moves returns every move up to and including step
func (r *RecordReplayer) Moves(step int, forkPointers []domain.ForkPointer) []domain.Move {
	moves := make([]domain.Move, 0, step)
	for i := 1; i <= step; i++ {
		m, ok := r.MoveAt(i, forkPointers)
		if !ok {
			break
		}
		moves = append(moves, m)
	}
	return moves
}

// alternatives lists the moves playable in place of line[idx], in fork order
func alternatives(line []domain.RecordMove, idx int) []continuation {
	alts := []continuation{{line: line, idx: idx}}
	for _, v := range line[idx].Variations {
		if len(v) > 0 {
			alts = append(alts, alternatives(v, 0)...)
		}
	}
	return alts
}
