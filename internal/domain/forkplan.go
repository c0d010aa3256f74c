package domain

import (
	"cmp"
	"slices"
)

// ForkPlan holds provisional branch choices keyed by move number.
// Values are immutable: every operation returns a new plan.
type ForkPlan struct {
	entries []ForkPointer // sorted by Te, unique by Te
}

// ForkLookup answers repeated point queries against a plan
type ForkLookup map[int]int

// NewForkPlan builds a plan from arbitrary pointers (last write wins per te)
func NewForkPlan(fps []ForkPointer) ForkPlan {
	return ForkPlan{entries: NormalizeForkPointers(fps)}
}

// Upsert returns a plan with te mapped to forkIndex
func (p ForkPlan) Upsert(te, forkIndex int) ForkPlan {
	i, found := p.search(te)
	out := make([]ForkPointer, len(p.entries), len(p.entries)+1)
	copy(out, p.entries)

	if found {
		out[i].ForkIndex = forkIndex
	} else {
		out = slices.Insert(out, i, ForkPointer{Te: te, ForkIndex: forkIndex})
	}
	return ForkPlan{entries: out}
}

// Remove returns a plan without an entry for te. Absent entries are not an error.
func (p ForkPlan) Remove(te int) ForkPlan {
	i, found := p.search(te)
	if !found {
		return ForkPlan{entries: slices.Clone(p.entries)}
	}
	out := make([]ForkPointer, 0, len(p.entries)-1)
	out = append(out, p.entries[:i]...)
	out = append(out, p.entries[i+1:]...)
	return ForkPlan{entries: out}
}

// Get returns the planned fork index for te; ok is false when none is set
func (p ForkPlan) Get(te int) (forkIndex int, ok bool) {
	i, found := p.search(te)
	if !found {
		return 0, false
	}
	return p.entries[i].ForkIndex, true
}

// Lookup builds a point-query view of the plan
func (p ForkPlan) Lookup() ForkLookup {
	l := make(ForkLookup, len(p.entries))
	for _, e := range p.entries {
		l[e.Te] = e.ForkIndex
	}
	return l
}

// Pointers returns a copy of the entries, ascending by te
func (p ForkPlan) Pointers() []ForkPointer {
	if p.entries == nil {
		return []ForkPointer{}
	}
	return slices.Clone(p.entries)
}

// Len returns the number of planned choices
func (p ForkPlan) Len() int {
	return len(p.entries)
}

// Equal reports whether both plans hold the same entries
func (p ForkPlan) Equal(other ForkPlan) bool {
	return slices.Equal(p.entries, other.entries)
}

func (p ForkPlan) search(te int) (int, bool) {
	return slices.BinarySearchFunc(p.entries, te, func(e ForkPointer, t int) int {
		return cmp.Compare(e.Te, t)
	})
}

// ForkIndexAt returns the planned fork index for te, 0 (main line) if unset
func (l ForkLookup) ForkIndexAt(te int) int {
	return l[te]
}
