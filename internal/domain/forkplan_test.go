package domain

import (
	"math"
	"math/rand"
	"testing"
)

func TestForkPlan_UpsertGetRemove(t *testing.T) {
	var plan ForkPlan

	plan = plan.Upsert(5, 1).Upsert(2, 3).Upsert(9, 2)

	if fx, ok := plan.Get(2); !ok || fx != 3 {
		t.Errorf("expected fork 3 at te 2, got %d (ok=%v)", fx, ok)
	}
	if _, ok := plan.Get(4); ok {
		t.Error("expected te 4 to be unset")
	}

	plan = plan.Upsert(5, 0)
	if fx, _ := plan.Get(5); fx != 0 {
		t.Errorf("expected overwrite to 0, got %d", fx)
	}
	if plan.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", plan.Len())
	}

	plan = plan.Remove(5).Remove(5).Remove(42)
	if _, ok := plan.Get(5); ok {
		t.Error("expected te 5 removed")
	}
	if plan.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", plan.Len())
	}
}

func TestForkPlan_ExtremeMoveNumbers(t *testing.T) {
	plan := NewForkPlan(nil).Upsert(1, 1).Upsert(math.MinInt, 2).Upsert(math.MaxInt, 3)

	for te, want := range map[int]int{math.MinInt: 2, 1: 1, math.MaxInt: 3} {
		if fx, ok := plan.Get(te); !ok || fx != want {
			t.Errorf("te %d: expected fork %d, got %d (ok=%v)", te, want, fx, ok)
		}
	}
	got := plan.Pointers()
	if got[0].Te != math.MinInt || got[2].Te != math.MaxInt {
		t.Errorf("expected ascending order, got %+v", got)
	}
}

func TestForkPlan_DoesNotMutate(t *testing.T) {
	base := NewForkPlan([]ForkPointer{{Te: 1, ForkIndex: 1}, {Te: 3, ForkIndex: 2}})

	_ = base.Upsert(1, 4)
	_ = base.Upsert(2, 1)
	_ = base.Remove(3)

	want := NewForkPlan([]ForkPointer{{Te: 1, ForkIndex: 1}, {Te: 3, ForkIndex: 2}})
	if !base.Equal(want) {
		t.Errorf("expected base plan untouched, got %+v", base.Pointers())
	}

	ptrs := base.Pointers()
	ptrs[0].ForkIndex = 99
	if fx, _ := base.Get(1); fx != 1 {
		t.Errorf("Pointers must return a copy, base now has %d", fx)
	}
}

func TestForkPlan_IdempotentOverwrite(t *testing.T) {
	plans := []ForkPlan{
		{},
		NewForkPlan([]ForkPointer{{Te: 4, ForkIndex: 2}}),
		NewForkPlan([]ForkPointer{{Te: 1, ForkIndex: 1}, {Te: 4, ForkIndex: 0}, {Te: 8, ForkIndex: 3}}),
	}

	for _, m := range plans {
		for _, te := range []int{1, 4, 6} {
			left := m.Remove(te).Upsert(te, 5)
			right := m.Upsert(te, 5)
			if !left.Equal(right) {
				t.Errorf("te %d: expected %+v, got %+v", te, right.Pointers(), left.Pointers())
			}
		}
	}
}

func TestForkPlan_AlwaysSortedAndUnique(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var plan ForkPlan

	for i := 0; i < 500; i++ {
		te := rng.Intn(30)
		if rng.Intn(3) == 0 {
			plan = plan.Remove(te)
		} else {
			plan = plan.Upsert(te, rng.Intn(4))
		}

		ptrs := plan.Pointers()
		for j := 1; j < len(ptrs); j++ {
			if ptrs[j-1].Te >= ptrs[j].Te {
				t.Fatalf("step %d: entries not strictly ascending: %+v", i, ptrs)
			}
		}
	}
}

func TestForkPlan_Lookup(t *testing.T) {
	plan := NewForkPlan([]ForkPointer{{Te: 3, ForkIndex: 2}, {Te: 10, ForkIndex: 1}})
	lookup := plan.Lookup()

	tests := []struct {
		te   int
		want int
	}{
		{te: 1, want: 0},
		{te: 3, want: 2},
		{te: 10, want: 1},
		{te: 11, want: 0},
	}
	for _, tt := range tests {
		if got := lookup.ForkIndexAt(tt.te); got != tt.want {
			t.Errorf("te %d: expected %d, got %d", tt.te, tt.want, got)
		}
	}
}
