package domain

// Replayer returns the move actually taken at a step when a record is
// replayed along the given branch choices. ok is false when the replay
// has no move at that step.
type Replayer interface {
	MoveAt(step int, forkPointers []ForkPointer) (Move, bool)
}

// ReplayFunc adapts a function to Replayer
type ReplayFunc func(step int, forkPointers []ForkPointer) (Move, bool)

func (f ReplayFunc) MoveAt(step int, forkPointers []ForkPointer) (Move, bool) {
	return f(step, forkPointers)
}

// MoveMatcher decides whether a replayed move is the move recorded on a node
type MoveMatcher interface {
	MoveEquals(recorded, replayed Move) bool
}

// MoveMatcherFunc adapts a function to MoveMatcher
type MoveMatcherFunc func(recorded, replayed Move) bool

func (f MoveMatcherFunc) MoveEquals(recorded, replayed Move) bool {
	return f(recorded, replayed)
}

// DefaultMoveMatcher compares origin, destination, piece and side.
// The promotion flag does not participate: a promoting and a
// non-promoting move to the same square identify the same node.
// Whether that is intended is still an open product question.
var DefaultMoveMatcher MoveMatcher = MoveMatcherFunc(func(recorded, replayed Move) bool {
	return recorded.From == replayed.From &&
		recorded.To == replayed.To &&
		recorded.Piece == replayed.Piece &&
		recorded.Color == replayed.Color
})

// ResolveCurrentNodeID finds the node matching a replayed position.
//
// Starting at the root it asks the replayer for the move taken at each
// step up to currentTesuu and descends into the first child whose
// recorded move matches. On the first step without a match it stops and
// returns the deepest node matched so far, so a tree that lags behind an
// edit still yields a usable answer. It never fails; with nothing
// matched the root is returned.
func ResolveCurrentNodeID(
	tree Tree,
	currentTesuu int,
	forkPointersTaken []ForkPointer,
	replayer Replayer,
	matcher MoveMatcher,
) NodeID {
	if matcher == nil {
		matcher = DefaultMoveMatcher
	}
	if replayer == nil {
		return tree.RootID
	}

	cur, ok := tree.Nodes[tree.RootID]
	if !ok {
		return tree.RootID
	}

	fps := NormalizeForkPointers(forkPointersTaken)
	for step := 1; step <= currentTesuu; step++ {
		played, ok := replayer.MoveAt(step, fps)
		if !ok {
			break
		}

		next, found := matchChild(tree, cur, played, matcher)
		if !found {
			break
		}
		cur = next
	}
	return cur.ID
}

func matchChild(tree Tree, parent PositionNode, played Move, matcher MoveMatcher) (PositionNode, bool) {
	for _, id := range parent.Children {
		child, ok := tree.Nodes[id]
		if !ok || child.Move == nil {
			continue
		}
		if matcher.MoveEquals(*child.Move, played) {
			return child, true
		}
	}
	return PositionNode{}, false
}
