package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strconv"
)

// NodeID identifies a position node. IDs are derived from the
// fork-index path from the root, so an identical branch structure
// yields identical IDs across reloads.
type NodeID string

// PositionNode is one position in the record tree.
// The order of Children defines the fork index.
type PositionNode struct {
	ID       NodeID
	Move     *Move // nil at the root
	Comment  string
	Children []NodeID
	Parent   NodeID // empty at the root
	Tesuu    int
}

// IsRoot reports whether the node is the initial position
func (n PositionNode) IsRoot() bool {
	return n.Move == nil
}

// Tree is the branch structure of a loaded record. It is built once per
// load and replaced wholesale; callers must not modify it.
type Tree struct {
	RootID NodeID
	Nodes  map[NodeID]PositionNode
}

// BuildTree converts a parsed record into a position tree
func BuildTree(record ParsedRecord) Tree {
	b := &treeBuilder{nodes: make(map[NodeID]*PositionNode)}
	root := &PositionNode{ID: nodeIDForPath(nil)}
	b.nodes[root.ID] = root
	b.paths = map[NodeID][]int{root.ID: nil}

	b.addLine(root.ID, record.Moves)

	t := Tree{RootID: root.ID, Nodes: make(map[NodeID]PositionNode, len(b.nodes))}
	for id, n := range b.nodes {
		t.Nodes[id] = *n
	}
	return t
}

type treeBuilder struct {
	nodes map[NodeID]*PositionNode
	paths map[NodeID][]int
}

// addLine appends a line of moves below parent. Variations of a move
// become later siblings of that move.
func (b *treeBuilder) addLine(parent NodeID, line []RecordMove) {
	cur := parent
	for _, rm := range line {
		child := b.addChild(cur, rm)
		for _, v := range rm.Variations {
			if len(v) > 0 {
				b.addLine(cur, v)
			}
		}
		cur = child
	}
}

func (b *treeBuilder) addChild(parent NodeID, rm RecordMove) NodeID {
	p := b.nodes[parent]
	path := append(slices.Clone(b.paths[parent]), len(p.Children))
	move := rm.Move

	n := &PositionNode{
		ID:      nodeIDForPath(path),
		Move:    &move,
		Comment: rm.Comment,
		Parent:  parent,
		Tesuu:   len(path),
	}
	p.Children = append(p.Children, n.ID)
	b.nodes[n.ID] = n
	b.paths[n.ID] = path
	return n.ID
}

// nodeIDForPath hashes the fork-index path from the root
func nodeIDForPath(path []int) NodeID {
	h := sha256.New()
	for _, k := range path {
		h.Write([]byte(strconv.Itoa(k)))
		h.Write([]byte{'/'})
	}
	sum := h.Sum(nil)
	return NodeID(hex.EncodeToString(sum[:8]))
}

// Node returns the node with the given id
func (t Tree) Node(id NodeID) (PositionNode, bool) {
	n, ok := t.Nodes[id]
	return n, ok
}

// Root returns the initial position node
func (t Tree) Root() (PositionNode, bool) {
	return t.Node(t.RootID)
}

// Len returns the number of positions in the tree
func (t Tree) Len() int {
	return len(t.Nodes)
}

// ChildAt returns the k-th child of a node
func (t Tree) ChildAt(id NodeID, k int) (NodeID, bool) {
	n, ok := t.Nodes[id]
	if !ok || k < 0 || k >= len(n.Children) {
		return "", false
	}
	return n.Children[k], true
}

// ForkIndexOf returns the position of a node among its parent's children
func (t Tree) ForkIndexOf(id NodeID) (int, bool) {
	n, ok := t.Nodes[id]
	if !ok || n.IsRoot() {
		return 0, false
	}
	parent, ok := t.Nodes[n.Parent]
	if !ok {
		return 0, false
	}
	i := slices.Index(parent.Children, id)
	return i, i >= 0
}

// CursorOf returns the cursor addressing a node. Only non-main-line
// choices produce fork pointers.
func (t Tree) CursorOf(id NodeID) (Cursor, bool) {
	n, ok := t.Nodes[id]
	if !ok {
		return Cursor{}, false
	}

	var fps []ForkPointer
	for cur := n; !cur.IsRoot(); {
		k, ok := t.ForkIndexOf(cur.ID)
		if !ok {
			return Cursor{}, false
		}
		if k != 0 {
			fps = append(fps, ForkPointer{Te: cur.Tesuu, ForkIndex: k})
		}
		cur = t.Nodes[cur.Parent]
	}
	return Cursor{Tesuu: n.Tesuu, ForkPointers: NormalizeForkPointers(fps)}, true
}

// NodeAt follows a cursor from the root. When the cursor leaves the tree
// the deepest reached node is returned with ok set to false.
func (t Tree) NodeAt(c Cursor) (NodeID, bool) {
	forks := NewForkPlan(c.ForkPointers).Lookup()
	cur := t.RootID
	for te := 1; te <= c.Tesuu; te++ {
		next, ok := t.ChildAt(cur, forks.ForkIndexAt(te))
		if !ok {
			return cur, false
		}
		cur = next
	}
	return cur, true
}

// FollowPlan walks from the root taking the planned branch at every move
// number, the main line elsewhere, and returns the last node reached.
// A planned branch that does not exist ends the walk.
func (t Tree) FollowPlan(lookup ForkLookup) NodeID {
	cur := t.RootID
	for te := 1; ; te++ {
		next, ok := t.ChildAt(cur, lookup.ForkIndexAt(te))
		if !ok {
			return cur
		}
		cur = next
	}
}

// Walk visits nodes depth-first in fork order, starting at the root
func (t Tree) Walk(fn func(n PositionNode)) {
	stack := []NodeID{t.RootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n, ok := t.Nodes[id]
		if !ok {
			continue
		}
		fn(n)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// MovesTo returns the moves leading from the root to a node
func (t Tree) MovesTo(id NodeID) []Move {
	var moves []Move
	for n, ok := t.Nodes[id]; ok && !n.IsRoot(); n, ok = t.Nodes[n.Parent] {
		moves = append(moves, *n.Move)
	}
	slices.Reverse(moves)
	return moves
}
