package replay

import (
	"crypto/sha256"
	"encoding/hex"

	"kifunav/internal/domain"
	"kifunav/internal/ports"
)

// SequenceKeyer keys every node by the moves played from the initial
// position. Positions reached by different move orders get different
// keys; a rules engine keyer can replace it to catch transpositions.
type SequenceKeyer struct{}

var _ ports.PositionKeyer = SequenceKeyer{}

// PositionKeys returns the key of every node in the tree
func (SequenceKeyer) PositionKeys(tree domain.Tree) map[domain.NodeID]string {
	keys := make(map[domain.NodeID]string, tree.Len())
	tree.Walk(func(n domain.PositionNode) {
		if n.IsRoot() {
			keys[n.ID] = SequenceKey(nil)
			return
		}
		keys[n.ID] = extendKey(keys[n.Parent], *n.Move)
	})
	return keys
}

// SequenceKey returns the key of the position reached by moves
func SequenceKey(moves []domain.Move) string {
	key := hashKey("start")
	for _, m := range moves {
		key = extendKey(key, m)
	}
	return key
}

func extendKey(parent string, m domain.Move) string {
	return hashKey(parent + "|" + m.String())
}

func hashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:16])
}
