package commands

import (
	"context"

	"kifunav/internal/domain"
)

// ResolveResult is the node matching a replayed position
type ResolveResult struct {
	NodeID domain.NodeID
	Cursor domain.Cursor // Address of the resolved node in the tree
	Exact  bool          // Resolved node sits at the requested move number
}

// ResolveNodeCommand reconciles a replayed position with a tree node
type ResolveNodeCommand struct {
	tree     domain.Tree
	replayer domain.Replayer
	matcher  domain.MoveMatcher

	Tesuu        int
	ForkPointers []domain.ForkPointer
}

// NewResolveNodeCommand creates a new ResolveNodeCommand. A nil matcher
// uses domain.DefaultMoveMatcher.
func NewResolveNodeCommand(
	tree domain.Tree,
	replayer domain.Replayer,
	matcher domain.MoveMatcher,
	tesuu int,
	fps []domain.ForkPointer,
) *ResolveNodeCommand {
	return &ResolveNodeCommand{
		tree:         tree,
		replayer:     replayer,
		matcher:      matcher,
		Tesuu:        tesuu,
		ForkPointers: fps,
	}
}

// Execute resolves the node. Only a malformed cursor is an error; a
// replay that diverges from the tree resolves to the deepest match.
func (c *ResolveNodeCommand) Execute(ctx context.Context) (*ResolveResult, error) {
	taken, err := domain.NewCursor(c.Tesuu, c.ForkPointers)
	if err != nil {
		return nil, err
	}

	id := domain.ResolveCurrentNodeID(c.tree, taken.Tesuu, taken.ForkPointers, c.replayer, c.matcher)

	result := &ResolveResult{NodeID: id}
	if cursor, ok := c.tree.CursorOf(id); ok {
		result.Cursor = cursor
		result.Exact = cursor.Tesuu == taken.Tesuu
	}
	return result, nil
}
