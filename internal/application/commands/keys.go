package commands

import (
	"context"
	"fmt"

	"kifunav/internal/application"
	"kifunav/internal/domain"
	"kifunav/internal/ports"
)

// PositionKeyAtCommand derives the search key of the position a cursor
// addresses in a record
type PositionKeyAtCommand struct {
	loader ports.RecordLoader
	keyer  ports.PositionKeyer

	Path   string
	Cursor domain.Cursor
}

// NewPositionKeyAtCommand creates a new PositionKeyAtCommand
func NewPositionKeyAtCommand(loader ports.RecordLoader, keyer ports.PositionKeyer, path string, cursor domain.Cursor) *PositionKeyAtCommand {
	return &PositionKeyAtCommand{loader: loader, keyer: keyer, Path: path, Cursor: cursor}
}

// Execute returns the position key. A cursor that leaves the record is
// reported as not found.
func (c *PositionKeyAtCommand) Execute(ctx context.Context) (string, error) {
	if err := c.Cursor.Validate(); err != nil {
		return "", err
	}
	tree, _, err := NewLoadTreeCommand(c.loader, c.Path).Execute(ctx)
	if err != nil {
		return "", err
	}

	id, ok := tree.NodeAt(c.Cursor)
	if !ok {
		return "", fmt.Errorf("cursor %s in %s: %w", c.Cursor.Key(), c.Path, application.ErrNotFound)
	}

	key, ok := c.keyer.PositionKeys(tree)[id]
	if !ok {
		return "", fmt.Errorf("no position key for node %s: %w", id, application.ErrNotFound)
	}
	return key, nil
}
