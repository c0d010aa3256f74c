package commands

import (
	"context"

	"kifunav/internal/domain"
)

// EncodeCursorCommand builds a canonical cursor from a move number and
// branch choices
type EncodeCursorCommand struct {
	Tesuu        int
	ForkPointers []domain.ForkPointer
}

// NewEncodeCursorCommand creates a new EncodeCursorCommand
func NewEncodeCursorCommand(tesuu int, fps []domain.ForkPointer) *EncodeCursorCommand {
	return &EncodeCursorCommand{Tesuu: tesuu, ForkPointers: fps}
}

// Execute validates the input and returns the cursor
func (c *EncodeCursorCommand) Execute(ctx context.Context) (domain.Cursor, error) {
	return domain.NewCursor(c.Tesuu, c.ForkPointers)
}

// DecodeCursorCommand parses a canonical cursor key
type DecodeCursorCommand struct {
	Key string
}

// NewDecodeCursorCommand creates a new DecodeCursorCommand
func NewDecodeCursorCommand(key string) *DecodeCursorCommand {
	return &DecodeCursorCommand{Key: key}
}

// Execute parses the key
func (c *DecodeCursorCommand) Execute(ctx context.Context) (domain.Cursor, error) {
	return domain.ParseCursorKey(c.Key)
}
