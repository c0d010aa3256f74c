package commands

import (
	"context"

	"kifunav/internal/application"
	"kifunav/internal/domain"
	"kifunav/internal/ports"
)

// LoadTreeCommand loads a record and builds its position tree
type LoadTreeCommand struct {
	loader ports.RecordLoader
	Path   string
}

// NewLoadTreeCommand creates a new LoadTreeCommand
func NewLoadTreeCommand(loader ports.RecordLoader, path string) *LoadTreeCommand {
	return &LoadTreeCommand{loader: loader, Path: path}
}

// Execute runs the load tree command
func (c *LoadTreeCommand) Execute(ctx context.Context) (domain.Tree, *domain.ParsedRecord, error) {
	if err := application.ValidateRequired("recordPath", c.Path); err != nil {
		return domain.Tree{}, nil, err
	}

	record, err := c.loader.LoadRecord(c.Path)
	if err != nil {
		return domain.Tree{}, nil, &application.RecordError{Path: c.Path, Reason: "load failed", Err: err}
	}
	return domain.BuildTree(*record), record, nil
}
