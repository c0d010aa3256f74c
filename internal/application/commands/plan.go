package commands

import (
	"context"
	"fmt"

	"kifunav/internal/application"
	"kifunav/internal/domain"
)

// PlanForkCommand records a provisional branch choice
type PlanForkCommand struct {
	Plan      domain.ForkPlan
	Te        int
	ForkIndex int
}

// NewPlanForkCommand creates a new PlanForkCommand
func NewPlanForkCommand(plan domain.ForkPlan, te, forkIndex int) *PlanForkCommand {
	return &PlanForkCommand{Plan: plan, Te: te, ForkIndex: forkIndex}
}

// Validate checks the command inputs
func (c *PlanForkCommand) Validate() error {
	if err := application.ValidateNonNegative("te", c.Te); err != nil {
		return err
	}
	return application.ValidateNonNegative("forkIndex", c.ForkIndex)
}

// Execute returns the plan with the choice applied
func (c *PlanForkCommand) Execute(ctx context.Context) (domain.ForkPlan, error) {
	if err := c.Validate(); err != nil {
		return c.Plan, err
	}
	return c.Plan.Upsert(c.Te, c.ForkIndex), nil
}

// ClearForkCommand drops a provisional branch choice
type ClearForkCommand struct {
	Plan domain.ForkPlan
	Te   int
}

// NewClearForkCommand creates a new ClearForkCommand
func NewClearForkCommand(plan domain.ForkPlan, te int) *ClearForkCommand {
	return &ClearForkCommand{Plan: plan, Te: te}
}

// Execute returns the plan without a choice at Te
func (c *ClearForkCommand) Execute(ctx context.Context) (domain.ForkPlan, error) {
	return c.Plan.Remove(c.Te), nil
}

// PlanEnd is where a plan leads in a tree
type PlanEnd struct {
	NodeID domain.NodeID
	Cursor domain.Cursor
	Moves  []domain.Move
}

// JumpToPlanEndCommand follows a plan through a tree to its last position
type JumpToPlanEndCommand struct {
	tree domain.Tree
	Plan domain.ForkPlan
}

// NewJumpToPlanEndCommand creates a new JumpToPlanEndCommand
func NewJumpToPlanEndCommand(tree domain.Tree, plan domain.ForkPlan) *JumpToPlanEndCommand {
	return &JumpToPlanEndCommand{tree: tree, Plan: plan}
}

// Execute walks the tree along the plan
func (c *JumpToPlanEndCommand) Execute(ctx context.Context) (*PlanEnd, error) {
	id := c.tree.FollowPlan(c.Plan.Lookup())

	cursor, ok := c.tree.CursorOf(id)
	if !ok {
		return nil, fmt.Errorf("plan end %s: %w", id, application.ErrNotFound)
	}
	return &PlanEnd{
		NodeID: id,
		Cursor: cursor,
		Moves:  c.tree.MovesTo(id),
	}, nil
}
