package command

import (
	"fmt"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
	"github.com/fulsomenko/kanban-sub000/internal/graph"
)

func requireCards(ctx *Context, ids ...string) error {
	for _, id := range ids {
		if _, err := ctx.State.Card(id); err != nil {
			return err
		}
	}
	return nil
}

// AddBlocks records that Source blocks Target. The Blocks sub-graph is
// kept acyclic.
type AddBlocks struct {
	SourceID string
	TargetID string
	Weight   *float64
}

func (c *AddBlocks) Execute(ctx *Context) error {
	if c.SourceID == c.TargetID {
		return domain.SelfReference()
	}
	if err := requireCards(ctx, c.SourceID, c.TargetID); err != nil {
		return err
	}
	if ctx.State.Graph.WouldCreateCycle(c.SourceID, c.TargetID, graph.LabelBlocks) {
		return domain.CycleDetected(c.SourceID, c.TargetID)
	}
	ctx.State.Graph.AddEdge(graph.Edge{
		Source:    c.SourceID,
		Target:    c.TargetID,
		Label:     graph.LabelBlocks,
		Direction: graph.Directed,
		Weight:    c.Weight,
	})
	return nil
}

func (c *AddBlocks) Description() string {
	return fmt.Sprintf("card %s blocks %s", c.SourceID, c.TargetID)
}

// AddRelatesTo records a bidirectional relation between two cards.
type AddRelatesTo struct {
	SourceID string
	TargetID string
	Weight   *float64
}

func (c *AddRelatesTo) Execute(ctx *Context) error {
	if c.SourceID == c.TargetID {
		return domain.SelfReference()
	}
	if err := requireCards(ctx, c.SourceID, c.TargetID); err != nil {
		return err
	}
	ctx.State.Graph.AddEdge(graph.Edge{
		Source:    c.SourceID,
		Target:    c.TargetID,
		Label:     graph.LabelRelatesTo,
		Direction: graph.Bidirectional,
		Weight:    c.Weight,
	})
	return nil
}

func (c *AddRelatesTo) Description() string {
	return fmt.Sprintf("card %s relates to %s", c.SourceID, c.TargetID)
}

// SetParent makes Parent the card's parent, replacing any existing
// parent edge. The ParentChild sub-graph is kept acyclic.
type SetParent struct {
	ParentID string
	ChildID  string
}

func (c *SetParent) Execute(ctx *Context) error {
	if c.ParentID == c.ChildID {
		return domain.SelfReference()
	}
	if err := requireCards(ctx, c.ParentID, c.ChildID); err != nil {
		return err
	}
	if ctx.State.Graph.WouldCreateCycle(c.ParentID, c.ChildID, graph.LabelParentChild) {
		return domain.CycleDetected(c.ParentID, c.ChildID)
	}
	if existing := ctx.State.Graph.Parent(c.ChildID); existing != nil {
		ctx.State.Graph.RemoveEdgeLabeled(*existing, c.ChildID, graph.LabelParentChild)
	}
	ctx.State.Graph.AddEdge(graph.Edge{
		Source:    c.ParentID,
		Target:    c.ChildID,
		Label:     graph.LabelParentChild,
		Direction: graph.Directed,
	})
	return nil
}

func (c *SetParent) Description() string {
	return fmt.Sprintf("set parent of card %s to %s", c.ChildID, c.ParentID)
}

// RemoveDependency removes every edge connecting the pair.
type RemoveDependency struct {
	SourceID string
	TargetID string
}

func (c *RemoveDependency) Execute(ctx *Context) error {
	if ctx.State.Graph.RemoveEdge(c.SourceID, c.TargetID) == 0 {
		return domain.NotFoundf("Dependency %s -> %s", c.SourceID, c.TargetID)
	}
	return nil
}

func (c *RemoveDependency) Description() string {
	return fmt.Sprintf("remove dependency between %s and %s", c.SourceID, c.TargetID)
}

// RemoveParent detaches the card from its parent.
type RemoveParent struct {
	ChildID string
}

func (c *RemoveParent) Execute(ctx *Context) error {
	parent := ctx.State.Graph.Parent(c.ChildID)
	if parent == nil {
		return domain.NotFoundf("Parent of card %s", c.ChildID)
	}
	ctx.State.Graph.RemoveEdgeLabeled(*parent, c.ChildID, graph.LabelParentChild)
	return nil
}

func (c *RemoveParent) Description() string {
	return fmt.Sprintf("remove parent of card %s", c.ChildID)
}
