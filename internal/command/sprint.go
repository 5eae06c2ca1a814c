package command

import (
	"fmt"
	"time"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
)

// CreateSprint appends a sprint in Planning state; the board supplies
// the next number for the effective prefix and, when reserved names
// remain, the next name index.
type CreateSprint struct {
	BoardID    string
	Prefix     *string
	CardPrefix *string
	StartDate  *time.Time
	EndDate    *time.Time

	CreatedID string
}

func (c *CreateSprint) Execute(ctx *Context) error {
	board, err := ctx.State.Board(c.BoardID)
	if err != nil {
		return err
	}
	if c.Prefix != nil {
		if err := domain.ValidatePrefix(*c.Prefix); err != nil {
			return err
		}
	}
	if c.CardPrefix != nil {
		if err := domain.ValidatePrefix(*c.CardPrefix); err != nil {
			return err
		}
	}
	prefix := domain.BoardSprintPrefix(board)
	if c.Prefix != nil && *c.Prefix != "" {
		prefix = *c.Prefix
	}
	number := board.AllocateSprintNumber(prefix)
	nameIndex := board.TakeSprintName()
	sprint := domain.NewSprint(board.ID, number, nameIndex, c.Prefix, c.CardPrefix)
	sprint.StartDate = c.StartDate
	sprint.EndDate = c.EndDate
	ctx.State.Sprints = append(ctx.State.Sprints, *sprint)
	c.CreatedID = sprint.ID
	return nil
}

func (c *CreateSprint) Description() string {
	return fmt.Sprintf("create sprint on board %s", c.BoardID)
}

// ActivateSprint moves a sprint to Active and makes it the board's
// active sprint. When no end date is set, DurationDays past the start is
// applied.
type ActivateSprint struct {
	SprintID     string
	StartDate    *time.Time
	DurationDays int
}

func (c *ActivateSprint) Execute(ctx *Context) error {
	sprint, err := ctx.State.Sprint(c.SprintID)
	if err != nil {
		return err
	}
	start := time.Now().UTC()
	if c.StartDate != nil {
		start = *c.StartDate
	}
	if err := sprint.Activate(start, c.DurationDays); err != nil {
		return err
	}
	board, err := ctx.State.Board(sprint.BoardID)
	if err != nil {
		return err
	}
	id := sprint.ID
	board.ActiveSprintID = &id
	board.Touch()
	return nil
}

func (c *ActivateSprint) Description() string {
	return fmt.Sprintf("activate sprint %s", c.SprintID)
}

// CompleteSprint moves a sprint to Completed, dropping the board's
// active-sprint reference if it points here.
type CompleteSprint struct {
	SprintID string
}

func (c *CompleteSprint) Execute(ctx *Context) error {
	sprint, err := ctx.State.Sprint(c.SprintID)
	if err != nil {
		return err
	}
	if err := sprint.Complete(); err != nil {
		return err
	}
	clearActiveSprint(ctx, sprint.BoardID, sprint.ID)
	return nil
}

func (c *CompleteSprint) Description() string {
	return fmt.Sprintf("complete sprint %s", c.SprintID)
}

// CancelSprint moves a sprint to Cancelled, dropping the board's
// active-sprint reference if it points here.
type CancelSprint struct {
	SprintID string
}

func (c *CancelSprint) Execute(ctx *Context) error {
	sprint, err := ctx.State.Sprint(c.SprintID)
	if err != nil {
		return err
	}
	if err := sprint.Cancel(); err != nil {
		return err
	}
	clearActiveSprint(ctx, sprint.BoardID, sprint.ID)
	return nil
}

func (c *CancelSprint) Description() string {
	return fmt.Sprintf("cancel sprint %s", c.SprintID)
}

// DeleteSprint removes a sprint, unassigning every member card first.
type DeleteSprint struct {
	SprintID string
}

func (c *DeleteSprint) Execute(ctx *Context) error {
	st := ctx.State
	sprint, err := st.Sprint(c.SprintID)
	if err != nil {
		return err
	}
	boardID := sprint.BoardID
	for i := range st.Cards {
		if st.Cards[i].SprintID != nil && *st.Cards[i].SprintID == c.SprintID {
			st.Cards[i].LeaveSprint()
		}
	}
	clearActiveSprint(ctx, boardID, c.SprintID)
	sprints := st.Sprints[:0]
	for _, sp := range st.Sprints {
		if sp.ID == c.SprintID {
			continue
		}
		sprints = append(sprints, sp)
	}
	st.Sprints = sprints
	return nil
}

func (c *DeleteSprint) Description() string {
	return fmt.Sprintf("delete sprint %s", c.SprintID)
}

// AssignCardToSprint closes the card's current sprint log, if any, and
// opens a new one.
type AssignCardToSprint struct {
	CardID   string
	SprintID string
}

func (c *AssignCardToSprint) Execute(ctx *Context) error {
	card, err := ctx.State.Card(c.CardID)
	if err != nil {
		return err
	}
	if _, err := ctx.State.Sprint(c.SprintID); err != nil {
		return err
	}
	card.JoinSprint(c.SprintID)
	return nil
}

func (c *AssignCardToSprint) Description() string {
	return fmt.Sprintf("assign card %s to sprint %s", c.CardID, c.SprintID)
}

// UnassignCardFromSprint closes the current sprint log and clears the
// card's sprint reference.
type UnassignCardFromSprint struct {
	CardID string
}

func (c *UnassignCardFromSprint) Execute(ctx *Context) error {
	card, err := ctx.State.Card(c.CardID)
	if err != nil {
		return err
	}
	card.LeaveSprint()
	return nil
}

func (c *UnassignCardFromSprint) Description() string {
	return fmt.Sprintf("unassign card %s from its sprint", c.CardID)
}

func clearActiveSprint(ctx *Context, boardID, sprintID string) {
	board, err := ctx.State.Board(boardID)
	if err != nil {
		return
	}
	if board.ActiveSprintID != nil && *board.ActiveSprintID == sprintID {
		board.ActiveSprintID = nil
		board.Touch()
	}
}
