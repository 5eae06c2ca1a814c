package command

import (
	"fmt"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
)

// CreateBoard appends a new board with card numbering starting at 1.
type CreateBoard struct {
	Name string
	Desc *string

	// CreatedID holds the new board's id after execution.
	CreatedID string
}

func (c *CreateBoard) Execute(ctx *Context) error {
	if c.Name == "" {
		return domain.Validationf("board name cannot be empty")
	}
	board := domain.NewBoard(c.Name, c.Desc)
	ctx.State.Boards = append(ctx.State.Boards, *board)
	c.CreatedID = board.ID
	return nil
}

func (c *CreateBoard) Description() string {
	return fmt.Sprintf("create board %q", c.Name)
}

// UpdateBoard applies partial updates to a board.
type UpdateBoard struct {
	BoardID string
	Update  domain.BoardUpdate
}

func (c *UpdateBoard) Execute(ctx *Context) error {
	board, err := ctx.State.Board(c.BoardID)
	if err != nil {
		return err
	}
	if id, ok := c.Update.ActiveSprintID.Value(); ok {
		if _, err := ctx.State.Sprint(id); err != nil {
			return err
		}
	}
	if id, ok := c.Update.CompletionColumnID.Value(); ok {
		col, err := ctx.State.Column(id)
		if err != nil {
			return err
		}
		if col.BoardID != board.ID {
			return domain.Validationf("column %s does not belong to board %s", id, board.ID)
		}
	}
	return board.Apply(c.Update)
}

func (c *UpdateBoard) Description() string {
	return fmt.Sprintf("update board %s", c.BoardID)
}

// DeleteBoard removes the board and cascades to its columns, cards,
// archived cards, sprints, and every edge touching a removed card.
type DeleteBoard struct {
	BoardID string
}

func (c *DeleteBoard) Execute(ctx *Context) error {
	st := ctx.State
	if _, err := st.Board(c.BoardID); err != nil {
		return err
	}

	ownedColumns := map[string]bool{}
	columns := st.Columns[:0]
	for _, col := range st.Columns {
		if col.BoardID == c.BoardID {
			ownedColumns[col.ID] = true
			continue
		}
		columns = append(columns, col)
	}
	st.Columns = columns

	cards := st.Cards[:0]
	for _, card := range st.Cards {
		if ownedColumns[card.ColumnID] {
			st.Graph.RemoveNode(card.ID)
			continue
		}
		cards = append(cards, card)
	}
	st.Cards = cards

	archived := st.ArchivedCards[:0]
	for _, ac := range st.ArchivedCards {
		if ownedColumns[ac.OriginalColumnID] || ownedColumns[ac.Card.ColumnID] {
			st.Graph.RemoveNode(ac.Card.ID)
			continue
		}
		archived = append(archived, ac)
	}
	st.ArchivedCards = archived

	sprints := st.Sprints[:0]
	for _, sp := range st.Sprints {
		if sp.BoardID == c.BoardID {
			continue
		}
		sprints = append(sprints, sp)
	}
	st.Sprints = sprints

	boards := st.Boards[:0]
	for _, b := range st.Boards {
		if b.ID == c.BoardID {
			continue
		}
		boards = append(boards, b)
	}
	st.Boards = boards
	return nil
}

func (c *DeleteBoard) Description() string {
	return fmt.Sprintf("delete board %s", c.BoardID)
}
