package command

import (
	"fmt"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
)

// CreateColumn appends a column to a board. When Position is nil the
// column lands after the board's current last column.
type CreateColumn struct {
	BoardID  string
	Name     string
	Position *int
	WIPLimit *int

	CreatedID string
}

func (c *CreateColumn) Execute(ctx *Context) error {
	board, err := ctx.State.Board(c.BoardID)
	if err != nil {
		return err
	}
	if c.Name == "" {
		return domain.Validationf("column name cannot be empty")
	}
	position := len(ctx.State.ColumnsForBoard(board.ID))
	if c.Position != nil {
		position = *c.Position
	}
	col := domain.NewColumn(board.ID, c.Name, position)
	col.WIPLimit = c.WIPLimit
	ctx.State.Columns = append(ctx.State.Columns, *col)
	c.CreatedID = col.ID
	return nil
}

func (c *CreateColumn) Description() string {
	return fmt.Sprintf("create column %q on board %s", c.Name, c.BoardID)
}

// UpdateColumn applies partial updates to a column. Reordering is a
// position update; swapping two columns goes through SwapColumns so the
// intermediate state never persists.
type UpdateColumn struct {
	ColumnID string
	Update   domain.ColumnUpdate
}

func (c *UpdateColumn) Execute(ctx *Context) error {
	col, err := ctx.State.Column(c.ColumnID)
	if err != nil {
		return err
	}
	return col.Apply(c.Update)
}

func (c *UpdateColumn) Description() string {
	return fmt.Sprintf("update column %s", c.ColumnID)
}

// SwapColumns exchanges the positions of two columns of the same board
// in one command, so positions never transiently collide.
type SwapColumns struct {
	ColumnA string
	ColumnB string
}

func (c *SwapColumns) Execute(ctx *Context) error {
	a, err := ctx.State.Column(c.ColumnA)
	if err != nil {
		return err
	}
	b, err := ctx.State.Column(c.ColumnB)
	if err != nil {
		return err
	}
	if a.BoardID != b.BoardID {
		return domain.Validationf("columns %s and %s belong to different boards", c.ColumnA, c.ColumnB)
	}
	a.Position, b.Position = b.Position, a.Position
	a.Touch()
	b.Touch()
	return nil
}

func (c *SwapColumns) Description() string {
	return fmt.Sprintf("swap columns %s and %s", c.ColumnA, c.ColumnB)
}

// DeleteColumn removes a column that no live or archived card references.
type DeleteColumn struct {
	ColumnID string
}

func (c *DeleteColumn) Execute(ctx *Context) error {
	st := ctx.State
	if _, err := st.Column(c.ColumnID); err != nil {
		return err
	}
	for _, card := range st.Cards {
		if card.ColumnID == c.ColumnID {
			return domain.Validationf("column %s still has cards", c.ColumnID)
		}
	}
	for _, ac := range st.ArchivedCards {
		if ac.OriginalColumnID == c.ColumnID || ac.Card.ColumnID == c.ColumnID {
			return domain.Validationf("column %s is referenced by archived cards", c.ColumnID)
		}
	}
	columns := st.Columns[:0]
	for _, col := range st.Columns {
		if col.ID == c.ColumnID {
			continue
		}
		columns = append(columns, col)
	}
	st.Columns = columns
	return nil
}

func (c *DeleteColumn) Description() string {
	return fmt.Sprintf("delete column %s", c.ColumnID)
}

// CompactColumnPositions re-indexes a column's cards to 0..N in current
// positional order. Never invoked automatically.
type CompactColumnPositions struct {
	ColumnID string
}

func (c *CompactColumnPositions) Execute(ctx *Context) error {
	if _, err := ctx.State.Column(c.ColumnID); err != nil {
		return err
	}
	ordered := ctx.State.CardsInColumn(c.ColumnID)
	for i, card := range ordered {
		live, err := ctx.State.Card(card.ID)
		if err != nil {
			return err
		}
		if live.Position != i {
			live.Position = i
			live.Touch()
		}
	}
	return nil
}

func (c *CompactColumnPositions) Description() string {
	return fmt.Sprintf("compact positions in column %s", c.ColumnID)
}
