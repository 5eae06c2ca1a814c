package command

import (
	"fmt"
	"time"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
)

// CreateCard allocates a card number from the owning board and appends
// the card to the column. A card created directly in the completion
// column of a board with more than two columns starts out Done.
type CreateCard struct {
	ColumnID string
	Title    string
	Desc     *string
	Priority *domain.Priority
	Points   *int
	DueDate  *time.Time

	CreatedID string
}

func (c *CreateCard) Execute(ctx *Context) error {
	st := ctx.State
	col, err := st.Column(c.ColumnID)
	if err != nil {
		return err
	}
	board, err := st.Board(col.BoardID)
	if err != nil {
		return err
	}
	if c.Title == "" {
		return domain.Validationf("card title cannot be empty")
	}
	number := board.AllocateCardNumber()
	position := domain.NextPositionInColumn(st.Cards, col.ID)
	card := domain.NewCard(col.ID, c.Title, number, position)
	card.Description = c.Desc
	if c.Priority != nil {
		card.Priority = *c.Priority
	}
	card.Points = c.Points
	card.DueDate = c.DueDate
	if domain.ShouldAutoCompleteNewCard(col, board, st.Columns) {
		card.SetStatus(domain.StatusDone)
	}
	st.Cards = append(st.Cards, *card)
	c.CreatedID = card.ID
	return nil
}

func (c *CreateCard) Description() string {
	return fmt.Sprintf("create card %q in column %s", c.Title, c.ColumnID)
}

// CreateSubcard creates a card in the parent's column and links it under
// the parent. A missing parent or board fails; there is no silent no-op.
type CreateSubcard struct {
	ParentID string
	Title    string

	CreatedID string
}

func (c *CreateSubcard) Execute(ctx *Context) error {
	parent, err := ctx.State.Card(c.ParentID)
	if err != nil {
		return err
	}
	create := &CreateCard{ColumnID: parent.ColumnID, Title: c.Title}
	if err := create.Execute(ctx); err != nil {
		return err
	}
	link := &SetParent{ParentID: c.ParentID, ChildID: create.CreatedID}
	if err := link.Execute(ctx); err != nil {
		return err
	}
	c.CreatedID = create.CreatedID
	return nil
}

func (c *CreateSubcard) Description() string {
	return fmt.Sprintf("create subcard %q under card %s", c.Title, c.ParentID)
}

// UpdateCard applies partial updates to a live card.
type UpdateCard struct {
	CardID string
	Update domain.CardUpdate
}

func (c *UpdateCard) Execute(ctx *Context) error {
	card, err := ctx.State.Card(c.CardID)
	if err != nil {
		return err
	}
	return card.Apply(c.Update)
}

func (c *UpdateCard) Description() string {
	return fmt.Sprintf("update card %s", c.CardID)
}

// MoveCard re-homes a card to a column. A nil position appends.
type MoveCard struct {
	CardID   string
	ColumnID string
	Position *int
}

func (c *MoveCard) Execute(ctx *Context) error {
	st := ctx.State
	card, err := st.Card(c.CardID)
	if err != nil {
		return err
	}
	if _, err := st.Column(c.ColumnID); err != nil {
		return err
	}
	position := domain.NextPositionInColumn(st.Cards, c.ColumnID)
	if c.Position != nil {
		position = *c.Position
	}
	card.ColumnID = c.ColumnID
	card.Position = position
	card.Touch()
	return nil
}

func (c *MoveCard) Description() string {
	return fmt.Sprintf("move card %s to column %s", c.CardID, c.ColumnID)
}

// MoveCardDirection moves a card to the neighbour column, flipping its
// status when crossing the completion boundary. A move past either end
// is a no-op.
type MoveCardDirection struct {
	CardID    string
	Direction domain.MoveDirection
}

func (c *MoveCardDirection) Execute(ctx *Context) error {
	st := ctx.State
	card, err := st.Card(c.CardID)
	if err != nil {
		return err
	}
	board, err := st.BoardForCard(card)
	if err != nil {
		return err
	}
	move := domain.ComputeCardColumnMove(card, c.Direction, board, st.Columns, st.Cards)
	if move == nil {
		return nil
	}
	card.ColumnID = move.TargetColumnID
	card.Position = move.NewPosition
	if move.NewStatus != nil {
		card.SetStatus(*move.NewStatus)
	}
	card.Touch()
	return nil
}

func (c *MoveCardDirection) Description() string {
	return fmt.Sprintf("move card %s sideways", c.CardID)
}

// ToggleCardCompletion flips a card between Done and not-Done following
// the completion-column policy. Boards with fewer than two columns make
// this a no-op.
type ToggleCardCompletion struct {
	CardID string
}

func (c *ToggleCardCompletion) Execute(ctx *Context) error {
	st := ctx.State
	card, err := st.Card(c.CardID)
	if err != nil {
		return err
	}
	board, err := st.BoardForCard(card)
	if err != nil {
		return err
	}
	toggle := domain.ComputeCompletionToggle(card, board, st.Columns, st.Cards)
	if toggle == nil {
		return nil
	}
	card.ColumnID = toggle.TargetColumnID
	card.Position = toggle.NewPosition
	card.SetStatus(toggle.NewStatus)
	return nil
}

func (c *ToggleCardCompletion) Description() string {
	return fmt.Sprintf("toggle completion of card %s", c.CardID)
}

// ArchiveCard moves a card to the archive and archives its edges.
type ArchiveCard struct {
	CardID string
}

func (c *ArchiveCard) Execute(ctx *Context) error {
	st := ctx.State
	card, err := st.Card(c.CardID)
	if err != nil {
		return err
	}
	archived := domain.NewArchivedCard(*card)
	cards := st.Cards[:0]
	for _, existing := range st.Cards {
		if existing.ID == c.CardID {
			continue
		}
		cards = append(cards, existing)
	}
	st.Cards = cards
	st.ArchivedCards = append(st.ArchivedCards, archived)
	st.Graph.ArchiveNode(c.CardID)
	return nil
}

func (c *ArchiveCard) Description() string {
	return fmt.Sprintf("archive card %s", c.CardID)
}

// RestoreCard moves an archived card back to the board. The caller may
// pick the target column; otherwise the original column is used.
type RestoreCard struct {
	CardID   string
	ColumnID *string
}

func (c *RestoreCard) Execute(ctx *Context) error {
	st := ctx.State
	archived, err := st.ArchivedCard(c.CardID)
	if err != nil {
		return err
	}
	targetID := archived.OriginalColumnID
	if c.ColumnID != nil {
		targetID = *c.ColumnID
	}
	if _, err := st.Column(targetID); err != nil {
		return err
	}

	card := archived.Card
	card.ColumnID = targetID
	card.Position = domain.NextPositionInColumn(st.Cards, targetID)
	card.Touch()

	remaining := st.ArchivedCards[:0]
	for _, ac := range st.ArchivedCards {
		if ac.Card.ID == c.CardID {
			continue
		}
		remaining = append(remaining, ac)
	}
	st.ArchivedCards = remaining
	st.Cards = append(st.Cards, card)
	st.Graph.UnarchiveNode(c.CardID)
	return nil
}

func (c *RestoreCard) Description() string {
	return fmt.Sprintf("restore card %s", c.CardID)
}

// DeleteCard permanently removes an archived card and every edge
// mentioning it.
type DeleteCard struct {
	CardID string
}

func (c *DeleteCard) Execute(ctx *Context) error {
	st := ctx.State
	if _, err := st.ArchivedCard(c.CardID); err != nil {
		return err
	}
	remaining := st.ArchivedCards[:0]
	for _, ac := range st.ArchivedCards {
		if ac.Card.ID == c.CardID {
			continue
		}
		remaining = append(remaining, ac)
	}
	st.ArchivedCards = remaining
	st.Graph.RemoveNode(c.CardID)
	return nil
}

func (c *DeleteCard) Description() string {
	return fmt.Sprintf("delete archived card %s", c.CardID)
}
