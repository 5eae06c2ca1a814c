package domain

import (
	"time"

	"github.com/google/uuid"
)

// Column is an ordered lane of cards within a board.
type Column struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"board_id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	WIPLimit  *int      `json:"wip_limit,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewColumn creates a column on the given board at the given position.
func NewColumn(boardID, name string, position int) *Column {
	now := time.Now().UTC()
	return &Column{
		ID:        uuid.NewString(),
		BoardID:   boardID,
		Name:      name,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch bumps the last-mutation timestamp.
func (c *Column) Touch() { c.UpdatedAt = time.Now().UTC() }

// ColumnUpdate carries partial updates for UpdateColumn. Reordering a
// column is a position update; swapping two columns must go through a
// single batch so intermediate states never persist.
type ColumnUpdate struct {
	Name     FieldUpdate[string]
	Position FieldUpdate[int]
	WIPLimit FieldUpdate[int]
}

// Apply validates and applies the update.
func (c *Column) Apply(u ColumnUpdate) error {
	if err := ApplyRequired(u.Name, &c.Name, "name"); err != nil {
		return err
	}
	if name, ok := u.Name.Value(); ok && name == "" {
		return Validationf("column name cannot be empty")
	}
	if err := ApplyRequired(u.Position, &c.Position, "position"); err != nil {
		return err
	}
	if limit, ok := u.WIPLimit.Value(); ok && limit < 0 {
		return Validationf("wip limit cannot be negative")
	}
	ApplyOptional(u.WIPLimit, &c.WIPLimit)
	c.Touch()
	return nil
}
