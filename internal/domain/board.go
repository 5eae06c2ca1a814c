package domain

import (
	"time"

	"github.com/google/uuid"
)

// ViewMode selects how a board's cards are laid out.
type ViewMode string

const (
	ViewFlat            ViewMode = "flat"
	ViewGroupedByColumn ViewMode = "grouped_by_column"
	ViewColumn          ViewMode = "column_view"
)

// SortField selects the comparator used to order a board's cards.
type SortField string

const (
	SortDefault   SortField = "default" // card number
	SortPoints    SortField = "points"
	SortPriority  SortField = "priority"
	SortCreatedAt SortField = "created_at"
	SortUpdatedAt SortField = "updated_at"
	SortStatus    SortField = "status"
	SortPosition  SortField = "position"
)

// SortOrder is the direction applied on top of a SortField comparator.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// Board is the top-level workspace grouping columns and sprints.
type Board struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Description        *string        `json:"description,omitempty"`
	CardPrefix         *string        `json:"card_prefix,omitempty"`
	SprintPrefix       *string        `json:"sprint_prefix,omitempty"`
	NextCardNumber     int            `json:"next_card_number"`
	SprintCounters     map[string]int `json:"sprint_counters,omitempty"`
	SprintNames        []string       `json:"sprint_names,omitempty"`
	SprintNamesUsed    int            `json:"sprint_names_used"`
	SortField          SortField      `json:"sort_field"`
	SortOrder          SortOrder      `json:"sort_order"`
	ActiveSprintID     *string        `json:"active_sprint_id,omitempty"`
	CompletionColumnID *string        `json:"completion_column_id,omitempty"`
	ViewMode           ViewMode       `json:"view_mode"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// NewBoard creates a board with a fresh id and card numbering starting at 1.
func NewBoard(name string, description *string) *Board {
	now := time.Now().UTC()
	return &Board{
		ID:             uuid.NewString(),
		Name:           name,
		Description:    description,
		NextCardNumber: 1,
		SortField:      SortDefault,
		SortOrder:      SortAscending,
		ViewMode:       ViewGroupedByColumn,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// AllocateCardNumber hands out the next card number for this board.
func (b *Board) AllocateCardNumber() int {
	n := b.NextCardNumber
	b.NextCardNumber++
	b.Touch()
	return n
}

// AllocateSprintNumber hands out the next sprint number for the given
// prefix. Counters are per prefix so renaming the board prefix never
// collides older sprints with newer ones.
func (b *Board) AllocateSprintNumber(prefix string) int {
	if b.SprintCounters == nil {
		b.SprintCounters = make(map[string]int)
	}
	b.SprintCounters[prefix]++
	b.Touch()
	return b.SprintCounters[prefix]
}

// TakeSprintName consumes the next reserved sprint name, if any remain.
// The returned index addresses the board's SprintNames list.
func (b *Board) TakeSprintName() *int {
	if b.SprintNamesUsed >= len(b.SprintNames) {
		return nil
	}
	idx := b.SprintNamesUsed
	b.SprintNamesUsed++
	b.Touch()
	return &idx
}

// Touch bumps the last-mutation timestamp.
func (b *Board) Touch() { b.UpdatedAt = time.Now().UTC() }

// BoardUpdate carries partial updates for UpdateBoard.
type BoardUpdate struct {
	Name               FieldUpdate[string]
	Description        FieldUpdate[string]
	CardPrefix         FieldUpdate[string]
	SprintPrefix       FieldUpdate[string]
	SprintNames        FieldUpdate[[]string]
	SortField          FieldUpdate[SortField]
	SortOrder          FieldUpdate[SortOrder]
	ActiveSprintID     FieldUpdate[string]
	CompletionColumnID FieldUpdate[string]
	ViewMode           FieldUpdate[ViewMode]
}

// Apply validates and applies the update, bumping UpdatedAt on any change.
func (b *Board) Apply(u BoardUpdate) error {
	if err := ApplyRequired(u.Name, &b.Name, "name"); err != nil {
		return err
	}
	if name, ok := u.Name.Value(); ok && name == "" {
		return Validationf("board name cannot be empty")
	}
	if prefix, ok := u.CardPrefix.Value(); ok {
		if err := ValidatePrefix(prefix); err != nil {
			return err
		}
	}
	if prefix, ok := u.SprintPrefix.Value(); ok {
		if err := ValidatePrefix(prefix); err != nil {
			return err
		}
	}
	ApplyOptional(u.Description, &b.Description)
	ApplyOptional(u.CardPrefix, &b.CardPrefix)
	ApplyOptional(u.SprintPrefix, &b.SprintPrefix)
	if names, ok := u.SprintNames.Value(); ok {
		b.SprintNames = names
		if b.SprintNamesUsed > len(names) {
			b.SprintNamesUsed = len(names)
		}
	} else if u.SprintNames.IsClear() {
		b.SprintNames = nil
		b.SprintNamesUsed = 0
	}
	if err := ApplyRequired(u.SortField, &b.SortField, "sort_field"); err != nil {
		return err
	}
	if err := ApplyRequired(u.SortOrder, &b.SortOrder, "sort_order"); err != nil {
		return err
	}
	ApplyOptional(u.ActiveSprintID, &b.ActiveSprintID)
	ApplyOptional(u.CompletionColumnID, &b.CompletionColumnID)
	if err := ApplyRequired(u.ViewMode, &b.ViewMode, "view_mode"); err != nil {
		return err
	}
	b.Touch()
	return nil
}
