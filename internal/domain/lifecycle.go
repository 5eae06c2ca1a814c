package domain

import "sort"

// Pure card lifecycle helpers shared by the command layer and the view
// hosts. They never mutate, only propose.

// SortedBoardColumns returns the board's columns sorted by position.
func SortedBoardColumns(board *Board, columns []Column) []Column {
	var out []Column
	for _, c := range columns {
		if c.BoardID == board.ID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// NextPositionInColumn returns the append position for a new card: the
// count of cards currently in the column. Positions are not dense, so
// this only guarantees the new card sorts last among compacted columns.
func NextPositionInColumn(cards []Card, columnID string) int {
	n := 0
	for _, c := range cards {
		if c.ColumnID == columnID {
			n++
		}
	}
	return n
}

// CompletionColumn resolves the board's "done" column: the explicit
// override when set and still present, otherwise the last column in
// position order. Returns nil when the board has no columns.
func CompletionColumn(board *Board, columns []Column) *Column {
	sorted := SortedBoardColumns(board, columns)
	if len(sorted) == 0 {
		return nil
	}
	if board.CompletionColumnID != nil {
		for i := range sorted {
			if sorted[i].ID == *board.CompletionColumnID {
				return &sorted[i]
			}
		}
	}
	return &sorted[len(sorted)-1]
}

// CompletionToggle proposes the effect of toggling a card's completion.
type CompletionToggle struct {
	NewStatus      Status
	TargetColumnID string
	NewPosition    int
}

// ComputeCompletionToggle computes the completion toggle for a card, or
// nil when the board has fewer than two columns. Toggling to Done moves
// the card to the completion column and appends; toggling from Done moves
// it to the column immediately before the completion column. A card
// leaving Done from some other column only flips its status.
func ComputeCompletionToggle(card *Card, board *Board, columns []Column, cards []Card) *CompletionToggle {
	sorted := SortedBoardColumns(board, columns)
	if len(sorted) < 2 {
		return nil
	}
	completion := CompletionColumn(board, columns)
	if completion == nil {
		return nil
	}

	if card.Status != StatusDone {
		return &CompletionToggle{
			NewStatus:      StatusDone,
			TargetColumnID: completion.ID,
			NewPosition:    NextPositionInColumn(cards, completion.ID),
		}
	}

	if card.ColumnID != completion.ID {
		return &CompletionToggle{
			NewStatus:      StatusTodo,
			TargetColumnID: card.ColumnID,
			NewPosition:    card.Position,
		}
	}

	var previous *Column
	for i := range sorted {
		if sorted[i].ID == completion.ID && i > 0 {
			previous = &sorted[i-1]
		}
	}
	if previous == nil {
		return nil
	}
	return &CompletionToggle{
		NewStatus:      StatusTodo,
		TargetColumnID: previous.ID,
		NewPosition:    NextPositionInColumn(cards, previous.ID),
	}
}

// MoveDirection is a horizontal card move across columns.
type MoveDirection int

const (
	MoveLeft MoveDirection = iota
	MoveRight
)

// ColumnMove proposes the effect of moving a card to a neighbour column.
type ColumnMove struct {
	TargetColumnID string
	NewPosition    int
	// NewStatus is set when the move crosses the completion boundary.
	NewStatus *Status
}

// ComputeCardColumnMove proposes a move to the neighbour column in the
// given direction, or nil at the ends. Moving onto the completion column
// marks the card Done; moving off it marks the card Todo.
func ComputeCardColumnMove(card *Card, dir MoveDirection, board *Board, columns []Column, cards []Card) *ColumnMove {
	sorted := SortedBoardColumns(board, columns)
	idx := -1
	for i := range sorted {
		if sorted[i].ID == card.ColumnID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	next := idx - 1
	if dir == MoveRight {
		next = idx + 1
	}
	if next < 0 || next >= len(sorted) {
		return nil
	}

	move := &ColumnMove{
		TargetColumnID: sorted[next].ID,
		NewPosition:    NextPositionInColumn(cards, sorted[next].ID),
	}
	completion := CompletionColumn(board, columns)
	if completion != nil {
		if sorted[next].ID == completion.ID && card.Status != StatusDone {
			done := StatusDone
			move.NewStatus = &done
		} else if card.ColumnID == completion.ID && sorted[next].ID != completion.ID && card.Status == StatusDone {
			todo := StatusTodo
			move.NewStatus = &todo
		}
	}
	return move
}

// ShouldAutoCompleteNewCard reports whether a card created directly in
// the given column starts out Done. This only applies on boards with more
// than two columns whose completion column is the target.
func ShouldAutoCompleteNewCard(column *Column, board *Board, columns []Column) bool {
	if len(SortedBoardColumns(board, columns)) <= 2 {
		return false
	}
	completion := CompletionColumn(board, columns)
	return completion != nil && completion.ID == column.ID
}

// ResolveRestoreColumn picks the column a card is restored into: the
// original when still present, otherwise the board's first column,
// otherwise nil.
func ResolveRestoreColumn(originalColumnID string, board *Board, columns []Column) *Column {
	sorted := SortedBoardColumns(board, columns)
	for i := range sorted {
		if sorted[i].ID == originalColumnID {
			return &sorted[i]
		}
	}
	if len(sorted) > 0 {
		return &sorted[0]
	}
	return nil
}
