package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
)

func makeColumns(board *domain.Board, names ...string) []domain.Column {
	cols := make([]domain.Column, len(names))
	for i, name := range names {
		cols[i] = *domain.NewColumn(board.ID, name, i)
	}
	return cols
}

func TestCompletionColumnDefaultsToLast(t *testing.T) {
	board := domain.NewBoard("b", nil)
	cols := makeColumns(board, "Todo", "Doing", "Done")

	completion := domain.CompletionColumn(board, cols)
	require.NotNil(t, completion)
	require.Equal(t, "Done", completion.Name)
}

func TestCompletionColumnExplicitOverride(t *testing.T) {
	board := domain.NewBoard("b", nil)
	cols := makeColumns(board, "Todo", "Review", "Done")

	board.CompletionColumnID = &cols[1].ID
	completion := domain.CompletionColumn(board, cols)
	require.Equal(t, "Review", completion.Name)

	// A stale override falls back to the last column.
	gone := "missing"
	board.CompletionColumnID = &gone
	completion = domain.CompletionColumn(board, cols)
	require.Equal(t, "Done", completion.Name)
}

func TestCompletionColumnNoColumns(t *testing.T) {
	board := domain.NewBoard("b", nil)
	require.Nil(t, domain.CompletionColumn(board, nil))
}

func TestComputeCompletionToggleMarksDone(t *testing.T) {
	board := domain.NewBoard("b", nil)
	cols := makeColumns(board, "Todo", "Doing", "Done")
	card := domain.NewCard(cols[0].ID, "work", 1, 0)
	occupant := domain.NewCard(cols[2].ID, "done already", 2, 0)
	cards := []domain.Card{*card, *occupant}

	toggle := domain.ComputeCompletionToggle(card, board, cols, cards)
	require.NotNil(t, toggle)
	require.Equal(t, domain.StatusDone, toggle.NewStatus)
	require.Equal(t, cols[2].ID, toggle.TargetColumnID)
	require.Equal(t, 1, toggle.NewPosition)
}

func TestComputeCompletionToggleFromCompletionColumn(t *testing.T) {
	board := domain.NewBoard("b", nil)
	cols := makeColumns(board, "Todo", "Doing", "Done")
	card := domain.NewCard(cols[2].ID, "finished", 1, 0)
	card.SetStatus(domain.StatusDone)

	toggle := domain.ComputeCompletionToggle(card, board, cols, []domain.Card{*card})
	require.NotNil(t, toggle)
	require.Equal(t, domain.StatusTodo, toggle.NewStatus)
	require.Equal(t, cols[1].ID, toggle.TargetColumnID)
	require.Equal(t, 0, toggle.NewPosition)
}

func TestComputeCompletionToggleDoneOutsideCompletionColumn(t *testing.T) {
	board := domain.NewBoard("b", nil)
	cols := makeColumns(board, "Todo", "Doing", "Done")
	card := domain.NewCard(cols[0].ID, "oddly done", 1, 3)
	card.SetStatus(domain.StatusDone)

	toggle := domain.ComputeCompletionToggle(card, board, cols, []domain.Card{*card})
	require.NotNil(t, toggle)
	require.Equal(t, domain.StatusTodo, toggle.NewStatus)
	require.Equal(t, cols[0].ID, toggle.TargetColumnID)
	require.Equal(t, 3, toggle.NewPosition)
}

func TestComputeCompletionToggleNeedsTwoColumns(t *testing.T) {
	board := domain.NewBoard("b", nil)
	cols := makeColumns(board, "Only")
	card := domain.NewCard(cols[0].ID, "stuck", 1, 0)

	require.Nil(t, domain.ComputeCompletionToggle(card, board, cols, []domain.Card{*card}))
}

func TestComputeCardColumnMoveEnds(t *testing.T) {
	board := domain.NewBoard("b", nil)
	cols := makeColumns(board, "A", "B", "C")

	first := domain.NewCard(cols[0].ID, "first", 1, 0)
	require.Nil(t, domain.ComputeCardColumnMove(first, domain.MoveLeft, board, cols, nil))

	last := domain.NewCard(cols[2].ID, "last", 2, 0)
	require.Nil(t, domain.ComputeCardColumnMove(last, domain.MoveRight, board, cols, nil))
}

func TestComputeCardColumnMoveCrossesCompletionBoundary(t *testing.T) {
	board := domain.NewBoard("b", nil)
	cols := makeColumns(board, "Todo", "Doing", "Done")

	card := domain.NewCard(cols[1].ID, "almost", 1, 0)
	move := domain.ComputeCardColumnMove(card, domain.MoveRight, board, cols, []domain.Card{*card})
	require.NotNil(t, move)
	require.Equal(t, cols[2].ID, move.TargetColumnID)
	require.NotNil(t, move.NewStatus)
	require.Equal(t, domain.StatusDone, *move.NewStatus)

	done := domain.NewCard(cols[2].ID, "shipped", 2, 0)
	done.SetStatus(domain.StatusDone)
	move = domain.ComputeCardColumnMove(done, domain.MoveLeft, board, cols, []domain.Card{*done})
	require.NotNil(t, move)
	require.Equal(t, cols[1].ID, move.TargetColumnID)
	require.NotNil(t, move.NewStatus)
	require.Equal(t, domain.StatusTodo, *move.NewStatus)
}

func TestComputeCardColumnMoveWithinMiddleKeepsStatus(t *testing.T) {
	board := domain.NewBoard("b", nil)
	cols := makeColumns(board, "A", "B", "C", "D")
	card := domain.NewCard(cols[1].ID, "middle", 1, 0)

	move := domain.ComputeCardColumnMove(card, domain.MoveRight, board, cols, []domain.Card{*card})
	require.NotNil(t, move)
	require.Equal(t, cols[2].ID, move.TargetColumnID)
	require.Nil(t, move.NewStatus)
}

func TestShouldAutoCompleteNewCard(t *testing.T) {
	board := domain.NewBoard("b", nil)
	three := makeColumns(board, "Todo", "Doing", "Done")
	require.True(t, domain.ShouldAutoCompleteNewCard(&three[2], board, three))
	require.False(t, domain.ShouldAutoCompleteNewCard(&three[0], board, three))

	two := makeColumns(board, "Todo", "Done")
	require.False(t, domain.ShouldAutoCompleteNewCard(&two[1], board, two))
}

func TestResolveRestoreColumn(t *testing.T) {
	board := domain.NewBoard("b", nil)
	cols := makeColumns(board, "A", "B")

	col := domain.ResolveRestoreColumn(cols[1].ID, board, cols)
	require.NotNil(t, col)
	require.Equal(t, cols[1].ID, col.ID)

	col = domain.ResolveRestoreColumn("gone", board, cols)
	require.NotNil(t, col)
	require.Equal(t, cols[0].ID, col.ID)

	require.Nil(t, domain.ResolveRestoreColumn("gone", board, nil))
}

func TestNextPositionInColumn(t *testing.T) {
	board := domain.NewBoard("b", nil)
	cols := makeColumns(board, "A", "B")
	cards := []domain.Card{
		*domain.NewCard(cols[0].ID, "one", 1, 0),
		*domain.NewCard(cols[0].ID, "two", 2, 1),
		*domain.NewCard(cols[1].ID, "three", 3, 0),
	}

	require.Equal(t, 2, domain.NextPositionInColumn(cards, cols[0].ID))
	require.Equal(t, 1, domain.NextPositionInColumn(cards, cols[1].ID))
	require.Equal(t, 0, domain.NextPositionInColumn(cards, "empty"))
}
