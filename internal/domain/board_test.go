package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
)

func TestAllocateCardNumber(t *testing.T) {
	board := domain.NewBoard("b", nil)
	require.Equal(t, 1, board.AllocateCardNumber())
	require.Equal(t, 2, board.AllocateCardNumber())
	require.Equal(t, 3, board.NextCardNumber)
}

func TestAllocateSprintNumberPerPrefix(t *testing.T) {
	board := domain.NewBoard("b", nil)
	require.Equal(t, 1, board.AllocateSprintNumber("alpha"))
	require.Equal(t, 2, board.AllocateSprintNumber("alpha"))
	require.Equal(t, 1, board.AllocateSprintNumber("beta"))
	require.Equal(t, 3, board.AllocateSprintNumber("alpha"))
}

func TestTakeSprintName(t *testing.T) {
	board := domain.NewBoard("b", nil)
	require.Nil(t, board.TakeSprintName())

	board.SprintNames = []string{"Mercury", "Venus"}
	first := board.TakeSprintName()
	require.NotNil(t, first)
	require.Equal(t, 0, *first)

	second := board.TakeSprintName()
	require.NotNil(t, second)
	require.Equal(t, 1, *second)

	require.Nil(t, board.TakeSprintName())
}

func TestBoardApply(t *testing.T) {
	board := domain.NewBoard("original", nil)

	err := board.Apply(domain.BoardUpdate{
		Name:        domain.Set("renamed"),
		Description: domain.Set("about"),
		CardPrefix:  domain.Set("proj"),
		SortField:   domain.Set(domain.SortPriority),
		SortOrder:   domain.Set(domain.SortDescending),
	})
	require.NoError(t, err)
	require.Equal(t, "renamed", board.Name)
	require.NotNil(t, board.Description)
	require.Equal(t, "about", *board.Description)
	require.Equal(t, domain.SortPriority, board.SortField)
	require.Equal(t, domain.SortDescending, board.SortOrder)

	err = board.Apply(domain.BoardUpdate{Description: domain.Clear[string]()})
	require.NoError(t, err)
	require.Nil(t, board.Description)
}

func TestBoardApplyRejectsInvalid(t *testing.T) {
	board := domain.NewBoard("b", nil)

	require.ErrorIs(t, board.Apply(domain.BoardUpdate{Name: domain.Set("")}), domain.ErrValidation)
	require.ErrorIs(t, board.Apply(domain.BoardUpdate{Name: domain.Clear[string]()}), domain.ErrValidation)
	require.ErrorIs(t, board.Apply(domain.BoardUpdate{CardPrefix: domain.Set("bad prefix")}), domain.ErrValidation)
	require.ErrorIs(t, board.Apply(domain.BoardUpdate{SprintPrefix: domain.Set("-bad")}), domain.ErrValidation)
}

func TestBoardApplySprintNamesClampUsedCounter(t *testing.T) {
	board := domain.NewBoard("b", nil)
	board.SprintNames = []string{"a", "b", "c"}
	board.TakeSprintName()
	board.TakeSprintName()
	board.TakeSprintName()

	err := board.Apply(domain.BoardUpdate{SprintNames: domain.Set([]string{"only"})})
	require.NoError(t, err)
	require.Equal(t, 1, board.SprintNamesUsed)

	err = board.Apply(domain.BoardUpdate{SprintNames: domain.Clear[[]string]()})
	require.NoError(t, err)
	require.Empty(t, board.SprintNames)
	require.Zero(t, board.SprintNamesUsed)
}
