package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
)

func intp(n int) *int { return &n }

func TestSprintActivateAppliesDuration(t *testing.T) {
	sp := domain.NewSprint("board", 1, nil, nil, nil)
	require.Equal(t, domain.SprintPlanning, sp.Status)

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, sp.Activate(start, 14))
	require.Equal(t, domain.SprintActive, sp.Status)
	require.NotNil(t, sp.StartDate)
	require.True(t, sp.StartDate.Equal(start))
	require.NotNil(t, sp.EndDate)
	require.True(t, sp.EndDate.Equal(start.AddDate(0, 0, 14)))
}

func TestSprintActivateKeepsExplicitEndDate(t *testing.T) {
	sp := domain.NewSprint("board", 1, nil, nil, nil)
	end := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	sp.EndDate = &end

	require.NoError(t, sp.Activate(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), 14))
	require.True(t, sp.EndDate.Equal(end))
}

func TestSprintCompleteClampsFutureEndDate(t *testing.T) {
	sp := domain.NewSprint("board", 1, nil, nil, nil)
	require.NoError(t, sp.Activate(time.Now().UTC(), 14))

	require.NoError(t, sp.Complete())
	require.Equal(t, domain.SprintCompleted, sp.Status)
	require.NotNil(t, sp.EndDate)
	require.False(t, sp.EndDate.After(time.Now().UTC()))
}

func TestSprintTransitionRules(t *testing.T) {
	// Completing a planning sprint skips Active.
	sp := domain.NewSprint("board", 1, nil, nil, nil)
	require.ErrorIs(t, sp.Complete(), domain.ErrValidation)

	// Cancel works from both Planning and Active, but is terminal.
	require.NoError(t, sp.Cancel())
	require.ErrorIs(t, sp.Activate(time.Now(), 14), domain.ErrValidation)

	active := domain.NewSprint("board", 2, nil, nil, nil)
	require.NoError(t, active.Activate(time.Now(), 14))
	require.ErrorIs(t, active.Activate(time.Now(), 14), domain.ErrValidation)
	require.NoError(t, active.Cancel())

	done := domain.NewSprint("board", 3, nil, nil, nil)
	require.NoError(t, done.Activate(time.Now(), 14))
	require.NoError(t, done.Complete())
	require.ErrorIs(t, done.Cancel(), domain.ErrValidation)
}

func TestSprintNameResolution(t *testing.T) {
	board := domain.NewBoard("b", nil)
	board.SprintNames = []string{"Mercury", "Venus"}

	sp := domain.NewSprint(board.ID, 1, intp(1), nil, nil)
	name := sp.Name(board)
	require.NotNil(t, name)
	require.Equal(t, "Venus", *name)

	sp.NameIndex = intp(5)
	require.Nil(t, sp.Name(board))

	sp.NameIndex = nil
	require.Nil(t, sp.Name(board))
}
