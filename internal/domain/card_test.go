package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
)

func TestNewCardDefaults(t *testing.T) {
	card := domain.NewCard("col", "write tests", 4, 2)
	require.Equal(t, domain.PriorityMedium, card.Priority)
	require.Equal(t, domain.StatusTodo, card.Status)
	require.Equal(t, 4, card.CardNumber)
	require.Equal(t, 2, card.Position)
	require.False(t, card.IsCompleted())
}

func TestSetStatusMaintainsCompletedAt(t *testing.T) {
	card := domain.NewCard("col", "c", 1, 0)

	card.SetStatus(domain.StatusDone)
	require.True(t, card.IsCompleted())
	require.NotNil(t, card.CompletedAt)

	stamp := *card.CompletedAt
	card.SetStatus(domain.StatusDone)
	require.True(t, card.CompletedAt.Equal(stamp))

	card.SetStatus(domain.StatusInProgress)
	require.False(t, card.IsCompleted())
	require.Nil(t, card.CompletedAt)
}

func TestJoinAndLeaveSprintKeepsLogs(t *testing.T) {
	card := domain.NewCard("col", "c", 1, 0)

	card.JoinSprint("s1")
	require.NotNil(t, card.SprintID)
	require.Equal(t, "s1", *card.SprintID)
	require.Len(t, card.SprintLogs, 1)
	require.Nil(t, card.SprintLogs[0].LeftAt)

	// Joining another sprint closes the open interval first.
	card.JoinSprint("s2")
	require.Len(t, card.SprintLogs, 2)
	require.NotNil(t, card.SprintLogs[0].LeftAt)
	require.Nil(t, card.SprintLogs[1].LeftAt)

	card.LeaveSprint()
	require.Nil(t, card.SprintID)
	require.NotNil(t, card.SprintLogs[1].LeftAt)
}

func TestParsePriority(t *testing.T) {
	p, err := domain.ParsePriority("critical")
	require.NoError(t, err)
	require.Equal(t, domain.PriorityCritical, p)

	_, err = domain.ParsePriority("urgent")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseStatus(t *testing.T) {
	s, err := domain.ParseStatus("in_progress")
	require.NoError(t, err)
	require.Equal(t, domain.StatusInProgress, s)

	_, err = domain.ParseStatus("paused")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestPriorityAndStatusRanks(t *testing.T) {
	require.Less(t, domain.PriorityLow.Rank(), domain.PriorityMedium.Rank())
	require.Less(t, domain.PriorityMedium.Rank(), domain.PriorityHigh.Rank())
	require.Less(t, domain.PriorityHigh.Rank(), domain.PriorityCritical.Rank())

	require.Less(t, domain.StatusTodo.Rank(), domain.StatusBlocked.Rank())
	require.Less(t, domain.StatusBlocked.Rank(), domain.StatusInProgress.Rank())
	require.Less(t, domain.StatusInProgress.Rank(), domain.StatusDone.Rank())
}

func TestCardApply(t *testing.T) {
	card := domain.NewCard("col", "original", 1, 0)

	err := card.Apply(domain.CardUpdate{
		Title:    domain.Set("renamed"),
		Priority: domain.Set(domain.PriorityHigh),
		Status:   domain.Set(domain.StatusDone),
		Points:   domain.Set(5),
	})
	require.NoError(t, err)
	require.Equal(t, "renamed", card.Title)
	require.Equal(t, domain.PriorityHigh, card.Priority)
	require.True(t, card.IsCompleted())
	require.NotNil(t, card.CompletedAt)
	require.NotNil(t, card.Points)
	require.Equal(t, 5, *card.Points)

	err = card.Apply(domain.CardUpdate{Points: domain.Clear[int]()})
	require.NoError(t, err)
	require.Nil(t, card.Points)
}

func TestCardApplyRejectsInvalid(t *testing.T) {
	card := domain.NewCard("col", "c", 1, 0)

	require.ErrorIs(t, card.Apply(domain.CardUpdate{Title: domain.Set("")}), domain.ErrValidation)
	require.ErrorIs(t, card.Apply(domain.CardUpdate{Points: domain.Set(-1)}), domain.ErrValidation)
	require.ErrorIs(t, card.Apply(domain.CardUpdate{Status: domain.Clear[domain.Status]()}), domain.ErrValidation)
	require.ErrorIs(t, card.Apply(domain.CardUpdate{CardPrefix: domain.Set("bad prefix")}), domain.ErrValidation)
}
