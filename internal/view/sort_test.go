package view_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
	"github.com/fulsomenko/kanban-sub000/internal/view"
)

func intp(n int) *int { return &n }

func titles(cards []domain.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Title
	}
	return out
}

func TestSortByPriority(t *testing.T) {
	cards := []domain.Card{
		{Title: "high", Priority: domain.PriorityHigh},
		{Title: "low", Priority: domain.PriorityLow},
		{Title: "critical", Priority: domain.PriorityCritical},
		{Title: "medium", Priority: domain.PriorityMedium},
	}

	view.OrderedSorter{Field: domain.SortPriority, Order: domain.SortAscending}.Sort(cards)
	require.Equal(t, []string{"low", "medium", "high", "critical"}, titles(cards))

	view.OrderedSorter{Field: domain.SortPriority, Order: domain.SortDescending}.Sort(cards)
	require.Equal(t, []string{"critical", "high", "medium", "low"}, titles(cards))
}

func TestSortByPointsPlacesUnestimatedLast(t *testing.T) {
	cards := []domain.Card{
		{Title: "none"},
		{Title: "five", Points: intp(5)},
		{Title: "one", Points: intp(1)},
	}

	view.OrderedSorter{Field: domain.SortPoints, Order: domain.SortAscending}.Sort(cards)
	require.Equal(t, []string{"one", "five", "none"}, titles(cards))

	view.OrderedSorter{Field: domain.SortPoints, Order: domain.SortDescending}.Sort(cards)
	require.Equal(t, []string{"none", "five", "one"}, titles(cards))
}

func TestSortByStatus(t *testing.T) {
	cards := []domain.Card{
		{Title: "done", Status: domain.StatusDone},
		{Title: "doing", Status: domain.StatusInProgress},
		{Title: "todo", Status: domain.StatusTodo},
		{Title: "blocked", Status: domain.StatusBlocked},
	}

	view.OrderedSorter{Field: domain.SortStatus, Order: domain.SortAscending}.Sort(cards)
	require.Equal(t, []string{"todo", "blocked", "doing", "done"}, titles(cards))
}

func TestSortByTimestamps(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cards := []domain.Card{
		{Title: "newest", CreatedAt: base.Add(2 * time.Hour)},
		{Title: "oldest", CreatedAt: base},
		{Title: "middle", CreatedAt: base.Add(time.Hour)},
	}

	view.OrderedSorter{Field: domain.SortCreatedAt, Order: domain.SortAscending}.Sort(cards)
	require.Equal(t, []string{"oldest", "middle", "newest"}, titles(cards))
}

func TestDefaultSortUsesCardNumber(t *testing.T) {
	cards := []domain.Card{
		{Title: "three", CardNumber: 3},
		{Title: "one", CardNumber: 1},
		{Title: "two", CardNumber: 2},
	}

	view.OrderedSorter{Field: domain.SortDefault, Order: domain.SortAscending}.Sort(cards)
	require.Equal(t, []string{"one", "two", "three"}, titles(cards))
}

func TestSortIsStable(t *testing.T) {
	cards := []domain.Card{
		{Title: "first", Priority: domain.PriorityMedium, CardNumber: 1},
		{Title: "second", Priority: domain.PriorityMedium, CardNumber: 2},
		{Title: "third", Priority: domain.PriorityMedium, CardNumber: 3},
	}

	view.OrderedSorter{Field: domain.SortPriority, Order: domain.SortAscending}.Sort(cards)
	require.Equal(t, []string{"first", "second", "third"}, titles(cards))
}
