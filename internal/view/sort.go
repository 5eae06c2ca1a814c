package view

import (
	"sort"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
)

// Compare maps a SortField to a total comparator. Negative means a sorts
// before b ascending.
func Compare(field domain.SortField, a, b *domain.Card) int {
	switch field {
	case domain.SortPoints:
		return comparePoints(a.Points, b.Points)
	case domain.SortPriority:
		return a.Priority.Rank() - b.Priority.Rank()
	case domain.SortCreatedAt:
		return compareTimes(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	case domain.SortUpdatedAt:
		return compareTimes(a.UpdatedAt.UnixNano(), b.UpdatedAt.UnixNano())
	case domain.SortStatus:
		return a.Status.Rank() - b.Status.Rank()
	case domain.SortPosition:
		return a.Position - b.Position
	default:
		return a.CardNumber - b.CardNumber
	}
}

// Assigned points sort before none when ascending.
func comparePoints(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return *a - *b
	}
}

func compareTimes(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// OrderedSorter applies a SortField comparator in the given order.
type OrderedSorter struct {
	Field domain.SortField
	Order domain.SortOrder
}

// Sort orders cards in place, stably.
func (s OrderedSorter) Sort(cards []domain.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		c := Compare(s.Field, &cards[i], &cards[j])
		if s.Order == domain.SortDescending {
			return c > 0
		}
		return c < 0
	})
}
