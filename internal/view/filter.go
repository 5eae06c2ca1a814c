// Package view computes the derived card views both user interfaces
// consume: composable filters and searchers, total-order sorters, layout
// strategies mapping a board's cards into virtual lists, and pagination.
package view

import "github.com/fulsomenko/kanban-sub000/internal/domain"

// Filter decides whether a card belongs to a view.
type Filter interface {
	Matches(card *domain.Card) bool
}

// BoardFilter keeps cards whose column belongs to the board.
type BoardFilter struct {
	columnIDs map[string]bool
}

// NewBoardFilter builds the board's column membership set.
func NewBoardFilter(boardID string, columns []domain.Column) *BoardFilter {
	ids := make(map[string]bool)
	for _, c := range columns {
		if c.BoardID == boardID {
			ids[c.ID] = true
		}
	}
	return &BoardFilter{columnIDs: ids}
}

func (f *BoardFilter) Matches(card *domain.Card) bool {
	return f.columnIDs[card.ColumnID]
}

// ColumnFilter keeps cards in one column.
type ColumnFilter struct {
	ColumnID string
}

func (f *ColumnFilter) Matches(card *domain.Card) bool {
	return card.ColumnID == f.ColumnID
}

// SprintFilter keeps cards assigned to any of the given sprints.
type SprintFilter struct {
	sprintIDs map[string]bool
}

func NewSprintFilter(sprintIDs []string) *SprintFilter {
	ids := make(map[string]bool, len(sprintIDs))
	for _, id := range sprintIDs {
		ids[id] = true
	}
	return &SprintFilter{sprintIDs: ids}
}

func (f *SprintFilter) Matches(card *domain.Card) bool {
	return card.SprintID != nil && f.sprintIDs[*card.SprintID]
}

// UnassignedOnlyFilter keeps cards outside any sprint.
type UnassignedOnlyFilter struct{}

func (UnassignedOnlyFilter) Matches(card *domain.Card) bool {
	return card.SprintID == nil
}

// CompositeFilter is the logical AND of its parts; empty matches all.
type CompositeFilter struct {
	Filters []Filter
}

func (f *CompositeFilter) Matches(card *domain.Card) bool {
	for _, part := range f.Filters {
		if !part.Matches(card) {
			return false
		}
	}
	return true
}

// Apply returns the cards passing the filter, preserving order.
func Apply(filter Filter, cards []domain.Card) []domain.Card {
	var out []domain.Card
	for i := range cards {
		if filter.Matches(&cards[i]) {
			out = append(out, cards[i])
		}
	}
	return out
}
