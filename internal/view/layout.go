package view

import "github.com/fulsomenko/kanban-sub000/internal/domain"

// RefreshContext is the read-only input every layout consumes.
type RefreshContext struct {
	Board               *domain.Board
	Cards               []domain.Card
	Columns             []domain.Column
	Sprints             []domain.Sprint
	ActiveSprintFilters []string
	HideAssigned        bool
	SearchQuery         string
}

// filtered returns the context's cards passing the board, sprint, and
// search criteria, unsorted.
func (rc *RefreshContext) filtered(extra ...Filter) []domain.Card {
	composite := &CompositeFilter{Filters: []Filter{NewBoardFilter(rc.Board.ID, rc.Columns)}}
	if len(rc.ActiveSprintFilters) > 0 {
		composite.Filters = append(composite.Filters, NewSprintFilter(rc.ActiveSprintFilters))
	}
	if rc.HideAssigned {
		composite.Filters = append(composite.Filters, UnassignedOnlyFilter{})
	}
	composite.Filters = append(composite.Filters, extra...)

	searcher := NewCardSearcher(rc.Board, rc.Sprints)
	var out []domain.Card
	for i := range rc.Cards {
		card := &rc.Cards[i]
		if composite.Matches(card) && searcher.Matches(card, rc.SearchQuery) {
			out = append(out, *card)
		}
	}
	return out
}

// ApplyRefresh returns the filtered, sorted cards themselves rather
// than ids, for hosts that render full card data.
func ApplyRefresh(rc *RefreshContext, extra ...Filter) []domain.Card {
	cards := rc.filtered(extra...)
	rc.sorter().Sort(cards)
	return cards
}

func (rc *RefreshContext) sorter() OrderedSorter {
	return OrderedSorter{Field: rc.Board.SortField, Order: rc.Board.SortOrder}
}

func cardIDs(cards []domain.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

// SingleListLayout presents the whole board as one virtual list.
type SingleListLayout struct{}

// Refresh returns the filtered, sorted card ids.
func (SingleListLayout) Refresh(rc *RefreshContext) []string {
	cards := rc.filtered()
	rc.sorter().Sort(cards)
	return cardIDs(cards)
}

// ColumnListsLayout presents one virtual list per board column, in
// position order, with an active list the host navigates between. Each
// list keeps its own selection across refreshes and column switches.
type ColumnListsLayout struct {
	ActiveColumnIndex int
	selections        map[string]int
}

// ColumnList is one column's virtual list.
type ColumnList struct {
	ColumnID   string
	ColumnName string
	CardIDs    []string
	Selected   int
}

// Refresh recomputes every column list, clamping stored selections.
func (l *ColumnListsLayout) Refresh(rc *RefreshContext) []ColumnList {
	if l.selections == nil {
		l.selections = make(map[string]int)
	}
	columns := domain.SortedBoardColumns(rc.Board, rc.Columns)
	lists := make([]ColumnList, 0, len(columns))
	for _, col := range columns {
		cards := rc.filtered(&ColumnFilter{ColumnID: col.ID})
		rc.sorter().Sort(cards)
		selected := l.selections[col.ID]
		if selected >= len(cards) {
			selected = len(cards) - 1
		}
		if selected < 0 {
			selected = 0
		}
		l.selections[col.ID] = selected
		lists = append(lists, ColumnList{
			ColumnID:   col.ID,
			ColumnName: col.Name,
			CardIDs:    cardIDs(cards),
			Selected:   selected,
		})
	}
	if l.ActiveColumnIndex >= len(lists) {
		l.ActiveColumnIndex = len(lists) - 1
	}
	if l.ActiveColumnIndex < 0 {
		l.ActiveColumnIndex = 0
	}
	return lists
}

// NavigateLeft activates the previous column, clamping at the first.
func (l *ColumnListsLayout) NavigateLeft() {
	if l.ActiveColumnIndex > 0 {
		l.ActiveColumnIndex--
	}
}

// NavigateRight activates the next column, clamping at the given count.
func (l *ColumnListsLayout) NavigateRight(columnCount int) {
	if l.ActiveColumnIndex < columnCount-1 {
		l.ActiveColumnIndex++
	}
}

// Select stores the selection for a column's list.
func (l *ColumnListsLayout) Select(columnID string, index int) {
	if l.selections == nil {
		l.selections = make(map[string]int)
	}
	l.selections[columnID] = index
}

// ColumnBoundary marks one column's span inside a unified list.
type ColumnBoundary struct {
	ColumnID   string
	ColumnName string
	StartIndex int
	CardCount  int
}

// VirtualUnifiedLayout presents all columns concatenated into one list
// with boundary records for rendering headers.
type VirtualUnifiedLayout struct{}

// Refresh returns the concatenated card ids and the column boundaries.
func (VirtualUnifiedLayout) Refresh(rc *RefreshContext) ([]string, []ColumnBoundary) {
	columns := domain.SortedBoardColumns(rc.Board, rc.Columns)
	var ids []string
	boundaries := make([]ColumnBoundary, 0, len(columns))
	for _, col := range columns {
		cards := rc.filtered(&ColumnFilter{ColumnID: col.ID})
		rc.sorter().Sort(cards)
		boundaries = append(boundaries, ColumnBoundary{
			ColumnID:   col.ID,
			ColumnName: col.Name,
			StartIndex: len(ids),
			CardCount:  len(cards),
		})
		ids = append(ids, cardIDs(cards)...)
	}
	return ids, boundaries
}
