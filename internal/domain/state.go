package domain

import (
	"sort"

	"github.com/fulsomenko/kanban-sub000/internal/graph"
)

// State is the process-wide aggregate of all collections plus the card
// dependency graph. It is also the persisted DataSnapshot shape: five
// entity arrays plus the edge list under "edges". Missing keys decode as
// empty collections; unknown keys are ignored.
type State struct {
	Boards        []Board        `json:"boards"`
	Columns       []Column       `json:"columns"`
	Cards         []Card         `json:"cards"`
	ArchivedCards []ArchivedCard `json:"archived_cards"`
	Sprints       []Sprint       `json:"sprints"`
	Graph         graph.Graph    `json:"edges"`
}

// Board finds a board by id. The returned pointer aliases the slice
// element and is valid until the collection is modified.
func (s *State) Board(id string) (*Board, error) {
	for i := range s.Boards {
		if s.Boards[i].ID == id {
			return &s.Boards[i], nil
		}
	}
	return nil, NotFoundf("Board %s", id)
}

// Column finds a column by id.
func (s *State) Column(id string) (*Column, error) {
	for i := range s.Columns {
		if s.Columns[i].ID == id {
			return &s.Columns[i], nil
		}
	}
	return nil, NotFoundf("Column %s", id)
}

// Card finds a live card by id.
func (s *State) Card(id string) (*Card, error) {
	for i := range s.Cards {
		if s.Cards[i].ID == id {
			return &s.Cards[i], nil
		}
	}
	return nil, NotFoundf("Card %s", id)
}

// ArchivedCard finds an archived card by the embedded card's id.
func (s *State) ArchivedCard(id string) (*ArchivedCard, error) {
	for i := range s.ArchivedCards {
		if s.ArchivedCards[i].Card.ID == id {
			return &s.ArchivedCards[i], nil
		}
	}
	return nil, NotFoundf("ArchivedCard %s", id)
}

// Sprint finds a sprint by id.
func (s *State) Sprint(id string) (*Sprint, error) {
	for i := range s.Sprints {
		if s.Sprints[i].ID == id {
			return &s.Sprints[i], nil
		}
	}
	return nil, NotFoundf("Sprint %s", id)
}

// BoardForCard resolves the board owning the card's column.
func (s *State) BoardForCard(card *Card) (*Board, error) {
	col, err := s.Column(card.ColumnID)
	if err != nil {
		return nil, err
	}
	return s.Board(col.BoardID)
}

// SprintForCard resolves the card's sprint, or nil when unassigned.
func (s *State) SprintForCard(card *Card) *Sprint {
	if card.SprintID == nil {
		return nil
	}
	sprint, err := s.Sprint(*card.SprintID)
	if err != nil {
		return nil
	}
	return sprint
}

// ColumnsForBoard returns the board's columns sorted by position.
func (s *State) ColumnsForBoard(boardID string) []Column {
	var out []Column
	for _, c := range s.Columns {
		if c.BoardID == boardID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// CardsInColumn returns the column's live cards sorted by position.
func (s *State) CardsInColumn(columnID string) []Card {
	var out []Card
	for _, c := range s.Cards {
		if c.ColumnID == columnID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// CardsForBoard returns every live card on the board, column order first.
func (s *State) CardsForBoard(boardID string) []Card {
	var out []Card
	for _, col := range s.ColumnsForBoard(boardID) {
		out = append(out, s.CardsInColumn(col.ID)...)
	}
	return out
}

// CardsForSprint returns the sprint's member cards in card-number order.
func (s *State) CardsForSprint(sprintID string) []Card {
	var out []Card
	for _, c := range s.Cards {
		if c.SprintID != nil && *c.SprintID == sprintID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CardNumber < out[j].CardNumber })
	return out
}

// PartitionByCompletion splits cards into those with status Done and the
// rest, preserving input order within each partition.
func PartitionByCompletion(cards []Card) (completed, uncompleted []Card) {
	for _, c := range cards {
		if c.IsCompleted() {
			completed = append(completed, c)
		} else {
			uncompleted = append(uncompleted, c)
		}
	}
	return completed, uncompleted
}

// SprintsForBoard returns the board's sprints in creation order.
func (s *State) SprintsForBoard(boardID string) []Sprint {
	var out []Sprint
	for _, sp := range s.Sprints {
		if sp.BoardID == boardID {
			out = append(out, sp)
		}
	}
	return out
}

// Clone returns a deep copy of the aggregate; undo history and the
// persistence writer both read from clones, never the live state.
func (s *State) Clone() State {
	out := State{Graph: s.Graph.Clone()}
	if s.Boards != nil {
		out.Boards = make([]Board, len(s.Boards))
		for i, b := range s.Boards {
			out.Boards[i] = cloneBoard(b)
		}
	}
	if s.Columns != nil {
		out.Columns = make([]Column, len(s.Columns))
		for i, c := range s.Columns {
			out.Columns[i] = cloneColumn(c)
		}
	}
	if s.Cards != nil {
		out.Cards = make([]Card, len(s.Cards))
		for i, c := range s.Cards {
			out.Cards[i] = cloneCard(c)
		}
	}
	if s.ArchivedCards != nil {
		out.ArchivedCards = make([]ArchivedCard, len(s.ArchivedCards))
		for i, a := range s.ArchivedCards {
			a.Card = cloneCard(a.Card)
			out.ArchivedCards[i] = a
		}
	}
	if s.Sprints != nil {
		out.Sprints = make([]Sprint, len(s.Sprints))
		for i, sp := range s.Sprints {
			out.Sprints[i] = cloneSprint(sp)
		}
	}
	return out
}

func cloneBoard(b Board) Board {
	b.Description = clonePtr(b.Description)
	b.CardPrefix = clonePtr(b.CardPrefix)
	b.SprintPrefix = clonePtr(b.SprintPrefix)
	b.ActiveSprintID = clonePtr(b.ActiveSprintID)
	b.CompletionColumnID = clonePtr(b.CompletionColumnID)
	if b.SprintCounters != nil {
		counters := make(map[string]int, len(b.SprintCounters))
		for k, v := range b.SprintCounters {
			counters[k] = v
		}
		b.SprintCounters = counters
	}
	if b.SprintNames != nil {
		b.SprintNames = append([]string(nil), b.SprintNames...)
	}
	return b
}

func cloneColumn(c Column) Column {
	c.WIPLimit = clonePtr(c.WIPLimit)
	return c
}

func cloneCard(c Card) Card {
	c.Description = clonePtr(c.Description)
	c.DueDate = clonePtr(c.DueDate)
	c.Points = clonePtr(c.Points)
	c.SprintID = clonePtr(c.SprintID)
	c.CardPrefix = clonePtr(c.CardPrefix)
	c.CompletedAt = clonePtr(c.CompletedAt)
	if c.SprintLogs != nil {
		logs := make([]SprintLog, len(c.SprintLogs))
		for i, l := range c.SprintLogs {
			l.LeftAt = clonePtr(l.LeftAt)
			logs[i] = l
		}
		c.SprintLogs = logs
	}
	return c
}

func cloneSprint(sp Sprint) Sprint {
	sp.NameIndex = clonePtr(sp.NameIndex)
	sp.Prefix = clonePtr(sp.Prefix)
	sp.CardPrefix = clonePtr(sp.CardPrefix)
	sp.StartDate = clonePtr(sp.StartDate)
	sp.EndDate = clonePtr(sp.EndDate)
	return sp
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
