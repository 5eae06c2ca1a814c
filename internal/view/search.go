package view

import (
	"fmt"
	"strings"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
)

// Searcher matches a card against a query. An empty query matches all.
type Searcher interface {
	Matches(card *domain.Card, query string) bool
}

// TitleSearcher matches a case-insensitive title substring.
type TitleSearcher struct{}

func (TitleSearcher) Matches(card *domain.Card, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(card.Title), strings.ToLower(query))
}

// BranchNameSearcher matches against the card's generated branch name.
type BranchNameSearcher struct {
	Board   *domain.Board
	Sprints []domain.Sprint
}

func (s *BranchNameSearcher) Matches(card *domain.Card, query string) bool {
	if query == "" {
		return true
	}
	branch := domain.BranchName(card, s.sprintFor(card), s.Board, "")
	return strings.Contains(strings.ToLower(branch), strings.ToLower(query))
}

func (s *BranchNameSearcher) sprintFor(card *domain.Card) *domain.Sprint {
	if card.SprintID == nil {
		return nil
	}
	for i := range s.Sprints {
		if s.Sprints[i].ID == *card.SprintID {
			return &s.Sprints[i]
		}
	}
	return nil
}

// CardIdentifierSearcher matches against the "{prefix}-{number}" label.
type CardIdentifierSearcher struct {
	Board   *domain.Board
	Sprints []domain.Sprint
}

func (s *CardIdentifierSearcher) Matches(card *domain.Card, query string) bool {
	if query == "" {
		return true
	}
	var sprint *domain.Sprint
	if card.SprintID != nil {
		for i := range s.Sprints {
			if s.Sprints[i].ID == *card.SprintID {
				sprint = &s.Sprints[i]
				break
			}
		}
	}
	prefix := domain.ResolveCardPrefix(card, sprint, s.Board, "")
	label := fmt.Sprintf("%s-%d", prefix, card.CardNumber)
	return strings.Contains(strings.ToLower(label), strings.ToLower(query))
}

// CompositeSearcher is the logical OR of its parts over card fields.
type CompositeSearcher struct {
	Searchers []Searcher
}

// NewCardSearcher combines the standard card searchers: title, branch
// name, and card identifier.
func NewCardSearcher(board *domain.Board, sprints []domain.Sprint) *CompositeSearcher {
	return &CompositeSearcher{Searchers: []Searcher{
		TitleSearcher{},
		&BranchNameSearcher{Board: board, Sprints: sprints},
		&CardIdentifierSearcher{Board: board, Sprints: sprints},
	}}
}

func (s *CompositeSearcher) Matches(card *domain.Card, query string) bool {
	if query == "" {
		return true
	}
	for _, part := range s.Searchers {
		if part.Matches(card, query) {
			return true
		}
	}
	return false
}
