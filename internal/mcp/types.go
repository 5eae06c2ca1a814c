package mcp

import (
	"time"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
)

// BoardResponse is the wire view of a board.
type BoardResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        *string   `json:"description,omitempty"`
	CardPrefix         *string   `json:"card_prefix,omitempty"`
	SprintPrefix       *string   `json:"sprint_prefix,omitempty"`
	ActiveSprintID     *string   `json:"active_sprint_id,omitempty"`
	CompletionColumnID *string   `json:"completion_column_id,omitempty"`
	ColumnCount        int       `json:"column_count"`
	CardCount          int       `json:"card_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// BoardDetailResponse includes the board's columns and their cards.
type BoardDetailResponse struct {
	Board   BoardResponse     `json:"board"`
	Columns []ColumnWithCards `json:"columns"`
	Sprints []SprintResponse  `json:"sprints,omitempty"`
}

type ColumnWithCards struct {
	Column ColumnResponse `json:"column"`
	Cards  []CardResponse `json:"cards"`
}

// ColumnResponse is the wire view of a column.
type ColumnResponse struct {
	ID       string `json:"id"`
	BoardID  string `json:"board_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	WIPLimit *int   `json:"wip_limit,omitempty"`
}

// CardResponse is the wire view of a card.
type CardResponse struct {
	ID          string     `json:"id"`
	ColumnID    string     `json:"column_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Position    int        `json:"position"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Points      *int       `json:"points,omitempty"`
	Identifier  string     `json:"identifier"`
	SprintID    *string    `json:"sprint_id,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SprintResponse is the wire view of a sprint.
type SprintResponse struct {
	ID           string     `json:"id"`
	BoardID      string     `json:"board_id"`
	SprintNumber int        `json:"sprint_number"`
	Name         *string    `json:"name,omitempty"`
	Status       string     `json:"status"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

// SprintDetailResponse pairs a sprint with its member cards, split by
// completion.
type SprintDetailResponse struct {
	Sprint           SprintResponse `json:"sprint"`
	CompletedCards   []CardResponse `json:"completed_cards,omitempty"`
	UncompletedCards []CardResponse `json:"uncompleted_cards,omitempty"`
}

// CardLinksResponse describes a card's dependency neighbourhood.
type CardLinksResponse struct {
	CardID    string   `json:"card_id"`
	Blockers  []string `json:"blockers"`
	BlockedBy []string `json:"blocked_by"`
	Related   []string `json:"related"`
	Parent    *string  `json:"parent,omitempty"`
	Children  []string `json:"children"`
	CanStart  bool     `json:"can_start"`
}

// BranchNameResponse carries the git branch derived from a card.
type BranchNameResponse struct {
	CardID   string `json:"card_id"`
	Branch   string `json:"branch"`
	Checkout string `json:"checkout"`
}

// StatusResponse is the generic acknowledgment payload.
type StatusResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
}

// ListResponse wraps a homogeneous item list.
type ListResponse[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
}

func boardResponse(st *domain.State, b *domain.Board) BoardResponse {
	return BoardResponse{
		ID:                 b.ID,
		Name:               b.Name,
		Description:        b.Description,
		CardPrefix:         b.CardPrefix,
		SprintPrefix:       b.SprintPrefix,
		ActiveSprintID:     b.ActiveSprintID,
		CompletionColumnID: b.CompletionColumnID,
		ColumnCount:        len(st.ColumnsForBoard(b.ID)),
		CardCount:          len(st.CardsForBoard(b.ID)),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func columnResponse(c *domain.Column) ColumnResponse {
	return ColumnResponse{
		ID:       c.ID,
		BoardID:  c.BoardID,
		Name:     c.Name,
		Position: c.Position,
		WIPLimit: c.WIPLimit,
	}
}

func cardResponse(st *domain.State, c *domain.Card) CardResponse {
	identifier := ""
	if board, err := st.BoardForCard(c); err == nil {
		prefix := domain.ResolveCardPrefix(c, st.SprintForCard(c), board, domain.DefaultCardPrefix)
		identifier = domain.CardIdentifier(prefix, c.CardNumber)
	}
	return CardResponse{
		ID:          c.ID,
		ColumnID:    c.ColumnID,
		Title:       c.Title,
		Description: c.Description,
		Priority:    string(c.Priority),
		Status:      string(c.Status),
		Position:    c.Position,
		DueDate:     c.DueDate,
		Points:      c.Points,
		Identifier:  identifier,
		SprintID:    c.SprintID,
		CompletedAt: c.CompletedAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func sprintResponse(board *domain.Board, sp *domain.Sprint) SprintResponse {
	return SprintResponse{
		ID:           sp.ID,
		BoardID:      sp.BoardID,
		SprintNumber: sp.SprintNumber,
		Name:         sp.Name(board),
		Status:       string(sp.Status),
		StartDate:    sp.StartDate,
		EndDate:      sp.EndDate,
	}
}
