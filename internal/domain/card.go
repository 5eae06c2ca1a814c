package domain

import (
	"time"

	"github.com/google/uuid"
)

// Priority of a card.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Rank orders priorities for sorting: Low=0 .. Critical=3.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityCritical:
		return 3
	}
	return 0
}

// ParsePriority parses a priority string.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return Priority(s), nil
	}
	return "", Validationf("invalid priority %q", s)
}

// Status of a card. A card is completed iff its status is Done.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
)

// Rank orders statuses for sorting: Todo=0, Blocked=1, InProgress=2, Done=3.
func (s Status) Rank() int {
	switch s {
	case StatusTodo:
		return 0
	case StatusBlocked:
		return 1
	case StatusInProgress:
		return 2
	case StatusDone:
		return 3
	}
	return 0
}

// ParseStatus parses a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusTodo, StatusInProgress, StatusBlocked, StatusDone:
		return Status(s), nil
	}
	return "", Validationf("invalid status %q", s)
}

// SprintLog records one interval of a card's membership in a sprint.
type SprintLog struct {
	SprintID string     `json:"sprint_id"`
	JoinedAt time.Time  `json:"joined_at"`
	LeftAt   *time.Time `json:"left_at,omitempty"`
}

// Card is a unit of work living in exactly one column.
type Card struct {
	ID          string      `json:"id"`
	ColumnID    string      `json:"column_id"`
	Title       string      `json:"title"`
	Description *string     `json:"description,omitempty"`
	Priority    Priority    `json:"priority"`
	Status      Status      `json:"status"`
	Position    int         `json:"position"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
	Points      *int        `json:"points,omitempty"`
	CardNumber  int         `json:"card_number"`
	SprintID    *string     `json:"sprint_id,omitempty"`
	CardPrefix  *string     `json:"card_prefix,omitempty"`
	SprintLogs  []SprintLog `json:"sprint_logs,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewCard creates a card in the given column. The card number must have
// been allocated from the owning board.
func NewCard(columnID, title string, cardNumber, position int) *Card {
	now := time.Now().UTC()
	return &Card{
		ID:         uuid.NewString(),
		ColumnID:   columnID,
		Title:      title,
		Priority:   PriorityMedium,
		Status:     StatusTodo,
		Position:   position,
		CardNumber: cardNumber,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Touch bumps the last-mutation timestamp.
func (c *Card) Touch() { c.UpdatedAt = time.Now().UTC() }

// IsCompleted reports whether the card counts as done.
func (c *Card) IsCompleted() bool { return c.Status == StatusDone }

// SetStatus transitions the card status, maintaining CompletedAt.
func (c *Card) SetStatus(s Status) {
	if s == StatusDone && c.Status != StatusDone {
		now := time.Now().UTC()
		c.CompletedAt = &now
	} else if s != StatusDone {
		c.CompletedAt = nil
	}
	c.Status = s
	c.Touch()
}

// JoinSprint closes the current sprint log, if open, and opens a new one.
func (c *Card) JoinSprint(sprintID string) {
	now := time.Now().UTC()
	c.closeSprintLog(now)
	c.SprintID = &sprintID
	c.SprintLogs = append(c.SprintLogs, SprintLog{SprintID: sprintID, JoinedAt: now})
	c.Touch()
}

// LeaveSprint closes the current sprint log and clears the assignment.
func (c *Card) LeaveSprint() {
	c.closeSprintLog(time.Now().UTC())
	c.SprintID = nil
	c.Touch()
}

func (c *Card) closeSprintLog(at time.Time) {
	for i := len(c.SprintLogs) - 1; i >= 0; i-- {
		if c.SprintLogs[i].LeftAt == nil {
			end := at
			c.SprintLogs[i].LeftAt = &end
			break
		}
	}
}

// CardUpdate carries partial updates for UpdateCard.
type CardUpdate struct {
	Title       FieldUpdate[string]
	Description FieldUpdate[string]
	Priority    FieldUpdate[Priority]
	Status      FieldUpdate[Status]
	Position    FieldUpdate[int]
	DueDate     FieldUpdate[time.Time]
	Points      FieldUpdate[int]
	CardPrefix  FieldUpdate[string]
}

// Apply validates and applies the update.
func (c *Card) Apply(u CardUpdate) error {
	if err := ApplyRequired(u.Title, &c.Title, "title"); err != nil {
		return err
	}
	if title, ok := u.Title.Value(); ok && title == "" {
		return Validationf("card title cannot be empty")
	}
	if err := ApplyRequired(u.Priority, &c.Priority, "priority"); err != nil {
		return err
	}
	if prefix, ok := u.CardPrefix.Value(); ok {
		if err := ValidatePrefix(prefix); err != nil {
			return err
		}
	}
	if points, ok := u.Points.Value(); ok && points < 0 {
		return Validationf("points cannot be negative")
	}
	if status, ok := u.Status.Value(); ok {
		c.SetStatus(status)
	} else if u.Status.IsClear() {
		return Validationf("cannot clear required field status")
	}
	if err := ApplyRequired(u.Position, &c.Position, "position"); err != nil {
		return err
	}
	ApplyOptional(u.Description, &c.Description)
	ApplyOptional(u.DueDate, &c.DueDate)
	ApplyOptional(u.Points, &c.Points)
	ApplyOptional(u.CardPrefix, &c.CardPrefix)
	c.Touch()
	return nil
}
