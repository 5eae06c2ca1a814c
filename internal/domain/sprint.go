package domain

import (
	"time"

	"github.com/google/uuid"
)

// SprintStatus is the workflow state of a sprint.
type SprintStatus string

const (
	SprintPlanning  SprintStatus = "planning"
	SprintActive    SprintStatus = "active"
	SprintCompleted SprintStatus = "completed"
	SprintCancelled SprintStatus = "cancelled"
)

// Sprint is a time-boxed grouping of cards within a board.
type Sprint struct {
	ID           string       `json:"id"`
	BoardID      string       `json:"board_id"`
	SprintNumber int          `json:"sprint_number"`
	NameIndex    *int         `json:"name_index,omitempty"`
	Prefix       *string      `json:"prefix,omitempty"`
	CardPrefix   *string      `json:"card_prefix,omitempty"`
	Status       SprintStatus `json:"status"`
	StartDate    *time.Time   `json:"start_date,omitempty"`
	EndDate      *time.Time   `json:"end_date,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewSprint creates a sprint in Planning state. The sprint number must have
// been allocated from the owning board for the effective prefix.
func NewSprint(boardID string, number int, nameIndex *int, prefix, cardPrefix *string) *Sprint {
	now := time.Now().UTC()
	return &Sprint{
		ID:           uuid.NewString(),
		BoardID:      boardID,
		SprintNumber: number,
		NameIndex:    nameIndex,
		Prefix:       prefix,
		CardPrefix:   cardPrefix,
		Status:       SprintPlanning,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Name resolves the sprint's reserved name on the owning board, if any.
func (s *Sprint) Name(board *Board) *string {
	if s.NameIndex == nil || board == nil {
		return nil
	}
	if *s.NameIndex < 0 || *s.NameIndex >= len(board.SprintNames) {
		return nil
	}
	name := board.SprintNames[*s.NameIndex]
	return &name
}

// Touch bumps the last-mutation timestamp.
func (s *Sprint) Touch() { s.UpdatedAt = time.Now().UTC() }

// ValidateSprintTransition checks a sprint status transition. There are
// no reverse transitions.
func ValidateSprintTransition(from, to SprintStatus) error {
	valid := false
	switch from {
	case SprintPlanning:
		valid = to == SprintActive || to == SprintCancelled
	case SprintActive:
		valid = to == SprintCompleted || to == SprintCancelled
	}
	if !valid {
		return Validationf("invalid sprint transition %s -> %s", from, to)
	}
	return nil
}

// Activate moves the sprint from Planning to Active. When no explicit end
// date is set, durationDays past the start date is applied.
func (s *Sprint) Activate(start time.Time, durationDays int) error {
	if err := ValidateSprintTransition(s.Status, SprintActive); err != nil {
		return err
	}
	s.Status = SprintActive
	start = start.UTC()
	s.StartDate = &start
	if s.EndDate == nil && durationDays > 0 {
		end := start.AddDate(0, 0, durationDays)
		s.EndDate = &end
	}
	s.Touch()
	return nil
}

// Complete moves the sprint from Active to Completed.
func (s *Sprint) Complete() error {
	if err := ValidateSprintTransition(s.Status, SprintCompleted); err != nil {
		return err
	}
	s.Status = SprintCompleted
	now := time.Now().UTC()
	if s.EndDate == nil || s.EndDate.After(now) {
		s.EndDate = &now
	}
	s.Touch()
	return nil
}

// Cancel moves the sprint from Planning or Active to Cancelled.
func (s *Sprint) Cancel() error {
	if err := ValidateSprintTransition(s.Status, SprintCancelled); err != nil {
		return err
	}
	s.Status = SprintCancelled
	s.Touch()
	return nil
}
