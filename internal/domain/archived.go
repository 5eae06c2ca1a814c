package domain

import "time"

// ArchivedCard wraps a card removed from the active board. The embedded
// card keeps its identity so restoration preserves it.
type ArchivedCard struct {
	Card             Card      `json:"card"`
	OriginalColumnID string    `json:"original_column_id"`
	OriginalPosition int       `json:"original_position"`
	ArchivedAt       time.Time `json:"archived_at"`
}

// NewArchivedCard records the card's home column and position at archive time.
func NewArchivedCard(card Card) ArchivedCard {
	return ArchivedCard{
		Card:             card,
		OriginalColumnID: card.ColumnID,
		OriginalPosition: card.Position,
		ArchivedAt:       time.Now().UTC(),
	}
}
