package domain

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultCardPrefix is used when no prefix is configured anywhere.
const DefaultCardPrefix = "task"

// maxBranchNameBytes caps generated branch names; truncation never splits
// a character.
const maxBranchNameBytes = 250

// ValidatePrefix checks a card or sprint prefix: non-empty, alphanumeric
// plus '-' and '_', no leading or trailing '-'.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return Validationf("prefix cannot be empty")
	}
	for _, r := range prefix {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return Validationf("prefix %q contains invalid character %q", prefix, r)
		}
	}
	if strings.HasPrefix(prefix, "-") || strings.HasSuffix(prefix, "-") {
		return Validationf("prefix %q cannot start or end with '-'", prefix)
	}
	return nil
}

// Kebab lowercases s and collapses every non-alphanumeric run into a
// single '-', trimming leading and trailing dashes.
func Kebab(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		} else {
			pendingDash = true
		}
	}
	return b.String()
}

// ResolveCardPrefix picks the first non-empty of: the card's override, its
// sprint's card-prefix override, the board's card prefix, the supplied
// default.
func ResolveCardPrefix(card *Card, sprint *Sprint, board *Board, fallback string) string {
	if card != nil && card.CardPrefix != nil && *card.CardPrefix != "" {
		return *card.CardPrefix
	}
	if sprint != nil && sprint.CardPrefix != nil && *sprint.CardPrefix != "" {
		return *sprint.CardPrefix
	}
	if board != nil && board.CardPrefix != nil && *board.CardPrefix != "" {
		return *board.CardPrefix
	}
	if fallback == "" {
		return DefaultCardPrefix
	}
	return fallback
}

// CardIdentifier formats the human-facing card handle, e.g. "task-42".
func CardIdentifier(prefix string, number int) string {
	return fmt.Sprintf("%s-%d", prefix, number)
}

// BranchName derives the git branch name for a card:
// "{prefix}-{card_number}/{kebab(title)}", truncated to 250 bytes.
func BranchName(card *Card, sprint *Sprint, board *Board, fallback string) string {
	prefix := ResolveCardPrefix(card, sprint, board, fallback)
	name := fmt.Sprintf("%s-%d/%s", prefix, card.CardNumber, Kebab(card.Title))
	return truncateBytes(name, maxBranchNameBytes)
}

// CheckoutCommand derives the git command that creates the card's branch.
func CheckoutCommand(card *Card, sprint *Sprint, board *Board, fallback string) string {
	return "git checkout -b " + BranchName(card, sprint, board, fallback)
}

// SprintPrefix resolves the numbering prefix for a sprint: the sprint's
// own override, then the board's sprint prefix, then the board's card
// prefix, then the default.
func SprintPrefix(sprint *Sprint, board *Board) string {
	if sprint != nil && sprint.Prefix != nil && *sprint.Prefix != "" {
		return *sprint.Prefix
	}
	return BoardSprintPrefix(board)
}

// BoardSprintPrefix resolves the board-level sprint numbering prefix.
func BoardSprintPrefix(board *Board) string {
	if board != nil && board.SprintPrefix != nil && *board.SprintPrefix != "" {
		return *board.SprintPrefix
	}
	if board != nil && board.CardPrefix != nil && *board.CardPrefix != "" {
		return *board.CardPrefix
	}
	return DefaultCardPrefix
}

func truncateBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
