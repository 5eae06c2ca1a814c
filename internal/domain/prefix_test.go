package domain_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/fulsomenko/kanban-sub000/internal/domain"
)

func strp(s string) *string { return &s }

func TestKebab(t *testing.T) {
	cases := map[string]string{
		"Hello World":        "hello-world",
		"  Fix #123!!  ":     "fix-123",
		"already-kebab":      "already-kebab",
		"Mixed_Case Title":   "mixed-case-title",
		"---":                "",
		"":                   "",
		"Ünïcode Títle":      "ünïcode-títle",
		"a  b\t\tc":          "a-b-c",
		"Trailing punct...!": "trailing-punct",
		"Fix (Bug) [Issue]":  "fix-bug-issue",
	}
	for in, want := range cases {
		require.Equal(t, want, domain.Kebab(in), "input %q", in)
	}
}

func TestValidatePrefix(t *testing.T) {
	require.NoError(t, domain.ValidatePrefix("task"))
	require.NoError(t, domain.ValidatePrefix("feature_2"))
	require.NoError(t, domain.ValidatePrefix("api-v2"))

	for _, bad := range []string{"", "has space", "-leading", "trailing-", "emo!ji"} {
		err := domain.ValidatePrefix(bad)
		require.ErrorIs(t, err, domain.ErrValidation, "prefix %q", bad)
	}
}

func TestResolveCardPrefix(t *testing.T) {
	card := &domain.Card{CardPrefix: strp("card")}
	sprint := &domain.Sprint{CardPrefix: strp("sprint")}
	board := &domain.Board{CardPrefix: strp("board")}

	require.Equal(t, "card", domain.ResolveCardPrefix(card, sprint, board, "fb"))

	card.CardPrefix = nil
	require.Equal(t, "sprint", domain.ResolveCardPrefix(card, sprint, board, "fb"))

	sprint.CardPrefix = nil
	require.Equal(t, "board", domain.ResolveCardPrefix(card, sprint, board, "fb"))

	board.CardPrefix = nil
	require.Equal(t, "fb", domain.ResolveCardPrefix(card, sprint, board, "fb"))

	require.Equal(t, domain.DefaultCardPrefix, domain.ResolveCardPrefix(nil, nil, nil, ""))

	// Empty overrides do not shadow lower levels.
	card.CardPrefix = strp("")
	board.CardPrefix = strp("board")
	require.Equal(t, "board", domain.ResolveCardPrefix(card, nil, board, "fb"))
}

func TestCardIdentifier(t *testing.T) {
	require.Equal(t, "task-42", domain.CardIdentifier("task", 42))
}

func TestBranchName(t *testing.T) {
	card := &domain.Card{Title: "Add OAuth2 Login!", CardNumber: 7}
	board := &domain.Board{CardPrefix: strp("auth")}

	require.Equal(t, "auth-7/add-oauth2-login", domain.BranchName(card, nil, board, ""))
	require.Equal(t, "git checkout -b auth-7/add-oauth2-login", domain.CheckoutCommand(card, nil, board, ""))
}

func TestBranchNameDefaults(t *testing.T) {
	card := &domain.Card{Title: "Test Card", CardNumber: 1}

	require.Equal(t, "task-1/test-card", domain.BranchName(card, nil, nil, ""))
	require.Equal(t, "git checkout -b task-1/test-card", domain.CheckoutCommand(card, nil, nil, ""))
}

func TestBranchNameTruncatesASCII(t *testing.T) {
	card := &domain.Card{Title: strings.Repeat("a", 300), CardNumber: 1}

	branch := domain.BranchName(card, nil, nil, "")
	require.Len(t, branch, 250)
	require.True(t, strings.HasPrefix(branch, "task-1/"))
}

func TestBranchNameTruncatesOnRuneBoundary(t *testing.T) {
	card := &domain.Card{Title: strings.Repeat("é", 300), CardNumber: 1}

	branch := domain.BranchName(card, nil, nil, "")
	require.LessOrEqual(t, len(branch), 250)
	require.True(t, utf8.ValidString(branch))
	require.True(t, strings.HasPrefix(branch, "task-1/"))
}

func TestSprintPrefixFallbackChain(t *testing.T) {
	board := &domain.Board{CardPrefix: strp("proj"), SprintPrefix: strp("spr")}
	sprint := &domain.Sprint{Prefix: strp("own")}

	require.Equal(t, "own", domain.SprintPrefix(sprint, board))

	sprint.Prefix = nil
	require.Equal(t, "spr", domain.SprintPrefix(sprint, board))

	board.SprintPrefix = nil
	require.Equal(t, "proj", domain.SprintPrefix(sprint, board))

	board.CardPrefix = nil
	require.Equal(t, domain.DefaultCardPrefix, domain.SprintPrefix(sprint, board))
}
